package annotation

// SeedSource tells where the initial keypoints of a frame came from.
type SeedSource int

const (
	SeedEmpty SeedSource = iota
	SeedPersisted
	SeedInherited
)

func (s SeedSource) String() string {
	switch s {
	case SeedPersisted:
		return "persisted"
	case SeedInherited:
		return "inherited"
	default:
		return "empty"
	}
}

// Seed is the starting point of a frame's capture.
type Seed struct {
	Source    SeedSource
	Keypoints Keypoints
	Boxes     PoseBoxes
	Label     Label
	HandLabel Label
}

// InheritanceCache remembers the boxes of the last successful submit in the
// current session. The zero value is empty and usable.
type InheritanceCache struct {
	boxes     PoseBoxes
	keypoints Keypoints
	set       bool
}

// Remember stores a submitted annotation.
func (c *InheritanceCache) Remember(boxes PoseBoxes, kp Keypoints) {
	if c == nil || boxes.Empty() {
		return
	}
	c.boxes = boxes.Clone()
	c.keypoints = kp.Clone()
	c.set = true
}

// Last returns the remembered boxes and keypoints.
func (c *InheritanceCache) Last() (PoseBoxes, Keypoints, bool) {
	if c == nil || !c.set {
		return PoseBoxes{}, Keypoints{}, false
	}
	return c.boxes.Clone(), c.keypoints.Clone(), true
}

// Clear forgets the remembered annotation.
func (c *InheritanceCache) Clear() {
	if c == nil {
		return
	}
	*c = InheritanceCache{}
}

// ResolveSeed picks the starting annotation for a frame: its own persisted
// annotation first, then the last submitted boxes when inherit is on, else
// nothing. A labeled frame keeps its labels whichever geometry is used, and
// persisted geometry is never replaced by inherited boxes.
func ResolveSeed(meta *FrameMeta, inherit bool, cache *InheritanceCache) Seed {
	var seed Seed
	if meta != nil && meta.Labeled {
		seed.Label, seed.HandLabel = meta.Label, meta.HandLabel
		if meta.HasAnnotation() {
			seed.Source = SeedPersisted
			seed.Boxes = meta.Boxes()
			if meta.Keypoints != nil {
				seed.Keypoints = meta.Keypoints.Clone()
			}
			return seed
		}
	}
	if inherit {
		if boxes, kp, ok := cache.Last(); ok {
			if kp.Head == nil && kp.LeftHand == nil && kp.RightHand == nil {
				kp = boxes.Centers()
			}
			seed.Source = SeedInherited
			seed.Boxes = boxes
			seed.Keypoints = kp
		}
	}
	return seed
}
