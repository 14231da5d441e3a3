package annotation

import (
	"github.com/soocke/pose-label-go/domain/geometry"
)

// PoseKey identifies one of the three captured keypoints.
type PoseKey int

const (
	KeyHead PoseKey = iota
	KeyLeftHand
	KeyRightHand
)

// PoseKeys lists the keypoints in capture order.
var PoseKeys = [...]PoseKey{KeyHead, KeyLeftHand, KeyRightHand}

func (k PoseKey) String() string {
	switch k {
	case KeyHead:
		return "head"
	case KeyLeftHand:
		return "left_hand"
	case KeyRightHand:
		return "right_hand"
	default:
		return "unknown"
	}
}

// Label is a pose class in 1..5. Zero means unset.
type Label int

// MaxLabel is the highest recognised label value.
const MaxLabel = 5

// Valid reports whether l is a recognised label.
func (l Label) Valid() bool { return l >= 1 && l <= MaxLabel }

// Keypoints holds the optional head and hand points of a frame.
type Keypoints struct {
	Head      *geometry.Point `json:"head,omitempty"`
	LeftHand  *geometry.Point `json:"left_hand,omitempty"`
	RightHand *geometry.Point `json:"right_hand,omitempty"`
}

// Get returns the point stored under k.
func (kp Keypoints) Get(k PoseKey) *geometry.Point {
	switch k {
	case KeyHead:
		return kp.Head
	case KeyLeftHand:
		return kp.LeftHand
	case KeyRightHand:
		return kp.RightHand
	}
	return nil
}

// With returns a copy of kp with k set to p.
func (kp Keypoints) With(k PoseKey, p geometry.Point) Keypoints {
	switch k {
	case KeyHead:
		kp.Head = &p
	case KeyLeftHand:
		kp.LeftHand = &p
	case KeyRightHand:
		kp.RightHand = &p
	}
	return kp
}

// Complete reports whether all three points are present.
func (kp Keypoints) Complete() bool {
	return kp.Head != nil && kp.LeftHand != nil && kp.RightHand != nil
}

// Clone deep-copies the points so callers can't alias each other's state.
func (kp Keypoints) Clone() Keypoints {
	var out Keypoints
	for _, k := range PoseKeys {
		if p := kp.Get(k); p != nil {
			out = out.With(k, *p)
		}
	}
	return out
}

// PoseBoxes holds the three boxes derived from Keypoints. A nil entry means
// the corresponding keypoint has not been captured.
type PoseBoxes struct {
	Head      *geometry.BBox `json:"head"`
	LeftHand  *geometry.BBox `json:"left_hand"`
	RightHand *geometry.BBox `json:"right_hand"`
}

// Get returns the box stored under k.
func (pb PoseBoxes) Get(k PoseKey) *geometry.BBox {
	switch k {
	case KeyHead:
		return pb.Head
	case KeyLeftHand:
		return pb.LeftHand
	case KeyRightHand:
		return pb.RightHand
	}
	return nil
}

// With returns a copy of pb with k set to b.
func (pb PoseBoxes) With(k PoseKey, b geometry.BBox) PoseBoxes {
	switch k {
	case KeyHead:
		pb.Head = &b
	case KeyLeftHand:
		pb.LeftHand = &b
	case KeyRightHand:
		pb.RightHand = &b
	}
	return pb
}

// Complete reports whether all three boxes are present.
func (pb PoseBoxes) Complete() bool {
	return pb.Head != nil && pb.LeftHand != nil && pb.RightHand != nil
}

// Within reports whether every present box lies inside an image of size s.
func (pb PoseBoxes) Within(s geometry.Size) bool {
	for _, k := range PoseKeys {
		if b := pb.Get(k); b != nil && !b.Within(s) {
			return false
		}
	}
	return true
}

// Empty reports whether no box is present.
func (pb PoseBoxes) Empty() bool {
	return pb.Head == nil && pb.LeftHand == nil && pb.RightHand == nil
}

// Clone deep-copies the boxes.
func (pb PoseBoxes) Clone() PoseBoxes {
	var out PoseBoxes
	for _, k := range PoseKeys {
		if b := pb.Get(k); b != nil {
			out = out.With(k, *b)
		}
	}
	return out
}

// Centers returns the keypoints implied by the box centers.
func (pb PoseBoxes) Centers() Keypoints {
	var kp Keypoints
	for _, k := range PoseKeys {
		if b := pb.Get(k); b != nil {
			kp = kp.With(k, b.Center())
		}
	}
	return kp
}

// FrameMeta is the label store's view of one frame.
type FrameMeta struct {
	Labeled      bool
	Label        Label
	HandLabel    Label
	HeadBox      *geometry.BBox
	LeftHandBox  *geometry.BBox
	RightHandBox *geometry.BBox
	Keypoints    *Keypoints
}

// Boxes returns the persisted boxes as PoseBoxes.
func (m FrameMeta) Boxes() PoseBoxes {
	return PoseBoxes{Head: m.HeadBox, LeftHand: m.LeftHandBox, RightHand: m.RightHandBox}.Clone()
}

// HasAnnotation reports whether the frame carries persisted geometry.
func (m FrameMeta) HasAnnotation() bool {
	if !m.Labeled {
		return false
	}
	if m.Keypoints != nil && (m.Keypoints.Head != nil || m.Keypoints.LeftHand != nil || m.Keypoints.RightHand != nil) {
		return true
	}
	return !m.Boxes().Empty()
}
