package annotation

import (
	"errors"
	"fmt"

	"github.com/soocke/pose-label-go/domain/geometry"
)

// CaptureState enumerates the steps of the three point capture gesture.
type CaptureState int

const (
	StateAwaitingHead CaptureState = iota
	StateAwaitingLeftHand
	StateAwaitingRightHand
	StateComplete
)

func (s CaptureState) String() string {
	switch s {
	case StateAwaitingHead:
		return "awaiting head"
	case StateAwaitingLeftHand:
		return "awaiting left hand"
	case StateAwaitingRightHand:
		return "awaiting right hand"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Key returns the keypoint the state is waiting for. Complete waits for none.
func (s CaptureState) Key() (PoseKey, bool) {
	switch s {
	case StateAwaitingHead:
		return KeyHead, true
	case StateAwaitingLeftHand:
		return KeyLeftHand, true
	case StateAwaitingRightHand:
		return KeyRightHand, true
	}
	return 0, false
}

// CaptureEvent is an input to Transition.
type CaptureEvent int

const (
	EventPointCaptured CaptureEvent = iota
	EventReset
)

// Transition is the total transition function of the capture gesture.
// Capturing a point advances by exactly one state and saturates at Complete.
func Transition(s CaptureState, ev CaptureEvent) CaptureState {
	switch ev {
	case EventReset:
		return StateAwaitingHead
	case EventPointCaptured:
		if s >= StateComplete || s < StateAwaitingHead {
			return StateComplete
		}
		return s + 1
	}
	return s
}

// StateFor resolves the state for existing keypoints: the first missing key
// in head, left hand, right hand order, or Complete.
func StateFor(kp Keypoints) CaptureState {
	for i, k := range PoseKeys {
		if kp.Get(k) == nil {
			return CaptureState(i)
		}
	}
	return StateComplete
}

var (
	ErrCaptureDisabled = errors.New("capture mode is off")
	ErrCaptureComplete = errors.New("all keypoints captured; reset to start over")
	ErrNoImage         = errors.New("frame image not loaded")
	ErrOutsideImage    = errors.New("point outside image")
	ErrNothingToNudge  = errors.New("no captured keypoint to nudge")
)

// CaptureListener observes every change of the derived boxes.
type CaptureListener func(prev, next CaptureState, boxes PoseBoxes)

// Capture owns the keypoints of the active frame and the boxes derived from
// them. Boxes are recomputed from keypoints whenever the edge length, a
// point, or the image changes; they are never edited independently.
// Not safe for concurrent use; it lives on the UI thread.
type Capture struct {
	state     CaptureState
	keypoints Keypoints
	boxes     PoseBoxes
	edge      int
	edgeErr   error
	image     geometry.Size
	enabled   bool
	active    PoseKey
	hasActive bool
	listeners []CaptureListener

	// set when the edge changed without an image size to derive against
	rederivePending bool
}

// NewCapture returns a capture awaiting the head with capture mode enabled.
func NewCapture(edge int) *Capture {
	c := &Capture{enabled: true}
	_ = c.setEdge(edge)
	return c
}

// AddListener registers l for box change notifications.
func (c *Capture) AddListener(l CaptureListener) {
	if c == nil || l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

func (c *Capture) State() CaptureState     { return c.state }
func (c *Capture) Keypoints() Keypoints     { return c.keypoints.Clone() }
func (c *Capture) Boxes() PoseBoxes         { return c.boxes.Clone() }
func (c *Capture) EdgeLength() int          { return c.edge }
func (c *Capture) EdgeValid() bool          { return c.edgeErr == nil }
func (c *Capture) ImageSize() geometry.Size { return c.image }
func (c *Capture) Enabled() bool            { return c.enabled }

// ActiveKey returns the keypoint nudges apply to.
func (c *Capture) ActiveKey() (PoseKey, bool) { return c.active, c.hasActive }

// SetEnabled switches capture mode.
func (c *Capture) SetEnabled(b bool) { c.enabled = b }

// CanCapture reports whether the next click would be accepted.
func (c *Capture) CanCapture() bool {
	return c.enabled && c.edgeErr == nil && c.image.Valid() && c.state != StateComplete
}

// SetImageSize records the natural size of the active frame. Seeded boxes
// are kept as they are unless the edge length changed while the size was
// unknown; those are re-derived once the size is valid.
func (c *Capture) SetImageSize(s geometry.Size) {
	c.image = s
	if !c.rederivePending || !s.Valid() || c.edgeErr != nil {
		return
	}
	c.rederivePending = false
	c.rederive()
	c.notify(c.state)
}

// Seed replaces the keypoints and boxes with data resolved for a new frame
// and resumes at the first missing keypoint.
func (c *Capture) Seed(kp Keypoints, boxes PoseBoxes) {
	prev := c.state
	c.keypoints = kp.Clone()
	c.boxes = boxes.Clone()
	for _, k := range PoseKeys {
		if c.boxes.Get(k) != nil && c.keypoints.Get(k) == nil {
			c.keypoints = c.keypoints.With(k, c.boxes.Get(k).Center())
		}
	}
	c.state = StateFor(c.keypoints)
	c.rederivePending = false
	c.hasActive = false
	for _, k := range PoseKeys {
		if c.keypoints.Get(k) != nil {
			c.active, c.hasActive = k, true
		}
	}
	c.notify(prev)
}

// Click records p for the awaited keypoint, derives its box and advances.
func (c *Capture) Click(p geometry.Point) error {
	switch {
	case !c.enabled:
		return ErrCaptureDisabled
	case c.edgeErr != nil:
		return c.edgeErr
	case !c.image.Valid():
		return ErrNoImage
	case c.state == StateComplete:
		return ErrCaptureComplete
	case !p.Finite() || p.X < 0 || p.Y < 0 || p.X > float64(c.image.W) || p.Y > float64(c.image.H):
		return fmt.Errorf("%w: (%.1f, %.1f)", ErrOutsideImage, p.X, p.Y)
	}
	key, _ := c.state.Key()
	prev := c.state
	c.keypoints = c.keypoints.With(key, p)
	c.boxes = c.boxes.With(key, geometry.DeriveBox(p, c.edge, c.image))
	c.state = Transition(c.state, EventPointCaptured)
	c.active, c.hasActive = key, true
	c.notify(prev)
	return nil
}

// Reset discards all keypoints and boxes and returns to AwaitingHead.
func (c *Capture) Reset() {
	prev := c.state
	c.keypoints = Keypoints{}
	c.boxes = PoseBoxes{}
	c.state = Transition(c.state, EventReset)
	c.hasActive = false
	c.notify(prev)
}

// SetEdgeLength changes the shared edge length. A valid length re-derives
// every present box around its keypoint; an invalid one suspends capture and
// leaves the existing boxes untouched.
func (c *Capture) SetEdgeLength(n int) error {
	if err := c.setEdge(n); err != nil {
		return err
	}
	c.rederive()
	c.notify(c.state)
	return nil
}

func (c *Capture) setEdge(n int) error {
	if err := geometry.ValidateEdgeLength(n); err != nil {
		c.edgeErr = err
		return err
	}
	c.edge = n
	c.edgeErr = nil
	return nil
}

// Nudge moves the active keypoint by (dx, dy) natural pixels and re-derives
// its box.
func (c *Capture) Nudge(dx, dy float64) error {
	if !c.hasActive {
		return ErrNothingToNudge
	}
	if c.edgeErr != nil {
		return c.edgeErr
	}
	if !c.image.Valid() {
		return ErrNoImage
	}
	p := c.keypoints.Get(c.active)
	if p == nil {
		return ErrNothingToNudge
	}
	moved := geometry.Point{X: clampF(p.X+dx, 0, float64(c.image.W)), Y: clampF(p.Y+dy, 0, float64(c.image.H))}
	c.keypoints = c.keypoints.With(c.active, moved)
	c.boxes = c.boxes.With(c.active, geometry.DeriveBox(moved, c.edge, c.image))
	c.notify(c.state)
	return nil
}

func (c *Capture) rederive() {
	if !c.image.Valid() {
		c.rederivePending = true
		return
	}
	for _, k := range PoseKeys {
		if p := c.keypoints.Get(k); p != nil {
			c.boxes = c.boxes.With(k, geometry.DeriveBox(*p, c.edge, c.image))
		}
	}
}

func (c *Capture) notify(prev CaptureState) {
	if len(c.listeners) == 0 {
		return
	}
	boxes := c.boxes.Clone()
	for _, l := range c.listeners {
		l(prev, c.state, boxes)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
