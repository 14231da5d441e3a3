package annotation

import (
	"math"
	"testing"

	"github.com/soocke/pose-label-go/domain/geometry"
)

func submitted() PoseBoxes {
	return PoseBoxes{
		Head:      &geometry.BBox{X: 0, Y: 0, Width: 64, Height: 64},
		LeftHand:  &geometry.BBox{X: 100, Y: 200, Width: 64, Height: 64},
		RightHand: &geometry.BBox{X: 300, Y: 200, Width: 64, Height: 64},
	}
}

func TestResolveSeed_InheritsSubmittedBoxes(t *testing.T) {
	var cache InheritanceCache
	cache.Remember(submitted(), Keypoints{})
	seed := ResolveSeed(&FrameMeta{}, true, &cache)
	if seed.Source != SeedInherited {
		t.Fatalf("expected inherited seed, got %v", seed.Source)
	}
	want := submitted()
	for _, k := range PoseKeys {
		if *seed.Boxes.Get(k) != *want.Get(k) {
			t.Fatalf("%v: expected %+v, got %+v", k, *want.Get(k), *seed.Boxes.Get(k))
		}
	}
	// Seed into a capture and make sure boxes survive verbatim.
	c := NewCapture(64)
	c.SetImageSize(geometry.Size{W: 640, H: 480})
	c.Seed(seed.Keypoints, seed.Boxes)
	if c.State() != StateComplete {
		t.Fatalf("inherited complete boxes should resolve to complete, got %v", c.State())
	}
	if *c.Boxes().Head != *want.Head {
		t.Fatalf("seeded head drifted: %+v", *c.Boxes().Head)
	}
}

func TestResolveSeed_PersistedWins(t *testing.T) {
	var cache InheritanceCache
	cache.Remember(submitted(), Keypoints{})
	own := geometry.BBox{X: 5, Y: 6, Width: 32, Height: 32}
	meta := &FrameMeta{Labeled: true, Label: 3, HandLabel: 2, HeadBox: &own}
	seed := ResolveSeed(meta, true, &cache)
	if seed.Source != SeedPersisted {
		t.Fatalf("expected persisted seed, got %v", seed.Source)
	}
	if *seed.Boxes.Head != own || seed.Boxes.LeftHand != nil {
		t.Fatalf("persisted boxes replaced: %+v", seed.Boxes)
	}
	if seed.Label != 3 || seed.HandLabel != 2 {
		t.Fatalf("labels not carried: %d/%d", seed.Label, seed.HandLabel)
	}
}

func TestResolveSeed_EmptyWithoutInherit(t *testing.T) {
	var cache InheritanceCache
	cache.Remember(submitted(), Keypoints{})
	if seed := ResolveSeed(nil, false, &cache); seed.Source != SeedEmpty || !seed.Boxes.Empty() {
		t.Fatalf("expected empty seed, got %+v", seed)
	}
	cache.Clear()
	if seed := ResolveSeed(nil, true, &cache); seed.Source != SeedEmpty {
		t.Fatalf("cleared cache should not seed, got %v", seed.Source)
	}
}

func TestInheritanceCache_ReturnsCopies(t *testing.T) {
	var cache InheritanceCache
	boxes := submitted()
	cache.Remember(boxes, Keypoints{})
	boxes.Head.X = 99
	got, _, _ := cache.Last()
	if got.Head.X != 0 {
		t.Fatalf("cache aliased caller state")
	}
}

func TestDetectionSet_FiltersUnsubmittable(t *testing.T) {
	var s DetectionSet
	img := geometry.Size{W: 640, H: 480}
	if err := s.Add(geometry.Point{X: 50, Y: 50}, 32, img); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(geometry.Point{X: 50, Y: 50}, 4, img); err == nil {
		t.Fatalf("tiny edge should be rejected")
	}
	s.Replace(append(s.All(),
		DetectionBox{X: 1, Y: 1, BoxSize: 0, ImageWidth: 640, ImageHeight: 480},
		DetectionBox{X: math.NaN(), Y: 1, BoxSize: 10, ImageWidth: 640, ImageHeight: 480},
		DetectionBox{X: 1, Y: math.Inf(1), BoxSize: 10, ImageWidth: 640, ImageHeight: 480},
	))
	if s.Len() != 4 {
		t.Fatalf("expected 4 stored boxes, got %d", s.Len())
	}
	ok := s.Submittable()
	if len(ok) != 1 || ok[0].BoxSize != 32 {
		t.Fatalf("expected only the valid box, got %+v", ok)
	}
	if !s.RemoveLast() || s.Len() != 3 {
		t.Fatalf("remove last failed")
	}
	s.Clear()
	if s.RemoveLast() {
		t.Fatalf("remove on empty set should report false")
	}
}
