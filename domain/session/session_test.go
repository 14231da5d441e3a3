package session

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/soocke/pose-label-go/domain/annotation"
)

func newNav(frames ...string) *Navigator {
	n := NewNavigator()
	n.SetFrames(frames)
	return n
}

func TestNavigator_FilterClampsToFirstWhenCurrentHidden(t *testing.T) {
	n := newNav("f1", "f2", "f3")
	n.SelectIndex(1)
	n.ApplyMetas(map[string]annotation.FrameMeta{"f2": {Labeled: true, Label: 2}})
	n.SetFilter(FilterUnlabeled)
	if got := n.Visible(); !reflect.DeepEqual(got, []string{"f1", "f3"}) {
		t.Fatalf("unexpected visible frames %v", got)
	}
	if n.Index() != 0 {
		t.Fatalf("expected index 0, got %d", n.Index())
	}
}

func TestNavigator_FilterKeepsVisibleCurrent(t *testing.T) {
	n := newNav("f1", "f2", "f3")
	n.SelectIndex(2)
	n.ApplyMetas(map[string]annotation.FrameMeta{"f2": {Labeled: true}})
	n.SetFilter(FilterUnlabeled)
	if cur, _ := n.Current(); cur != "f3" {
		t.Fatalf("expected f3 to stay selected, got %s", cur)
	}
	n.ToggleFilter()
	if cur, _ := n.Current(); cur != "f3" || n.Index() != 2 {
		t.Fatalf("expected f3 at 2 after toggle back, got %s at %d", cur, n.Index())
	}
}

func TestNavigator_NextPrevDoNotWrap(t *testing.T) {
	n := newNav("a", "b")
	if n.Prev() {
		t.Fatalf("prev at start should not move")
	}
	if !n.Next() || n.Index() != 1 {
		t.Fatalf("next should move to 1")
	}
	if n.Next() || n.Index() != 1 {
		t.Fatalf("next at end should not move")
	}
}

func TestNavigator_SaveLastUnlabeled(t *testing.T) {
	n := newNav("a", "b")
	n.ApplyMetas(map[string]annotation.FrameMeta{"a": {Labeled: true}})
	n.SetFilter(FilterUnlabeled)
	if cur, ok := n.Current(); !ok || cur != "b" {
		t.Fatalf("expected b, got %q ok=%v", cur, ok)
	}
	n.MarkSaved("b", annotation.FrameMeta{Label: 1, HandLabel: 1})
	if _, ok := n.Current(); ok {
		t.Fatalf("no frame should be visible")
	}
	if n.Index() != 0 {
		t.Fatalf("empty view must clamp to 0, got %d", n.Index())
	}
	if n.Next() || n.Prev() {
		t.Fatalf("navigation on empty view must be a no-op")
	}
}

func TestNavigator_MarkSavedSlidesNextIntoSlot(t *testing.T) {
	n := newNav("a", "b", "c")
	n.SetFilter(FilterUnlabeled)
	n.SelectIndex(1)
	n.MarkSaved("b", annotation.FrameMeta{Label: 3, HandLabel: 4})
	if cur, _ := n.Current(); cur != "c" {
		t.Fatalf("expected c to take b's slot, got %s", cur)
	}
	if m, _ := n.Meta("b"); !m.Labeled || m.Label != 3 {
		t.Fatalf("optimistic update not applied: %+v", m)
	}
}

func TestNavigator_SetFramesDropsDuplicatesAndKeepsOrder(t *testing.T) {
	n := newNav("f3", "f1", "f3", "f2")
	if got := n.Frames(); !reflect.DeepEqual(got, []string{"f3", "f1", "f2"}) {
		t.Fatalf("unexpected frames %v", got)
	}
	if len(n.Metas()) != 3 {
		t.Fatalf("expected exactly one meta per frame, got %d", len(n.Metas()))
	}
}

func TestNavigator_SelectByName(t *testing.T) {
	n := newNav("a", "b", "c")
	if !n.Select("c") || n.Index() != 2 {
		t.Fatalf("select c failed, index=%d", n.Index())
	}
	if n.Select("zzz") {
		t.Fatalf("unknown frame should not select")
	}
}

func TestNavigator_IndexAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	frames := []string{"a", "b", "c", "d", "e"}
	n := newNav(frames...)
	for step := 0; step < 2000; step++ {
		switch rng.Intn(6) {
		case 0:
			n.ToggleFilter()
		case 1:
			if cur, ok := n.Current(); ok {
				n.MarkSaved(cur, annotation.FrameMeta{Label: 1})
			}
		case 2:
			n.ApplyMetas(nil)
		case 3:
			n.Next()
		case 4:
			n.Prev()
		case 5:
			metas := map[string]annotation.FrameMeta{}
			for _, f := range frames {
				if rng.Intn(2) == 0 {
					metas[f] = annotation.FrameMeta{Labeled: true}
				}
			}
			n.ApplyMetas(metas)
		}
		vis := n.Visible()
		if len(vis) == 0 {
			if n.Index() != 0 {
				t.Fatalf("step %d: empty view with index %d", step, n.Index())
			}
			continue
		}
		if n.Index() < 0 || n.Index() >= len(vis) {
			t.Fatalf("step %d: index %d out of [0,%d)", step, n.Index(), len(vis))
		}
	}
}

func TestAggregate_CountsOnlyLabeledValidValues(t *testing.T) {
	frames := []string{"a", "b", "c", "d", "e"}
	metas := map[string]annotation.FrameMeta{
		"a": {Labeled: true, Label: 1, HandLabel: 5},
		"b": {Labeled: true, Label: 1, HandLabel: 2},
		"c": {Labeled: false, Label: 3, HandLabel: 3},
		"d": {Labeled: true, Label: 9, HandLabel: 0},
		"x": {Labeled: true, Label: 4},
	}
	c := Aggregate(frames, metas)
	if c.HeadCount(1) != 2 || c.HeadCount(3) != 0 || c.HeadCount(4) != 0 {
		t.Fatalf("unexpected head counts %v", c.Head)
	}
	if c.HandCount(5) != 1 || c.HandCount(2) != 1 || c.HandCount(3) != 0 {
		t.Fatalf("unexpected hand counts %v", c.Hand)
	}
	if c.Labeled != 3 || c.Total != 5 {
		t.Fatalf("expected 3/5 labeled, got %d/%d", c.Labeled, c.Total)
	}
	if c.HeadCount(0) != 0 || c.HandCount(6) != 0 {
		t.Fatalf("out of range labels must count zero")
	}
}
