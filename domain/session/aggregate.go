package session

import (
	"github.com/soocke/pose-label-go/domain/annotation"
)

// Counts holds per-label tallies over a session. Index i counts label i+1.
type Counts struct {
	Head    [annotation.MaxLabel]int
	Hand    [annotation.MaxLabel]int
	Labeled int
	Total   int
}

// HeadCount returns the number of labeled frames with head label l.
func (c Counts) HeadCount(l annotation.Label) int {
	if !l.Valid() {
		return 0
	}
	return c.Head[l-1]
}

// HandCount returns the number of labeled frames with hand label l.
func (c Counts) HandCount(l annotation.Label) int {
	if !l.Valid() {
		return 0
	}
	return c.Hand[l-1]
}

// Aggregate tallies head and hand labels of labeled frames. Unrecognised
// label values are skipped.
func Aggregate(frames []string, metas map[string]annotation.FrameMeta) Counts {
	c := Counts{Total: len(frames)}
	for _, f := range frames {
		m, ok := metas[f]
		if !ok || !m.Labeled {
			continue
		}
		c.Labeled++
		if m.Label.Valid() {
			c.Head[m.Label-1]++
		}
		if m.HandLabel.Valid() {
			c.Hand[m.HandLabel-1]++
		}
	}
	return c
}

// Counts aggregates the navigator's current metadata.
func (n *Navigator) Counts() Counts { return Aggregate(n.frames, n.metas) }
