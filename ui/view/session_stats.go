package view

import (
	"time"

	"github.com/soocke/pose-label-go/domain/session"
	"github.com/soocke/pose-label-go/ui/presenter"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows labeling progress, per-label counts and throughput.
type SessionStats interface {
	SetSession(active time.Duration, saves int, perHour float64)
	SetProgress(vs presenter.ViewState)
	SetCounts(c session.Counts)
}

type sessionStats struct {
	sessionLbl  *LabelWidget
	progressLbl *LabelWidget
	countsLbl   *LabelWidget
}

// NewSessionStats creates the stats labels in parent, one per row from row.
func NewSessionStats(parent *FrameWidget, row int) SessionStats {
	s := &sessionStats{
		sessionLbl:  Label(Anchor("w")),
		progressLbl: Label(Anchor("w")),
		countsLbl:   Label(Anchor("w")),
	}
	for i, l := range []*LabelWidget{s.progressLbl, s.countsLbl, s.sessionLbl} {
		Grid(l, In(parent), Row(row+i), Column(0), Sticky("we"), Padx("0.2m"))
	}
	s.SetSession(0, 0, 0)
	s.SetProgress(presenter.ViewState{})
	s.SetCounts(session.Counts{})
	return s
}

func (s *sessionStats) SetSession(active time.Duration, saves int, perHour float64) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt(presenter.SessionText(active, saves, perHour)))
}

func (s *sessionStats) SetProgress(vs presenter.ViewState) {
	if s == nil || s.progressLbl == nil {
		return
	}
	s.progressLbl.Configure(Txt(presenter.ProgressText(vs)))
}

func (s *sessionStats) SetCounts(c session.Counts) {
	if s == nil || s.countsLbl == nil {
		return
	}
	s.countsLbl.Configure(Txt(presenter.CountsText(c)))
}
