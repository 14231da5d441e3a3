package view

import (
	"github.com/soocke/pose-label-go/ui/presenter"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// keyBinding maps a Tk event sequence to the key it reports.
type keyBinding struct {
	sequence string
	key      presenter.KeyEvent
}

func keyBindings() []keyBinding {
	var out []keyBinding
	add := func(seq, sym string, mod presenter.Modifier) {
		out = append(out, keyBinding{seq, presenter.KeyEvent{Keysym: sym, Modifier: mod}})
	}
	for _, d := range []string{"1", "2", "3", "4", "5"} {
		add("<Key-"+d+">", d, 0)
		add("<Alt-Key-"+d+">", d, presenter.ModAlt)
		add("<Key-KP_"+d+">", "KP_"+d, 0)
		add("<Alt-Key-KP_"+d+">", "KP_"+d, presenter.ModAlt)
	}
	for _, sym := range []string{"exclam", "at", "numbersign", "dollar", "percent"} {
		add("<Key-"+sym+">", sym, presenter.ModShift)
	}
	for _, sym := range []string{"Left", "Right", "Up", "Down"} {
		add("<Key-"+sym+">", sym, 0)
		add("<Shift-Key-"+sym+">", sym, presenter.ModShift)
		add("<Alt-Key-"+sym+">", sym, presenter.ModAlt)
	}
	add("<Key-space>", "space", 0)
	add("<Key-r>", "r", 0)
	add("<Key-R>", "R", presenter.ModShift)
	return out
}

// bindKeys installs the annotation shortcuts on the toplevel. The focus
// tracker marks events that arrive while an entry is being typed into.
func bindKeys(onKey func(presenter.KeyEvent), focus *presenter.FocusTracker) {
	if onKey == nil {
		return
	}
	for _, b := range keyBindings() {
		Bind(App, b.sequence, Command(func() { onKey(focus.Wrap(b.key)) }))
	}
}
