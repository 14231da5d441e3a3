package presenter

import "github.com/soocke/pose-label-go/domain/annotation"

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModControl
)

// KeyEvent is a key press as reported by the toolkit.
type KeyEvent struct {
	Keysym      string
	Modifier    Modifier
	TextFocused bool
}

// shiftedDigits maps the keysyms Tk reports for Shift+1..5 on a US layout.
var shiftedDigits = map[string]annotation.Label{
	"exclam":     1,
	"at":         2,
	"numbersign": 3,
	"dollar":     4,
	"percent":    5,
}

var digitKeys = map[string]annotation.Label{
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5,
	"KP_1": 1, "KP_2": 2, "KP_3": 3, "KP_4": 4, "KP_5": 5,
}

// DispatchKey maps a key press to a controller event. It reports false for
// keys the annotator ignores and for every key while a text entry has focus.
// Bindings live on the toplevel, after the widget class bindings, so a
// consumed key has nothing left to suppress.
func DispatchKey(k KeyEvent) (Event, bool) {
	if k.TextFocused {
		return Event{}, false
	}
	modified := k.Modifier&(ModShift|ModAlt) != 0
	if l, ok := shiftedDigits[k.Keysym]; ok {
		return Event{Kind: EventSetHandLabel, Label: l}, true
	}
	if l, ok := digitKeys[k.Keysym]; ok {
		if modified {
			return Event{Kind: EventSetHandLabel, Label: l}, true
		}
		return Event{Kind: EventSetHeadLabel, Label: l}, true
	}
	switch k.Keysym {
	case "Left":
		if modified {
			return Event{Kind: EventNudge, DX: -1}, true
		}
		return Event{Kind: EventNavigate, Delta: -1}, true
	case "Right":
		if modified {
			return Event{Kind: EventNudge, DX: 1}, true
		}
		return Event{Kind: EventNavigate, Delta: 1}, true
	case "Up":
		return Event{Kind: EventNudge, DY: -1}, true
	case "Down":
		return Event{Kind: EventNudge, DY: 1}, true
	case "space":
		return Event{Kind: EventSaveAdvance}, true
	case "r", "R":
		if k.Modifier&ModControl != 0 {
			return Event{}, false
		}
		return Event{Kind: EventResetCapture}, true
	}
	return Event{}, false
}
