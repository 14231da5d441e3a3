package theme

// Centralized theming and styling initialization for the annotator UI.
// Provides palette constants and InitStyles to activate a base theme and
// configure semantic widget styles. Box colours are shared between the Tk
// legend labels and the rendered overlay.

import (
	"github.com/soocke/pose-label-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"

	// Annotation colours.
	ColorHead      = "#e53935"
	ColorLeftHand  = "#1e88e5"
	ColorRightHand = "#43a047"
	ColorDetection = "#fb8c00"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Border:    "#334155",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Accent:    "#10b981",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Accent:    ColorAccent,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
	StyleErrorLabel    = "error.TLabel"
	StyleHeadLabel     = "head.TLabel"
	StyleLeftLabel     = "left.TLabel"
	StyleRightLabel    = "right.TLabel"
)

var darkMode bool

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark switches mode and reapplies styles. Returns the new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	InitStyles()
	return darkMode
}

// BoxStyle returns the overlay style matching the palette.
func BoxStyle() images.Style {
	st := images.DefaultStyle()
	st.Head = images.ParseHex(ColorHead)
	st.LeftHand = images.ParseHex(ColorLeftHand)
	st.RightHand = images.ParseHex(ColorRightHand)
	st.Detection = images.ParseHex(ColorDetection)
	return st
}

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton, Background(p.Primary), Foreground("white"),
		Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(p.Danger), Foreground("white"),
		Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleStateLabel, Foreground("white"), Background(p.Accent),
		Padding("4p 2p"), Borderwidth(1), Relief("groove"))
	StyleConfigure(StyleErrorLabel, Foreground(p.Danger), Background(p.Surface), Padding("2p 1p"))
	StyleConfigure(StyleHeadLabel, Foreground(ColorHead), Background(p.Surface))
	StyleConfigure(StyleLeftLabel, Foreground(ColorLeftHand), Background(p.Surface))
	StyleConfigure(StyleRightLabel, Foreground(ColorRightHand), Background(p.Surface))
}
