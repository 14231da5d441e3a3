package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pose-label-go/config"
	"github.com/soocke/pose-label-go/ui/images"
	"github.com/soocke/pose-label-go/ui/presenter"
	"github.com/soocke/pose-label-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Controls    Controls
	Preview     FramePreview

	// Widgets
	StateLabel  *TLabelWidget
	StatusLabel *TLabelWidget
	connectBtn  *ButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	presenter.AnnotatorView
	presenter.ConnectionView
	presenter.StateView
	presenter.SessionView
}

var _ UI = (*RootView)(nil)

// Handlers receive user actions from the root view.
type Handlers struct {
	OnConnect func()
	OnExit    func()
	OnEvent   func(presenter.Event)
	OnClick   func(x, y float64)
	OnKey     func(presenter.KeyEvent)
	Focus     *presenter.FocusTracker
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout and installs keyboard bindings.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: state label, status line, connect/exit
	rv.StateLabel = TLabel(Txt("Next: head"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.StatusLabel = TLabel(Txt("Disconnected"), Anchor("w"))
	Grid(rv.StatusLabel, Row(0), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Columnspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.connectBtn = Button(Txt("Connect"), Command(h.OnConnect))
	Grid(rv.connectBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	Grid(Button(Txt("Exit"), Command(h.OnExit)), In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))

	// Row 1: frame and crops on the left, panel on the right
	rv.Preview = NewFramePreview(1, rv.cfg.PreviewSize, h.OnClick)

	side := Frame()
	Grid(side, Row(1), Column(5), Sticky("nwe"), Padx("0.4m"), Pady("0.4m"))
	rv.Session = NewSessionStats(side, 0)
	rv.Controls = NewControls(h.OnEvent, h.Focus)
	row := rv.Controls.Build(side, 3, rv.cfg.EdgeLength)
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.Focus)
	rv.ConfigPanel.Build(side, row)
	rv.Controls.SetEnabled(false)

	bindKeys(h.OnKey, h.Focus)
}

// SetStateLabel updates the capture state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetStatus shows a one-line message; errors use the error style.
func (rv *RootView) SetStatus(text string, isErr bool) {
	if rv == nil || rv.StatusLabel == nil {
		return
	}
	style := "TLabel"
	if isErr {
		style = theme.StyleErrorLabel
	}
	rv.StatusLabel.Configure(Txt(text), Style(style))
}

// SetConfigEditable toggles config panel editability. Annotation controls
// are the inverse: usable only while connected.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv == nil {
		return
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
	if rv.Controls != nil {
		rv.Controls.SetEnabled(!enabled)
	}
	if rv.connectBtn != nil {
		if enabled {
			rv.connectBtn.Configure(Txt("Connect"))
		} else {
			rv.connectBtn.Configure(Txt("Disconnect"))
		}
	}
}

// ShowFrame proxies to the frame preview.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ShowFrame(img)
	}
}

// ShowPreviews proxies to the crop previews.
func (rv *RootView) ShowPreviews(p images.Previews) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ShowPreviews(p)
	}
}

// ShowState refreshes progress, counts and controls.
func (rv *RootView) ShowState(vs presenter.ViewState, pending int) {
	if rv == nil {
		return
	}
	if rv.Session != nil {
		rv.Session.SetProgress(vs)
		rv.Session.SetCounts(vs.Counts)
	}
	if rv.Controls != nil {
		rv.Controls.Update(vs)
	}
	if pending > 0 && rv.logger != nil {
		rv.logger.Debug("requests in flight", "pending", pending)
	}
}

// SetSession updates labeling time and throughput.
func (rv *RootView) SetSession(active time.Duration, saves int, perHour float64) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(active, saves, perHour)
}

// --- ConnectionPresenter view contract methods ---
// PreviewReset clears the frame and crop previews.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}

// ConfigEditable redirects to SetConfigEditable to satisfy ConnectionView.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }
