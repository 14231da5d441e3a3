package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pose-label-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the connection settings form and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	SetEditable(enabled bool)
	ApplyChanges() error
}

// TextFocus receives focus changes of the panel's entries.
type TextFocus interface {
	FocusIn(widget string)
	FocusOut(widget string)
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	focus    TextFocus
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by config field name
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, focus TextFocus) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, focus: focus, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := textEntry(id, 24, v.focus)
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		setText(w, value)
		v.widgets[id] = w
		row++
	}
	makeRow("server_url", "Server URL", c.ServerURL)
	makeRow("session_id", "Session", c.SessionID)
	makeRow("request_timeout_seconds", "Timeout (s)", strconv.Itoa(c.RequestTimeoutSeconds))
	makeRow("max_display_width", "Max Display Width", strconv.Itoa(c.MaxDisplayWidth))
	makeRow("preview_size", "Preview Size", strconv.Itoa(c.PreviewSize))
	makeRow("image_cache_size", "Image Cache", strconv.Itoa(c.ImageCacheSize))
	makeRow("log_level", "Log Level", c.LogLevel)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() {
		if err := v.ApplyChanges(); err != nil && v.logger != nil {
			v.logger.Warn("config rejected", "error", err)
		}
	}))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) ApplyChanges() error {
	if v.cfg == nil {
		return nil
	}
	cfg := *v.cfg // copy
	assignInt := func(id string, dst *int) {
		if i, err := strconv.Atoi(v.value(id)); err == nil {
			*dst = i
		}
	}
	cfg.ServerURL = v.value("server_url")
	cfg.SessionID = v.value("session_id")
	cfg.LogLevel = v.value("log_level")
	assignInt("request_timeout_seconds", &cfg.RequestTimeoutSeconds)
	assignInt("max_display_width", &cfg.MaxDisplayWidth)
	assignInt("preview_size", &cfg.PreviewSize)
	assignInt("image_cache_size", &cfg.ImageCacheSize)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		return err
	}
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	return nil
}

func (v *configPanel) value(id string) string { return textOf(v.widgets[id]) }

// textEntry returns a one-line Text widget reporting focus changes under id.
func textEntry(id string, width int, focus TextFocus) *TextWidget {
	w := Text(Height(1), Width(width))
	if focus != nil {
		Bind(w, "<FocusIn>", Command(func() { focus.FocusIn(id) }))
		Bind(w, "<FocusOut>", Command(func() { focus.FocusOut(id) }))
	}
	return w
}

func setText(w *TextWidget, s string) {
	if w == nil {
		return
	}
	w.Delete("1.0", END)
	w.Insert("1.0", s)
}

func textOf(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}
