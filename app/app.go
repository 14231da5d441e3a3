package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pose-label-go/config"
	"github.com/soocke/pose-label-go/debug"
	"github.com/soocke/pose-label-go/ui/theme"
	"github.com/soocke/pose-label-go/ui/view"
)

const (
	tick          = 50 * time.Millisecond
	debugInterval = 5 * time.Second
)

// Options tune startup behaviour.
type Options struct {
	Title       string
	Width       int
	Height      int
	ConfigPath  string
	AutoConnect bool
}

type app struct {
	opts    Options
	cfg     *config.Config
	logger  *slog.Logger
	c       *AppContainer
	afterID string
	cancel  context.CancelFunc
}

func NewApp(opts Options, cfg *config.Config, logger *slog.Logger) *app {
	a := &app{opts: opts, cfg: cfg, logger: logger}
	App.WmTitle(opts.Title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", opts.Width, opts.Height))
	return a
}

// Start builds the UI, starts the update loop and blocks in the Tk event loop.
func (a *app) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	theme.SetDark(a.cfg.DarkMode)

	a.c = BuildContainer(a.cfg, a.logger, a.opts.ConfigPath, a.scheduleUpdate)
	a.c.RootView.Build(view.Handlers{
		OnConnect: a.c.ConnectionPresenter.Toggle,
		OnExit:    a.exitHandler,
		OnEvent:   a.c.submit,
		OnClick:   a.c.click,
		OnKey:     a.c.key,
		Focus:     a.c.Focus,
	})
	if a.cfg.Debug {
		debug.StartRuntimeLogger(ctx, debugInterval, a.logger)
	}
	if a.opts.AutoConnect && a.cfg.SessionID != "" {
		a.c.ConnectionPresenter.Enable()
	}

	a.scheduleUpdate()
	App.Wait()
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	if a.c != nil {
		a.c.ConnectionPresenter.Disable()
	}
	if a.cancel != nil {
		a.cancel()
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}
