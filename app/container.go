package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/pose-label-go/config"
	"github.com/soocke/pose-label-go/domain/frames"
	"github.com/soocke/pose-label-go/domain/labelstore"
	"github.com/soocke/pose-label-go/ui/model"
	"github.com/soocke/pose-label-go/ui/presenter"
	"github.com/soocke/pose-label-go/ui/theme"
	"github.com/soocke/pose-label-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Conn     *model.ConnectionModel
	Session  *model.SessionModel
	Sync     *model.SyncModel
	Viewport *model.ViewportModel
	Focus    *presenter.FocusTracker
	RootView *view.RootView
	UI       view.UI

	// Presenters
	SessionPresenter    *presenter.SessionPresenter
	FSMPresenter        *presenter.FSMPresenter
	ConnectionPresenter *presenter.ConnectionPresenter
	Loop                *presenter.Loop
}

// BuildContainer constructs all components. Nothing touches the network
// until a session is opened.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string, schedule func()) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Conn = &model.ConnectionModel{}
	c.Session = model.NewSessionModel(model.DefaultIdleTimeout)
	c.Sync = &model.SyncModel{}
	c.Viewport = model.NewViewportModel(cfg.MaxDisplayWidth)
	c.Focus = presenter.NewFocusTracker(logger)
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.FSMPresenter = presenter.NewFSMPresenter(c.UI)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Conn, c.UI)
	c.ConnectionPresenter = presenter.NewConnectionPresenter(c.Conn, c.openSession, c.UI)
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.FSMPresenter, c.ConnectionPresenter, schedule)
	return c
}

// openSession builds the label store client, frame loader and annotator
// for the configured session.
func (c *AppContainer) openSession() (presenter.AnnotatorSession, presenter.LifecycleContract, error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.SessionID == "" {
		return nil, nil, errors.New("session id is required")
	}
	client, err := labelstore.NewClient(cfg.ServerURL, cfg.SessionID, cfg.RequestTimeout(), c.Logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := frames.NewService(client, cfg.ImageCacheSize, c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("frame loader: %w", err)
	}
	ctrl := presenter.NewController(presenter.ControllerOptions{
		EdgeLength:    cfg.EdgeLength,
		Inherit:       cfg.Inherit,
		UnlabeledOnly: cfg.UnlabeledOnly,
		Logger:        c.Logger,
	})
	ctrl.Capture().AddListener(c.FSMPresenter.Listener())
	c.Viewport.SetMaxWidth(cfg.MaxDisplayWidth)
	ap := presenter.NewAnnotatorPresenter(ctrl, client, svc, c.UI, presenter.AnnotatorOptions{
		Timeout:     cfg.RequestTimeout(),
		PreviewSize: cfg.PreviewSize,
		Style:       theme.BoxStyle(),
		Viewport:    c.Viewport,
		Sync:        c.Sync,
		Session:     c.Session,
		Logger:      c.Logger,
	})
	if c.Logger != nil {
		c.Logger.Info("session opened", "server", cfg.ServerURL, "session", cfg.SessionID)
	}
	return ap, svc, nil
}

// submit forwards a controller event to the open session.
func (c *AppContainer) submit(ev presenter.Event) {
	if s := c.ConnectionPresenter.Session(); s != nil {
		s.Submit(ev)
	}
}

func (c *AppContainer) click(x, y float64) {
	if s := c.ConnectionPresenter.Session(); s != nil {
		s.Click(x, y)
	}
}

func (c *AppContainer) key(k presenter.KeyEvent) {
	if s := c.ConnectionPresenter.Session(); s != nil {
		s.Key(k)
	}
}
