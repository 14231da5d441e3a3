package presenter

// ConnectionModel provides connected state access.
type ConnectionModel interface {
	Connected() bool
	SetConnected(bool) bool
}

// LifecycleContract narrows what the presenter needs from the frame loader.
type LifecycleContract interface {
	Start()
	Stop()
}

// AnnotatorSession is an open annotation session as driven by the UI.
type AnnotatorSession interface {
	Start()
	Close()
	ProcessFrame()
	Submit(Event)
	Click(x, y float64)
	Key(KeyEvent)
}

// SessionFactory opens a session with its frame loader from the current
// configuration.
type SessionFactory func() (AnnotatorSession, LifecycleContract, error)

// ConnectionView updates UI elements affected by connecting.
type ConnectionView interface {
	PreviewReset()
	ConfigEditable(bool)
	SetStatus(text string, isErr bool)
}

// ConnectionPresenter opens and closes label store sessions. Each connect
// builds a fresh session; nothing survives a disconnect.
type ConnectionPresenter struct {
	model   ConnectionModel
	factory SessionFactory
	view    ConnectionView
	session AnnotatorSession
	loader  LifecycleContract
}

func NewConnectionPresenter(model ConnectionModel, factory SessionFactory, view ConnectionView) *ConnectionPresenter {
	return &ConnectionPresenter{model: model, factory: factory, view: view}
}

// Session returns the open session, or nil.
func (c *ConnectionPresenter) Session() AnnotatorSession {
	if c == nil {
		return nil
	}
	return c.session
}

// Enable opens a session. Idempotent.
func (c *ConnectionPresenter) Enable() {
	if c == nil || c.model == nil || c.factory == nil || c.view == nil {
		return
	}
	if c.model.Connected() {
		return
	}
	sess, loader, err := c.factory()
	if err != nil {
		c.view.SetStatus("Connect failed: "+err.Error(), true)
		return
	}
	c.session, c.loader = sess, loader
	if c.loader != nil {
		c.loader.Start()
	}
	c.model.SetConnected(true)
	c.view.ConfigEditable(false)
	c.session.Start()
}

// Disable closes the session and its loader, resetting the preview. Idempotent.
func (c *ConnectionPresenter) Disable() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if !c.model.Connected() {
		return
	}
	if c.session != nil {
		c.session.Close()
	}
	if c.loader != nil {
		c.loader.Stop()
	}
	c.session, c.loader = nil, nil
	c.model.SetConnected(false)
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
	c.view.SetStatus("Disconnected", false)
}

// Toggle flips connected state delegating to Enable/Disable.
func (c *ConnectionPresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Connected() {
		c.Disable()
		return
	}
	c.Enable()
}

// Tick drives the open session.
func (c *ConnectionPresenter) Tick() {
	if c == nil || c.session == nil {
		return
	}
	c.session.ProcessFrame()
}
