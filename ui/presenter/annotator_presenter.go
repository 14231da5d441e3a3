package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pose-label-go/domain/frames"
	"github.com/soocke/pose-label-go/domain/geometry"
	"github.com/soocke/pose-label-go/domain/labelstore"
	"github.com/soocke/pose-label-go/ui/images"
	"github.com/soocke/pose-label-go/ui/model"
)

// FrameLoader is the part of the frame loader the presenter drives.
type FrameLoader interface {
	Request(frame string) uint64
	Prefetch(frame string)
	Purge()
	Latest() frames.Snapshot
}

// AnnotatorView describes the UI surface updated by the presenter.
type AnnotatorView interface {
	ShowFrame(img image.Image)
	ShowPreviews(p images.Previews)
	ShowState(s ViewState, pending int)
	SetStatus(text string, isErr bool)
}

type syncTaskKind int

const (
	syncFetchFrames syncTaskKind = iota + 1
	syncFetchLabels
	syncSave
	syncSaveDetections
	syncResetLabels
	syncExport
)

type syncTask struct {
	kind   syncTaskKind
	effect Effect
}

// AnnotatorOptions configures an AnnotatorPresenter.
type AnnotatorOptions struct {
	Timeout     time.Duration
	PreviewSize int
	Style       images.Style
	Viewport    *model.ViewportModel
	Sync        *model.SyncModel
	Session     *model.SessionModel
	Logger      *slog.Logger
}

// AnnotatorPresenter connects a Controller to the label store, the frame
// loader and the view. Network calls run on a worker goroutine; their
// results are queued and applied on the UI tick, so the controller is only
// ever touched from the UI thread.
type AnnotatorPresenter struct {
	ctrl     *Controller
	store    labelstore.Store
	loader   FrameLoader
	view     AnnotatorView
	viewport *model.ViewportModel
	sync     *model.SyncModel
	session  *model.SessionModel
	logger   *slog.Logger
	timeout  time.Duration
	preview  int
	style    images.Style

	ctx        context.Context
	cancel     context.CancelFunc
	workerOnce sync.Once
	workCh     chan syncTask
	resultCh   chan Event
	closeOnce  sync.Once
	wg         sync.WaitGroup

	imageFrame   string
	imageReq     uint64
	imageApplied uint64
	frame        image.Image
	base         *image.RGBA

	needRender   bool
	needPreviews bool
}

// NewAnnotatorPresenter constructs a presenter. Call Start to load the session.
func NewAnnotatorPresenter(ctrl *Controller, store labelstore.Store, loader FrameLoader, view AnnotatorView, opts AnnotatorOptions) *AnnotatorPresenter {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = images.DefaultPreviewSize
	}
	if opts.Style.LineWidth == 0 {
		opts.Style = images.DefaultStyle()
	}
	if opts.Viewport == nil {
		opts.Viewport = model.NewViewportModel(0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AnnotatorPresenter{
		ctrl:     ctrl,
		store:    store,
		loader:   loader,
		view:     view,
		viewport: opts.Viewport,
		sync:     opts.Sync,
		session:  opts.Session,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		preview:  opts.PreviewSize,
		style:    opts.Style,
		ctx:      ctx,
		cancel:   cancel,
		workCh:   make(chan syncTask, 16),
		resultCh: make(chan Event, 16),
	}
}

// Start kicks off the initial frame and label fetch.
func (p *AnnotatorPresenter) Start() {
	if p == nil || p.ctrl == nil {
		return
	}
	p.apply(p.ctrl.Start())
}

// Close stops the worker and abandons in-flight requests.
func (p *AnnotatorPresenter) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.cancel()
		close(p.workCh)
		p.wg.Wait()
	})
}

// Controller returns the owned controller.
func (p *AnnotatorPresenter) Controller() *Controller {
	if p == nil {
		return nil
	}
	return p.ctrl
}

// Submit feeds a UI event to the controller.
func (p *AnnotatorPresenter) Submit(ev Event) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.session.Touch(time.Now())
	p.apply(p.ctrl.Handle(ev))
}

// Click handles a pointer press at widget-local (x, y).
func (p *AnnotatorPresenter) Click(x, y float64) {
	if p == nil {
		return
	}
	pt, ok := p.viewport.ToNatural(x, y)
	if !ok {
		return
	}
	p.Submit(Event{Kind: EventClick, Point: pt})
}

// Key dispatches a key press. Unmapped keys are dropped.
func (p *AnnotatorPresenter) Key(k KeyEvent) {
	if ev, ok := DispatchKey(k); ok {
		p.Submit(ev)
	}
}

// ProcessFrame applies finished requests and newly loaded images. It is
// called on every UI tick.
func (p *AnnotatorPresenter) ProcessFrame() {
	if p == nil || p.ctrl == nil {
		return
	}
	for {
		select {
		case ev := <-p.resultCh:
			if ev.Kind == EventSaveResult && ev.Err == nil {
				p.session.RecordSave(time.Now())
			}
			p.apply(p.ctrl.Handle(ev))
			continue
		default:
		}
		break
	}
	p.pollImage()
}

func (p *AnnotatorPresenter) pollImage() {
	if p.loader == nil || p.imageReq == 0 || p.imageApplied == p.imageReq {
		return
	}
	snap := p.loader.Latest()
	if snap.RequestID != p.imageReq {
		return
	}
	p.imageApplied = snap.RequestID
	if snap.Err != nil {
		p.apply(p.ctrl.Handle(Event{Kind: EventImageLoaded, Frame: snap.Name, Err: snap.Err}))
		return
	}
	p.frame = snap.Image
	p.viewport.SetNatural(snap.Size)
	p.base = images.ScaleToDisplay(snap.Image, p.viewport.Display())
	p.apply(p.ctrl.Handle(Event{Kind: EventImageLoaded, Frame: snap.Name, Size: snap.Size}))
}

func (p *AnnotatorPresenter) apply(effects []Effect) {
	for _, e := range effects {
		switch e.Kind {
		case EffectFetchFrames:
			p.dispatch(syncTask{kind: syncFetchFrames, effect: e})
		case EffectFetchLabels:
			p.dispatch(syncTask{kind: syncFetchLabels, effect: e})
		case EffectSave:
			p.dispatch(syncTask{kind: syncSave, effect: e})
		case EffectSaveDetections:
			p.dispatch(syncTask{kind: syncSaveDetections, effect: e})
		case EffectResetLabels:
			p.dispatch(syncTask{kind: syncResetLabels, effect: e})
		case EffectExport:
			p.dispatch(syncTask{kind: syncExport, effect: e})
		case EffectLoadImage:
			p.loadImage(e.Frame)
		case EffectPrefetchImage:
			if p.loader != nil {
				p.loader.Prefetch(e.Frame)
			}
		case EffectPurgeImages:
			// A refreshed frame list may carry new images under old names.
			if p.loader != nil {
				p.loader.Purge()
			}
			p.imageFrame = ""
		case EffectRender:
			p.needRender = true
		case EffectPreviews:
			p.needPreviews = true
		case EffectStatus:
			if e.IsError && p.logger != nil {
				p.logger.Warn("annotator", "status", e.Text)
			}
			if p.view != nil {
				p.view.SetStatus(e.Text, e.IsError)
			}
		}
	}
	p.flush()
}

func (p *AnnotatorPresenter) loadImage(frame string) {
	if p.loader == nil {
		return
	}
	if frame == p.imageFrame && p.base != nil {
		// Same frame re-entered; reuse what is on screen.
		p.apply(p.ctrl.Handle(Event{Kind: EventImageLoaded, Frame: frame, Size: p.viewport.Natural()}))
		return
	}
	p.imageFrame = frame
	p.frame = nil
	p.base = nil
	p.viewport.SetNatural(geometry.Size{})
	p.imageReq = p.loader.Request(frame)
	p.pollImage()
}

func (p *AnnotatorPresenter) flush() {
	if p.view == nil {
		p.needRender, p.needPreviews = false, false
		return
	}
	if p.needRender {
		p.needRender = false
		st := p.ctrl.State()
		p.view.ShowState(st, p.sync.Pending())
		p.view.ShowFrame(p.renderFrame(st))
	}
	if p.needPreviews {
		p.needPreviews = false
		var pv images.Previews
		if p.frame != nil {
			var err error
			pv, err = images.CropPreviews(p.frame, p.ctrl.State().Boxes, p.preview)
			if err != nil && p.logger != nil {
				p.logger.Error("previews", "error", err)
			}
		}
		p.view.ShowPreviews(pv)
	}
}

func (p *AnnotatorPresenter) renderFrame(st ViewState) image.Image {
	if p.base == nil {
		return nil
	}
	o := images.Overlay{Natural: p.viewport.Natural()}
	if st.Mode == ModePose {
		o.Boxes, o.Keypoints = st.Boxes, st.Keypoints
		o.Active, o.HasActive = st.Active, st.HasActive
	} else {
		for _, d := range st.Detections {
			o.Detections = append(o.Detections, d.BBox())
		}
	}
	return images.RenderOverlay(p.base, o, p.style)
}

func (p *AnnotatorPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		p.wg.Add(1)
		go p.runWorker()
	})
}

func (p *AnnotatorPresenter) runWorker() {
	defer p.wg.Done()
	for task := range p.workCh {
		ev := p.executeTask(task)
		select {
		case p.resultCh <- ev:
		case <-p.ctx.Done():
		}
	}
}

func (p *AnnotatorPresenter) dispatch(t syncTask) {
	if p.store == nil {
		p.apply(p.ctrl.Handle(resultFor(t, errors.New("not connected"))))
		return
	}
	if p.ctx.Err() != nil {
		return
	}
	p.ensureWorker()
	p.sync.Begin()
	select {
	case p.workCh <- t:
	default:
		p.sync.Done(errors.New("queue full"), time.Now())
		p.apply(p.ctrl.Handle(resultFor(t, errors.New("too many requests in flight"))))
	}
}

// resultFor builds the failure event matching t.
func resultFor(t syncTask, err error) Event {
	switch t.kind {
	case syncFetchFrames, syncFetchLabels:
		return Event{Kind: EventLoadFailed, Err: err}
	case syncSave, syncSaveDetections:
		return Event{Kind: EventSaveResult, Frame: t.effect.Frame, Submission: t.effect.Submission,
			Detections: t.effect.Detections, Mode: t.effect.Mode, Err: err}
	case syncResetLabels:
		return Event{Kind: EventResetLabelsResult, Err: err}
	default:
		return Event{Kind: EventExportResult, Err: err}
	}
}

func (p *AnnotatorPresenter) executeTask(t syncTask) Event {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	start := time.Now()
	ev, err := p.run(ctx, t)
	p.sync.Done(err, time.Now())
	if p.logger != nil {
		p.logger.Debug("sync task", "kind", int(t.kind), "frame", t.effect.Frame, "elapsed", time.Since(start), "error", err)
	}
	if err != nil {
		return resultFor(t, err)
	}
	return ev
}

func (p *AnnotatorPresenter) run(ctx context.Context, t syncTask) (Event, error) {
	e := t.effect
	switch t.kind {
	case syncFetchFrames:
		list, err := p.store.Frames(ctx)
		return Event{Kind: EventFramesLoaded, Frames: list}, err
	case syncFetchLabels:
		sum, err := p.store.Labels(ctx)
		return Event{Kind: EventLabelsLoaded, Summary: sum}, err
	case syncSave:
		err := p.store.SaveFrame(ctx, e.Frame, e.Submission)
		return Event{Kind: EventSaveResult, Frame: e.Frame, Submission: e.Submission, Mode: ModePose}, err
	case syncSaveDetections:
		_, err := p.store.SaveDetections(ctx, e.Frame, e.Detections, true)
		return Event{Kind: EventSaveResult, Frame: e.Frame, Detections: e.Detections, Mode: ModeDetection}, err
	case syncResetLabels:
		return Event{Kind: EventResetLabelsResult}, p.store.Reset(ctx)
	case syncExport:
		var url string
		var err error
		if e.Mode == ModeDetection {
			url, err = p.store.ExportDetections(ctx)
		} else {
			url, err = p.store.Export(ctx)
		}
		return Event{Kind: EventExportResult, URL: url}, err
	}
	return Event{}, errors.New("unknown sync task")
}
