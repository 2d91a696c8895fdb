package appstate

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/unmark/internal/clipboard"
	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/imageio"
	"github.com/example/unmark/internal/mask"
	"github.com/example/unmark/internal/render"
	"github.com/example/unmark/internal/source"
	"github.com/example/unmark/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const (
	toastDuration = 2 * time.Second
	zoomStep      = 1.25
	// wheelNotch is the deltaY reported for one wheel click.
	wheelNotch = 100

	maxWindowWidth  = 1280
	maxWindowHeight = 860
)

const (
	msgLoadFailed    = "Failed to load image, please try again"
	msgProcessFailed = "Watermark removal failed, check the API key or network connection"
)

// loadedEvent carries the result of an asynchronous image load back to the
// event loop.
type loadedEvent struct {
	seq    uint64
	source string
	img    *imageio.Image
	err    error
}

// processedEvent carries the result of an edit request.
type processedEvent struct {
	job *Job
	img *imageio.Image
	err error
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// windowSize picks an initial window that shows the whole image when it
// fits on a typical screen.
func (a *AppState) windowSize() (int, int) {
	if a.Image == nil {
		return 1024, 768
	}
	m := int(math.Ceil(a.Margin))
	w := a.Image.Width() + toolbarWidth + 2*m
	h := a.Image.Height() + bottomHeight + 2*m
	return min(w, maxWindowWidth), min(h, maxWindowHeight)
}

// actionEnabled reports whether action may run now. Toolbar buttons and
// shortcuts share it.
func (a *AppState) actionEnabled(action string) bool {
	switch action {
	case actionBrush, actionHand, actionZoomIn, actionZoomOut, actionFit:
		return a.Image != nil
	case actionSmaller:
		return a.Image != nil && a.BrushSize > MinBrushSize
	case actionBigger:
		return a.Image != nil && a.BrushSize < MaxBrushSize
	case actionUndo:
		return a.CanUndo()
	case actionReset:
		return a.CanReset()
	case actionProcess:
		return a.CanProcess()
	case actionSave, actionCopy:
		return a.CanDownload()
	}
	return true
}

// canvasGeometry converts the window size to the canvas rectangle in device
// pixels and its logical size.
func canvasGeometry(width, height int, dpr float64) (image.Rectangle, geom.Size) {
	if width <= toolbarWidth || height <= bottomHeight {
		return image.Rectangle{}, geom.Size{}
	}
	r := image.Rect(toolbarWidth, 0, width, height-bottomHeight)
	return r, geom.Size{W: float64(r.Dx()) / dpr, H: float64(r.Dy()) / dpr}
}

// toCanvas maps a window position in device pixels to canvas-relative
// logical coordinates.
func toCanvas(x, y float32, dpr float64) geom.Point {
	return geom.Pt((float64(x)-float64(toolbarWidth))/dpr, float64(y)/dpr)
}

// devicePixelRatio derives the ratio of device to logical pixels from
// shiny's pixels-per-point, taking 96 DPI as one.
func devicePixelRatio(ppt float32) float64 {
	dpr := float64(ppt) * 72 / 96
	if dpr <= 0 || math.IsNaN(dpr) {
		return 1
	}
	return dpr
}

func (a *AppState) Main(s screen.Screen) {
	width, height := a.windowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "unmark"})
	if err != nil {
		log.Fatal().Err(err).Msg("new window")
	}
	defer w.Release()
	defer func() {
		if a.onClose != nil {
			a.onClose()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dpr := 1.0
	keys := defaultKeymap()
	hover := -1
	var message string
	var messageUntil time.Time

	toast := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(toastDuration)
		log.Info().Msg(msg)
		time.AfterFunc(toastDuration, func() { w.Send(paint.Event{}) })
	}
	repaint := func() { w.Send(paint.Event{}) }

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		p := newPainter(a.Theme)
		for st := range paintCh {
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			p.drawFrame(pctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()

	load := func(name string, fn func(context.Context) (*imageio.Image, error)) {
		seq := a.BeginLoad()
		go func() {
			img, err := fn(ctx)
			w.Send(loadedEvent{seq: seq, source: name, img: img, err: err})
		}()
	}

	canvasCenter := func() geom.Point {
		_, cs := canvasGeometry(width, height, dpr)
		return geom.Pt(cs.W/2, cs.H/2)
	}

	var quit bool
	actions := map[string]func(){
		actionOpen: func() { load("file", source.Open) },
		actionPaste: func() {
			load("clipboard", func(context.Context) (*imageio.Image, error) { return source.Clipboard() })
		},
		actionCapture: func() { load("screenshot", source.Capture) },
		actionBrush:   func() { a.SetTool(ToolBrush) },
		actionHand:    func() { a.SetTool(ToolHand) },
		actionSmaller: func() { a.AdjustBrushSize(-1) },
		actionBigger:  func() { a.AdjustBrushSize(1) },
		actionUndo:    func() { a.Undo() },
		actionReset:   func() { a.Reset() },
		actionProcess: func() {
			job, err := a.BeginProcess()
			if err != nil {
				log.Error().Err(err).Msg("process")
				toast(msgProcessFailed)
				return
			}
			log.Info().Str("job", job.ID).Int("strokes", job.Strokes).Msg("sending edit request")
			go func() {
				img, err := RunJob(ctx, a.editor, job)
				w.Send(processedEvent{job: job, img: img, err: err})
			}()
		},
		actionSave: func() {
			path, err := imageio.Save(a.Image, a.SaveDir, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("save")
				toast("Save failed")
				return
			}
			toast("Saved " + path)
			if a.notifier != nil {
				a.notifier.Save(path)
			}
		},
		actionCopy: func() {
			if err := clipboard.WriteImage(a.Image.Pixels); err != nil {
				log.Error().Err(err).Msg("copy")
				toast("Copy failed")
				return
			}
			toast("Image copied to clipboard")
			if a.notifier != nil {
				a.notifier.Copy(a.Image.Name)
			}
		},
		actionZoomIn:  func() { a.ZoomBy(canvasCenter(), zoomStep) },
		actionZoomOut: func() { a.ZoomBy(canvasCenter(), 1/zoomStep) },
		actionFit: func() {
			_, cs := canvasGeometry(width, height, dpr)
			a.Fit(cs)
		},
		actionQuit: func() { quit = true },
	}

	run := func(action string) {
		fn, ok := actions[action]
		if !ok || !a.actionEnabled(action) {
			return
		}
		fn()
		repaint()
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			dpr = devicePixelRatio(e.PixelsPerPt)
			_, cs := canvasGeometry(width, height, dpr)
			a.FitIfPending(cs)
			repaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := a.snapshot(width, height, dpr)
			st.hover = hover
			st.message = message
			st.messageUntil = messageUntil
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case loadedEvent:
			switch {
			case e.seq != a.loadSeq, errors.Is(e.err, source.ErrCancelled):
			case e.err != nil:
				log.Error().Err(e.err).Str("source", e.source).Msg("load image")
				toast(msgLoadFailed)
			case a.FinishLoad(e.seq, e.img, nil):
				log.Info().Str("source", e.source).Str("name", e.img.Name).
					Int("width", e.img.Width()).Int("height", e.img.Height()).Msg("image loaded")
				_, cs := canvasGeometry(width, height, dpr)
				a.FitIfPending(cs)
				hover = -1
			}
			repaint()
		case processedEvent:
			if e.err != nil {
				log.Error().Err(e.err).Str("job", e.job.ID).Msg("edit failed")
			}
			applied := a.FinishProcess(e.job, e.img, e.err)
			switch {
			case e.err != nil:
				toast(msgProcessFailed)
			case applied:
				_, cs := canvasGeometry(width, height, dpr)
				a.FitIfPending(cs)
				log.Info().Str("job", e.job.ID).Msg("watermark removed")
				if a.notifier != nil {
					a.notifier.Processed(a.Image.Name, a.Image.Pixels)
				}
			default:
				log.Info().Str("job", e.job.ID).Msg("discarding result for a replaced image")
			}
			repaint()
		case mouse.Event:
			if a.handleMouse(e, width, height, dpr, &hover, run) {
				repaint()
			}
		case touch.Event:
			if a.handleTouch(e, dpr) {
				repaint()
			}
		case key.Event:
			if e.Direction == key.DirRelease {
				continue
			}
			if action, ok := keys.lookup(e); ok {
				run(action)
			}
		case error:
			log.Error().Err(e).Msg("window event")
		}
		if quit {
			return
		}
	}
}

// handleMouse routes a mouse event to the toolbar or the canvas and reports
// whether a repaint is needed.
func (a *AppState) handleMouse(e mouse.Event, width, height int, dpr float64, hover *int, run func(string)) bool {
	p := image.Pt(int(e.X), int(e.Y))
	canvas, _ := canvasGeometry(width, height, dpr)

	switch e.Button {
	case mouse.ButtonWheelUp, mouse.ButtonWheelDown:
		if !p.In(canvas) {
			return false
		}
		delta := float64(wheelNotch)
		if e.Button == mouse.ButtonWheelUp {
			delta = -delta
		}
		return a.Wheel(toCanvas(e.X, e.Y, dpr), delta)
	}

	gesture := a.Drawing() || a.Panning()
	if !gesture && p.X < toolbarWidth {
		items := a.toolbarItems()
		i := hitToolbar(items, p)
		if i >= 0 && !items[i].Enabled {
			i = -1
		}
		changed := i != *hover
		*hover = i
		if i >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
			it := items[i]
			b := &ActionButton{label: it.Label, rect: it.Rect, onActivate: func() { run(it.Action) }}
			b.Activate()
			return true
		}
		return changed
	}
	changed := *hover != -1
	*hover = -1

	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if !p.In(canvas) {
			return changed
		}
		return a.PointerDown(toCanvas(e.X, e.Y, dpr)) || a.Panning() || changed
	case e.Direction == mouse.DirRelease:
		if gesture {
			a.PointerUp()
			return true
		}
	case e.Direction == mouse.DirNone && gesture:
		if !p.In(canvas) {
			a.PointerUp()
			return true
		}
		return a.PointerMove(toCanvas(e.X, e.Y, dpr))
	}
	return changed
}

// handleTouch follows the first finger only.
func (a *AppState) handleTouch(e touch.Event, dpr float64) bool {
	if e.Sequence != 0 {
		return false
	}
	p := toCanvas(e.X, e.Y, dpr)
	switch e.Type {
	case touch.TypeBegin:
		if p.X < 0 {
			return false
		}
		return a.PointerDown(p) || a.Panning()
	case touch.TypeMove:
		return a.PointerMove(p)
	case touch.TypeEnd:
		a.PointerUp()
		return true
	}
	return false
}

// paintState is an immutable snapshot of everything drawFrame needs.
type paintState struct {
	width, height int
	frame         render.Frame
	canvas        image.Rectangle
	items         []toolbarItem
	hover         int
	status        string
	busy          bool
	message       string
	messageUntil  time.Time
}

func (a *AppState) snapshot(width, height int, dpr float64) paintState {
	canvas, cs := canvasGeometry(width, height, dpr)
	st := paintState{
		width:  width,
		height: height,
		canvas: canvas,
		items:  a.toolbarItems(),
		hover:  -1,
		status: a.StatusText(),
		busy:   a.Busy,
		frame: render.Frame{
			View:       a.View,
			DPR:        dpr,
			Size:       cs,
			Background: a.Theme.Background,
			Dots:       a.Theme.Dots,
			Highlight:  a.Theme.Highlight,
		},
	}
	if a.Image != nil {
		st.frame.Image = a.Image.Pixels
		st.frame.Strokes = mask.CloneAll(a.Strokes)
	}
	return st
}

// painter owns everything that lives on the paint goroutine.
type painter struct {
	renderer *render.Renderer
	chrome   *chrome
}

func newPainter(t *theme.Theme) *painter {
	return &painter{renderer: render.NewRenderer(), chrome: newChrome(t)}
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()
	dst := b.RGBA()

	if !st.canvas.Empty() {
		img, err := p.renderer.Canvas(st.frame)
		if err != nil {
			log.Error().Err(err).Msg("render canvas")
			return
		}
		draw.Draw(dst, st.canvas, img, image.Point{}, draw.Src)
		if st.frame.Image == nil {
			p.chrome.drawPlaceholder(dst, st.canvas)
		}
	}
	if ctx.Err() != nil {
		return
	}

	p.chrome.drawToolbar(dst, st.height, st.items, st.hover)
	p.chrome.drawStatusBar(dst, st.width, st.height, st.status)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		p.chrome.drawToast(dst, st.canvas, st.message)
	} else if st.busy {
		p.chrome.drawToast(dst, st.canvas, busyLabel)
	}

	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
