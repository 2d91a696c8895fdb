package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/example/unmark/internal/editsvc"
	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/imageio"
	"github.com/example/unmark/internal/mask"
	"github.com/example/unmark/internal/theme"
)

// Tool selects how pointer input on the canvas is interpreted.
type Tool int

const (
	ToolBrush Tool = iota
	ToolHand
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolHand:
		return "hand"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

const (
	MinBrushSize     = 5
	MaxBrushSize     = 100
	DefaultBrushSize = 20
	brushStep        = 5
)

var (
	// ErrBusy is returned when an edit is already running.
	ErrBusy = errors.New("an edit is already in progress")
	// ErrNothingToProcess is returned when there is no image or no mask.
	ErrNothingToProcess = errors.New("nothing to process")
)

// Notifier receives desktop notification triggers.
type Notifier interface {
	Processed(detail string, img image.Image)
	Save(path string)
	Copy(detail string)
}

// AppState is the editor: the working image, its strokes, the view and the
// tool. All mutation happens on one goroutine, the window event loop.
type AppState struct {
	Image     *imageio.Image
	Strokes   []mask.Stroke
	BrushSize float64
	View      geom.View
	Tool      Tool
	Busy      bool

	Margin  float64
	Feather int
	SaveDir string
	Theme   *theme.Theme

	editor   editsvc.Editor
	notifier Notifier

	generation uint64
	needsFit   bool
	loadSeq    uint64

	// active indexes the stroke being drawn, -1 when idle.
	active  int
	panning bool
	anchor  geom.Point

	onClose func()
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the initial image.
func WithImage(img *imageio.Image) Option { return func(a *AppState) { a.SetImage(img) } }

// WithBrushSize sets the starting brush diameter.
func WithBrushSize(size float64) Option { return func(a *AppState) { a.SetBrushSize(size) } }

// WithMargin sets the gap left around a freshly fitted image.
func WithMargin(m float64) Option { return func(a *AppState) { a.Margin = m } }

// WithFeather sets the blur radius applied to synthesized masks.
func WithFeather(radius int) Option { return func(a *AppState) { a.Feather = max(radius, 0) } }

// WithSaveDir sets where downloads are written.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTheme sets the UI colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithEditor sets the remote edit service.
func WithEditor(e editsvc.Editor) Option { return func(a *AppState) { a.editor = e } }

// WithNotifier sets the desktop notification sink.
func WithNotifier(n Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		BrushSize: DefaultBrushSize,
		View:      geom.Identity(),
		Tool:      ToolBrush,
		Margin:    geom.DefaultMargin,
		active:    -1,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// SetImage replaces the working image and drops every stroke. The view is
// refitted the next time the container size is known.
func (a *AppState) SetImage(img *imageio.Image) {
	a.Image = img
	a.Strokes = nil
	a.endGesture()
	a.generation++
	a.needsFit = img != nil
}

// Generation identifies the current image; it changes on every SetImage.
func (a *AppState) Generation() uint64 { return a.generation }

// Fit centres the image in a container of the given size.
func (a *AppState) Fit(container geom.Size) {
	if a.Image == nil {
		return
	}
	a.View = geom.FitToContainer(geom.Size{W: float64(a.Image.Width()), H: float64(a.Image.Height())}, container, a.Margin)
	a.needsFit = false
}

// FitIfPending applies a deferred fit. It reports whether the view changed.
func (a *AppState) FitIfPending(container geom.Size) bool {
	if !a.needsFit || container.W <= 0 || container.H <= 0 {
		return false
	}
	a.Fit(container)
	return true
}

// BeginLoad starts an asynchronous image load and returns its ticket. A
// later BeginLoad supersedes every earlier one.
func (a *AppState) BeginLoad() uint64 {
	a.loadSeq++
	return a.loadSeq
}

// FinishLoad applies the outcome of the load with ticket seq. Superseded or
// failed loads leave the state untouched. It reports whether img was applied.
func (a *AppState) FinishLoad(seq uint64, img *imageio.Image, err error) bool {
	if seq != a.loadSeq || err != nil || img == nil {
		return false
	}
	a.SetImage(img)
	return true
}

// StatusText describes the image and zoom for the status pill.
func (a *AppState) StatusText() string {
	if a.Image == nil {
		return "Ready"
	}
	return fmt.Sprintf("%dx%d px | Zoom %d%%", a.Image.Width(), a.Image.Height(), int(math.Round(a.View.Scale*100)))
}

// SetTool switches tools, ending any gesture in progress.
func (a *AppState) SetTool(t Tool) {
	if a.Tool == t {
		return
	}
	a.endGesture()
	a.Tool = t
}

// SetBrushSize clamps and applies a brush diameter. Existing strokes keep
// their own size.
func (a *AppState) SetBrushSize(size float64) {
	switch {
	case size < MinBrushSize:
		size = MinBrushSize
	case size > MaxBrushSize:
		size = MaxBrushSize
	}
	a.BrushSize = size
}

// AdjustBrushSize changes the brush by steps of five.
func (a *AppState) AdjustBrushSize(steps int) { a.SetBrushSize(a.BrushSize + float64(steps*brushStep)) }

func (a *AppState) CanUndo() bool     { return len(a.Strokes) > 0 }
func (a *AppState) CanReset() bool    { return len(a.Strokes) > 0 }
func (a *AppState) CanProcess() bool  { return a.Image != nil && len(a.Strokes) > 0 && !a.Busy }
func (a *AppState) CanDownload() bool { return a.Image != nil && !a.Busy }

// Undo removes the last stroke.
func (a *AppState) Undo() bool {
	if len(a.Strokes) == 0 {
		return false
	}
	a.endGesture()
	a.Strokes[len(a.Strokes)-1] = mask.Stroke{}
	a.Strokes = a.Strokes[:len(a.Strokes)-1]
	return true
}

// Reset removes every stroke.
func (a *AppState) Reset() bool {
	if len(a.Strokes) == 0 {
		return false
	}
	a.endGesture()
	a.Strokes = nil
	return true
}

// Job is an edit in flight. It carries a snapshot of everything the request
// needs so later drawing cannot change what was sent.
type Job struct {
	ID         string
	Name       string
	Generation uint64
	Request    editsvc.Request
	Strokes    int
}

// BeginProcess synthesizes the mask from the current strokes and marks the
// editor busy. State is untouched when it returns an error.
func (a *AppState) BeginProcess() (*Job, error) {
	if a.Busy {
		return nil, ErrBusy
	}
	if a.Image == nil || len(a.Strokes) == 0 {
		return nil, ErrNothingToProcess
	}
	maskPNG, err := mask.EncodePNG(a.Image.Width(), a.Image.Height(), mask.CloneAll(a.Strokes), a.Feather)
	if err != nil {
		return nil, fmt.Errorf("build mask: %w", err)
	}
	id := uuid.NewString()
	a.Busy = true
	return &Job{
		ID:         id,
		Name:       a.Image.Name,
		Generation: a.generation,
		Strokes:    len(a.Strokes),
		Request: editsvc.Request{
			ID:        id,
			Image:     a.Image.Data,
			ImageMIME: a.Image.MIME(),
			Mask:      maskPNG,
			MaskMIME:  "image/png",
		},
	}, nil
}

// RunJob sends job to e and decodes the image it returns.
func RunJob(ctx context.Context, e editsvc.Editor, job *Job) (*imageio.Image, error) {
	if e == nil {
		return nil, editsvc.ErrNoAPIKey
	}
	res, err := e.Edit(ctx, job.Request)
	if err != nil {
		return nil, err
	}
	img, err := imageio.Decode(res.Data, job.Name)
	if err != nil {
		return nil, fmt.Errorf("edit result: %w", err)
	}
	return img, nil
}

// FinishProcess applies the outcome of job. Busy is always cleared. The
// result replaces the image only if it is still the image the job was built
// from; it reports whether it did.
func (a *AppState) FinishProcess(job *Job, result *imageio.Image, err error) bool {
	a.Busy = false
	if err != nil || job == nil || result == nil {
		return false
	}
	if job.Generation != a.generation {
		return false
	}
	a.Image = result
	a.Strokes = nil
	a.endGesture()
	a.generation++
	a.needsFit = true
	return true
}

func (a *AppState) endGesture() {
	a.active = -1
	a.panning = false
}
