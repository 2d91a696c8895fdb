package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/unmark/internal/theme"
)

const (
	buttonHeight = 24
	bottomHeight = 24
	groupGap     = 8
)

const (
	placeholderText = "Open or paste an image to begin"
	busyLabel       = "Removing watermark..."
	hintsText       = "Wheel:zoom  +/-:zoom  0:fit  Q:quit"
)

// toolbarWidth is widened at start up to fit the longest label.
var toolbarWidth = 48

var toastFace, placeholderFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal().Err(err).Msg("parse font")
	}
	toastFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatal().Err(err).Msg("font face")
	}
	placeholderFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 18, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatal().Err(err).Msg("font face")
	}

	d := &font.Drawer{Face: basicfont.Face7x13}
	labels := []string{"^O:Open", "^V:Paste", "^N:Capture", "B:Brush", "H:Hand", "[:Smaller", "]:Bigger",
		sizeLabel(MaxBrushSize), "^Z:Undo", "Reset", "Enter:Remove", busyLabel, "^S:Save", "^C:Copy"}
	for _, lbl := range labels {
		if w := d.MeasureString(lbl).Ceil() + 8; w > toolbarWidth {
			toolbarWidth = w
		}
	}
}

func sizeLabel(size float64) string { return fmt.Sprintf("Size %.0fpx", size) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
	numButtonStates
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [numButtonStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [numButtonStates]*image.RGBA{}
	}
}

// ActionButton is a labelled toolbar button bound to a named action.
type ActionButton struct {
	label      string
	rect       image.Rectangle
	theme      *theme.Theme
	onActivate func()
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.theme.ButtonBackground, b.theme.ButtonText
	switch state {
	case StateHover:
		bg = b.theme.ButtonBackgroundHover
	case StatePressed:
		bg = b.theme.ButtonBackgroundPress
	case StateDisabled:
		bg, fg = b.theme.ButtonDisabled, b.theme.ButtonTextDisabled
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	outline(dst, b.rect, b.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+16)}
	d.DrawString(b.label)
}

func (b *ActionButton) Rect() image.Rectangle     { return b.rect }
func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

// toolbarItem is one laid out toolbar row. An empty Action marks a plain
// text row.
type toolbarItem struct {
	Action   string
	Label    string
	Rect     image.Rectangle
	Enabled  bool
	Selected bool
}

// toolbarItems lays out the toolbar for the current state. Only the image
// sources are offered until an image is loaded.
func (a *AppState) toolbarItems() []toolbarItem {
	var items []toolbarItem
	y := 4
	add := func(action, label string, enabled, selected bool) {
		items = append(items, toolbarItem{
			Action: action, Label: label, Enabled: enabled, Selected: selected,
			Rect: image.Rect(0, y, toolbarWidth, y+buttonHeight),
		})
		y += buttonHeight
	}

	add(actionOpen, "^O:Open", true, false)
	add(actionPaste, "^V:Paste", true, false)
	add(actionCapture, "^N:Capture", true, false)
	if a.Image == nil {
		return items
	}

	y += groupGap
	add(actionBrush, "B:Brush", true, a.Tool == ToolBrush)
	add(actionHand, "H:Hand", true, a.Tool == ToolHand)
	if a.Tool == ToolBrush {
		add("", sizeLabel(a.BrushSize), false, false)
		add(actionSmaller, "[:Smaller", a.BrushSize > MinBrushSize, false)
		add(actionBigger, "]:Bigger", a.BrushSize < MaxBrushSize, false)
	}

	y += groupGap
	add(actionUndo, "^Z:Undo", a.CanUndo(), false)
	add(actionReset, "Reset", a.CanReset(), false)
	if a.Busy {
		add(actionProcess, busyLabel, false, true)
	} else {
		add(actionProcess, "Enter:Remove", a.CanProcess(), false)
	}

	y += groupGap
	add(actionSave, "^S:Save", a.CanDownload(), false)
	add(actionCopy, "^C:Copy", a.CanDownload(), false)
	return items
}

// hitToolbar returns the index of the enabled button under p, or -1.
func hitToolbar(items []toolbarItem, p image.Point) int {
	for i, it := range items {
		if it.Action != "" && p.In(it.Rect) {
			return i
		}
	}
	return -1
}

// chrome draws the window furniture. It belongs to the paint goroutine.
type chrome struct {
	theme   *theme.Theme
	buttons map[string]*CacheButton
}

func newChrome(t *theme.Theme) *chrome {
	return &chrome{theme: t, buttons: map[string]*CacheButton{}}
}

func (c *chrome) button(it toolbarItem) *CacheButton {
	cb := c.buttons[it.Action]
	if ab, ok := cbButton(cb); !ok || ab.label != it.Label {
		cb = &CacheButton{Button: &ActionButton{label: it.Label, rect: it.Rect, theme: c.theme}}
		c.buttons[it.Action] = cb
	}
	cb.SetRect(it.Rect)
	return cb
}

func cbButton(cb *CacheButton) (*ActionButton, bool) {
	if cb == nil {
		return nil, false
	}
	ab, ok := cb.Button.(*ActionButton)
	return ab, ok
}

func (c *chrome) drawToolbar(dst *image.RGBA, height int, items []toolbarItem, hover int) {
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, height), &image.Uniform{c.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, it := range items {
		if it.Action == "" {
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.theme.Foreground), Face: basicfont.Face7x13,
				Dot: fixed.P(it.Rect.Min.X+4, it.Rect.Min.Y+16)}
			d.DrawString(it.Label)
			continue
		}
		state := StateDefault
		switch {
		case !it.Enabled && !it.Selected:
			state = StateDisabled
		case it.Selected:
			state = StatePressed
		case i == hover:
			state = StateHover
		}
		c.button(it).Draw(dst, state)
	}
}

func (c *chrome) drawStatusBar(dst *image.RGBA, width, height int, status string) {
	bar := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, bar, &image.Uniform{c.theme.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c.theme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(toolbarWidth+4, height-bottomHeight+16)}
	d.DrawString(hintsText)

	w := d.MeasureString(status).Ceil()
	pill := image.Rect(width-w-16, height-bottomHeight+3, width-4, height-3)
	draw.Draw(dst, pill, &image.Uniform{c.theme.StatusBackground}, image.Point{}, draw.Over)
	d.Src = image.NewUniform(c.theme.StatusText)
	d.Dot = fixed.P(pill.Min.X+6, height-bottomHeight+16)
	d.DrawString(status)
}

func (c *chrome) drawPlaceholder(dst *image.RGBA, canvas image.Rectangle) {
	drawCentered(dst, canvas, placeholderFace, placeholderText, c.theme.Placeholder)
}

func (c *chrome) drawToast(dst *image.RGBA, canvas image.Rectangle, msg string) {
	d := &font.Drawer{Face: toastFace}
	w := d.MeasureString(msg).Ceil()
	m := toastFace.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	cx := (canvas.Min.X + canvas.Max.X) / 2
	cy := (canvas.Min.Y + canvas.Max.Y) / 2
	box := image.Rect(cx-w/2-12, cy-h/2-8, cx+w/2+12, cy+h/2+8)
	draw.Draw(dst, box, &image.Uniform{c.theme.ToastBackground}, image.Point{}, draw.Over)
	outline(dst, box, c.theme.ButtonBorder)
	drawCentered(dst, box, toastFace, msg, c.theme.ToastText)
}

func drawCentered(dst *image.RGBA, r image.Rectangle, face font.Face, text string, col color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(text).Ceil()
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	x := (r.Min.X+r.Max.X)/2 - w/2
	y := (r.Min.Y+r.Max.Y)/2 + (asc-desc)/2
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func outline(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
