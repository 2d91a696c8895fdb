// Package theme holds the colour palette of the editor window.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes contains the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colours used by the editor UI.
type Theme struct {
	Name string

	// Canvas
	Background color.RGBA // behind the image
	Dots       color.RGBA // dot grid; zero alpha disables it
	Highlight  color.RGBA // brush overlay, drawn at half opacity

	Foreground        color.RGBA
	ToolbarBackground color.RGBA

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonDisabled        color.RGBA
	ButtonText            color.RGBA
	ButtonTextDisabled    color.RGBA
	ButtonBorder          color.RGBA

	StatusBackground color.RGBA
	StatusText       color.RGBA
	Placeholder      color.RGBA
	ToastBackground  color.RGBA
	ToastText        color.RGBA
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{23, 23, 23, 255},
		Dots:                  color.RGBA{51, 51, 51, 255},
		Highlight:             color.RGBA{255, 0, 0, 255},
		Foreground:            color.RGBA{229, 229, 229, 255},
		ToolbarBackground:     color.RGBA{38, 38, 38, 255},
		ButtonBackground:      color.RGBA{64, 64, 64, 255},
		ButtonBackgroundHover: color.RGBA{82, 82, 82, 255},
		ButtonBackgroundPress: color.RGBA{37, 99, 235, 255},
		ButtonDisabled:        color.RGBA{45, 45, 45, 255},
		ButtonText:            color.RGBA{245, 245, 245, 255},
		ButtonTextDisabled:    color.RGBA{115, 115, 115, 255},
		ButtonBorder:          color.RGBA{23, 23, 23, 255},
		StatusBackground:      color.RGBA{0, 0, 0, 153},
		StatusText:            color.RGBA{212, 212, 212, 255},
		Placeholder:           color.RGBA{115, 115, 115, 255},
		ToastBackground:       color.RGBA{250, 250, 250, 235},
		ToastText:             color.RGBA{23, 23, 23, 255},
	}
}
