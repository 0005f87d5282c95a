package capture

import (
	"context"
	"image"
)

// Screen is one physical output's logical geometry within the full
// desktop raster.
type Screen struct {
	Index  int
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds returns the screen's rectangle in desktop coordinates.
func (s Screen) Bounds() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
}

// Image is one per-screen crop of a full-desktop capture.
type Image struct {
	Screen Screen
	Raster *image.NRGBA
}

// ScreenProvider supplies the known screen layout.
type ScreenProvider interface {
	Screens() []Screen
}

// StaticScreens is a fixed-layout ScreenProvider.
type StaticScreens []Screen

func (s StaticScreens) Screens() []Screen { return s }

// Notice is the transient user-facing surface shown while waiting for
// the interactive permission dialog. HasFocus reports whether the
// notice has presentation focus and is actually visible to the user.
type Notice interface {
	Show()
	HasFocus() bool
	Hide()
}

// NopNotice is used in headless runs.
type NopNotice struct{}

func (NopNotice) Show()          {}
func (NopNotice) HasFocus() bool { return true }
func (NopNotice) Hide()          {}

// portalClient matches backend/screenshot.Client.
type portalClient interface {
	Request(ctx context.Context, interactive bool) (string, error)
}
