package capture

import (
	"fmt"
	"image"
	"net/url"

	"github.com/disintegration/imaging"
)

// partition loads the captured full-desktop image referenced by the
// portal result URI and crops one sub-image per known screen.
func (o *Orchestrator) partition(uri string) ([]Image, error) {
	path, err := localPath(uri)
	if err != nil {
		return nil, err
	}
	full, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Split(full, o.screens.Screens()), nil
}

// Split crops one image per screen geometry. Geometries reaching
// outside the full raster are clamped to its bounds rather than
// rejected. An empty layout yields a single image covering the whole
// desktop.
func Split(full image.Image, screens []Screen) []Image {
	if len(screens) == 0 {
		screens = []Screen{{
			Width:  full.Bounds().Dx(),
			Height: full.Bounds().Dy(),
		}}
	}

	images := make([]Image, 0, len(screens))
	for _, s := range screens {
		rect := s.Bounds().Intersect(full.Bounds())
		images = append(images, Image{
			Screen: s,
			Raster: imaging.Crop(full, rect),
		})
	}
	return images
}

// localPath resolves a portal file:// result URI to a local path.
func localPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse result uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unexpected result uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}
