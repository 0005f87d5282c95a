package capture

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGeometry parses an X11-style geometry string "WxH+X+Y"
// ("1920x1080+0+0"). The offset part is optional and defaults to +0+0.
func ParseGeometry(s string) (Screen, error) {
	var screen Screen

	size := s
	if i := strings.IndexByte(s, '+'); i >= 0 {
		size = s[:i]
		offsets := strings.Split(s[i+1:], "+")
		if len(offsets) != 2 {
			return screen, fmt.Errorf("invalid geometry %q: want WxH+X+Y", s)
		}
		x, err := strconv.Atoi(offsets[0])
		if err != nil {
			return screen, fmt.Errorf("invalid geometry %q: bad x offset", s)
		}
		y, err := strconv.Atoi(offsets[1])
		if err != nil {
			return screen, fmt.Errorf("invalid geometry %q: bad y offset", s)
		}
		screen.X, screen.Y = x, y
	}

	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return screen, fmt.Errorf("invalid geometry %q: want WxH+X+Y", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return screen, fmt.Errorf("invalid geometry %q: bad width", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return screen, fmt.Errorf("invalid geometry %q: bad height", s)
	}
	screen.Width, screen.Height = width, height

	return screen, nil
}

// ParseScreens parses a screen layout from geometry strings, assigning
// logical indexes in order.
func ParseScreens(specs []string) ([]Screen, error) {
	screens := make([]Screen, 0, len(specs))
	for i, spec := range specs {
		s, err := ParseGeometry(spec)
		if err != nil {
			return nil, err
		}
		s.Index = i
		screens = append(screens, s)
	}
	return screens, nil
}
