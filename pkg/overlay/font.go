package overlay

import (
	"errors"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrFontLoad is returned when a font file cannot be read or parsed.
var ErrFontLoad = errors.New("font load failed")

const (
	// MinFontSize is the smallest size the size clamp allows.
	MinFontSize = 8
	// DefaultFontSize is used when a request leaves the size unset.
	DefaultFontSize = 20
)

var (
	embeddedOnce sync.Once
	embedded     *opentype.Font
	embeddedErr  error
)

func embeddedFont() (*opentype.Font, error) {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = opentype.Parse(goregular.TTF)
	})
	return embedded, embeddedErr
}

// LoadFace opens a scalable face of the given point size. An empty path
// selects the embedded Go Regular font.
func LoadFace(path string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}

	var (
		f   *opentype.Font
		err error
	)
	if path == "" {
		f, err = embeddedFont()
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			f, err = opentype.Parse(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}
	return face, nil
}

// FaceOrFallback behaves like LoadFace but never fails: when the font cannot
// be loaded it logs a warning and returns the fixed 7x13 bitmap face, on
// which the requested size has no effect. The boolean reports the fallback.
func FaceOrFallback(path string, size float64) (font.Face, bool) {
	face, err := LoadFace(path, size)
	if err == nil {
		return face, false
	}
	log.WithError(err).Warn("using default font, font size will not be adjustable")
	return basicfont.Face7x13, true
}

// MaxFontSize is the largest font size offered for a canvas of w x h.
func MaxFontSize(w, h int) int {
	return min(w, h) / 30
}

// ClampFontSize limits size to [MinFontSize, MaxFontSize(w, h)]. Canvases
// too small for the minimum get the minimum.
func ClampFontSize(size float64, w, h int) float64 {
	hi := float64(max(MinFontSize, MaxFontSize(w, h)))
	return max(MinFontSize, min(size, hi))
}
