// Package raster holds the pixel substrate shared by the filter, border and
// text engines: NRGBA conversion, channel clamping, hex colors and the
// small set of drawing primitives the border patterns need.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// ToNRGBA returns img as a zero-origin, tightly packed *image.NRGBA. The
// input is copied unless it already is one.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	return imaging.Clone(img)
}

// Clamp saturates v into [0,255].
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ClampF truncates v toward zero and saturates it into [0,255].
func ClampF(v float64) uint8 {
	return Clamp(int(v))
}

// Luma returns the ITU-R 601-2 luma of an RGB triple.
func Luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Equal reports whether a and b have the same size and identical pixels.
func Equal(a, b image.Image) bool {
	na, nb := ToNRGBA(a), ToNRGBA(b)
	if na.Rect.Dx() != nb.Rect.Dx() || na.Rect.Dy() != nb.Rect.Dy() {
		return false
	}
	w, h := na.Rect.Dx(), na.Rect.Dy()
	for y := 0; y < h; y++ {
		ra := na.Pix[y*na.Stride : y*na.Stride+w*4]
		rb := nb.Pix[y*nb.Stride : y*nb.Stride+w*4]
		if string(ra) != string(rb) {
			return false
		}
	}
	return true
}

// ParseHex parses "#RRGGBB", "#RGB" or the same without the leading hash.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is ParseHex for package-level color tables.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
