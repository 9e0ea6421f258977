// Package border expands an image canvas and decorates the new margin.
//
// A Spec describes the four margin sizes and the pattern parameters of one
// variant. NewSpec derives the canonical frame sizes from the image size;
// callers may adjust any field before calling Apply.
package border

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/menta2k/poeticapic/pkg/raster"
)

var (
	// ErrUnsupportedBorder is returned for variant names outside the vocabulary.
	ErrUnsupportedBorder = errors.New("unsupported border")
	// ErrMissingTexture is returned when a textured frame has no texture.
	ErrMissingTexture = errors.New("border texture not set")
)

// Variant names a border style.
type Variant string

// Supported variants.
const (
	Original  Variant = "Original"
	Polaroid  Variant = "Polaroids"
	Vintage   Variant = "Vintage Frame"
	Framed    Variant = "Framed Border"
	Grunge    Variant = "Grunge Border"
	Filmstrip Variant = "Filmstrip Border"
	Bohemian  Variant = "Bohemian Bliss Frame"
	Pixel     Variant = "Pixel Frame"
	Cartoon   Variant = "Cartoon Frame"
	Bubble    Variant = "Bubble Frame"
	Glitch    Variant = "Glitch Frame"
	Wooden    Variant = "Wooden Frame"
)

var aliases = map[string]Variant{
	"None":     Original,
	"Polaroid": Polaroid,
}

var variants = []Variant{
	Original, Polaroid, Vintage, Filmstrip, Grunge, Framed, Glitch,
	Wooden, Cartoon, Pixel, Bubble, Bohemian,
}

// Variants returns the vocabulary in menu order.
func Variants() []Variant {
	return append([]Variant(nil), variants...)
}

// Parse resolves a variant name, accepting the "None" and "Polaroid" aliases.
func Parse(s string) (Variant, error) {
	if v, ok := aliases[s]; ok {
		return v, nil
	}
	v := Variant(s)
	if _, ok := painters[v]; !ok && v != Original {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBorder, s)
	}
	return v, nil
}

// Spec is a fully resolved border description.
type Spec struct {
	Variant Variant

	Top, Right, Bottom, Left int

	// Fill is the base margin color.
	Fill color.NRGBA
	// Accent is the secondary color: dots, outlines, halo strokes.
	Accent color.NRGBA
	// Palette is sampled uniformly by the random patterns.
	Palette []color.NRGBA
	// Texture is tiled over the canvas by the wooden frame.
	Texture image.Image
	// CellSize is the crystal cell edge, StripHeight the glitch strip height.
	CellSize    int
	StripHeight int
	// Count is the number of scattered shapes.
	Count int

	// Seed makes the random patterns reproducible when Seeded is set.
	// Otherwise every call draws a fresh pattern.
	Seed   uint64
	Seeded bool
}

// Options tunes NewSpec.
type Options struct {
	// PolaroidSideRatio is the side margin as a fraction of the width.
	// 0.02 is canonical; 0.05 is the wider known variant.
	PolaroidSideRatio float64
	// Texture is used by the wooden frame.
	Texture image.Image
	Seed    uint64
	Seeded  bool
}

// DefaultOptions returns the canonical parameters.
func DefaultOptions() Options {
	return Options{PolaroidSideRatio: 0.02}
}

var (
	white      = color.NRGBA{255, 255, 255, 255}
	black      = color.NRGBA{0, 0, 0, 255}
	cream      = color.NRGBA{248, 227, 196, 255}
	brown      = raster.MustHex("#A52A2A")
	tan        = raster.MustHex("#D2B48C")
	steel      = raster.MustHex("#A9ACB6")
	goldenrod  = raster.MustHex("#DAA520")
	pink       = raster.MustHex("#FFC0CB")
	darkGray   = color.NRGBA{100, 100, 100, 255}
	grungeGray = color.NRGBA{160, 160, 160, 255}

	bohemianPalette = []color.NRGBA{
		raster.MustHex("#FFD700"), raster.MustHex("#FF4500"),
		raster.MustHex("#4B0082"), raster.MustHex("#6B8E23"),
	}
	crystalPalette = []color.NRGBA{
		raster.MustHex("#FFFFFF"), raster.MustHex("#D3D3D3"), raster.MustHex("#C0C0C0"),
	}
	haloPalette = []color.NRGBA{
		raster.MustHex("#EE82EE"), raster.MustHex("#ADD8E6"),
		raster.MustHex("#FFB6C1"), raster.MustHex("#90EE90"),
	}
)

// NewSpec builds the spec of variant for an image of size w x h.
func NewSpec(variant Variant, w, h int, opts Options) (Spec, error) {
	v, err := Parse(string(variant))
	if err != nil {
		return Spec{}, err
	}
	if opts.PolaroidSideRatio <= 0 {
		opts.PolaroidSideRatio = DefaultOptions().PolaroidSideRatio
	}
	s := Spec{Variant: v, Texture: opts.Texture, Seed: opts.Seed, Seeded: opts.Seeded}
	uniform := func(n int) { s.Top, s.Right, s.Bottom, s.Left = n, n, n, n }

	switch v {
	case Original:
	case Polaroid:
		side := int(float64(w) * opts.PolaroidSideRatio)
		s.Left, s.Right = side, side
		s.Top = int(float64(h) * 0.02)
		s.Bottom = int(float64(h) * 0.25)
		s.Fill = white
	case Vintage:
		uniform(int(float64(w) * 0.1))
		s.Fill = cream
	case Framed:
		uniform(int(float64(w) * 0.08))
		s.Fill = darkGray
	case Grunge:
		uniform(int(float64(w) * 0.05))
		s.Fill = grungeGray
	case Filmstrip:
		s.Left, s.Top, s.Right, s.Bottom = 10, 50, 10, 10
		s.Fill, s.Accent = white, brown
	case Bohemian:
		s.Left, s.Top, s.Right, s.Bottom = 20, 20, 20, 60
		s.Fill, s.Palette = tan, bohemianPalette
	case Pixel:
		uniform(50)
		s.Fill, s.Palette, s.CellSize = steel, crystalPalette, 5
	case Cartoon:
		s.Left, s.Top, s.Right, s.Bottom = 10, 20, 10, 30
		s.Fill, s.Accent, s.Palette, s.Count = goldenrod, goldenrod, haloPalette, 100
	case Bubble:
		uniform(30)
		s.Fill, s.Accent, s.Count = pink, white, 100
	case Glitch:
		uniform(40)
		s.Fill, s.StripHeight = black, 15
	case Wooden:
		uniform(50)
		s.Fill = white
	}
	return s, nil
}

// Apply returns a new canvas of size (W+Left+Right, H+Top+Bottom) holding
// img at (Left, Top) with the margin painted per spec. Every variant but
// the glitch frame leaves the pasted image untouched.
func Apply(img image.Image, spec Spec) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("border: nil image")
	}
	v, err := Parse(string(spec.Variant))
	if err != nil {
		return nil, err
	}
	if v == Original {
		return imaging.Clone(img), nil
	}
	if spec.Top < 0 || spec.Right < 0 || spec.Bottom < 0 || spec.Left < 0 {
		return nil, fmt.Errorf("border: negative margin in %+v", [4]int{spec.Top, spec.Right, spec.Bottom, spec.Left})
	}
	src := raster.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	inner := image.Rect(spec.Left, spec.Top, spec.Left+w, spec.Top+h)

	log.WithFields(log.Fields{
		"border": v,
		"top":    spec.Top,
		"right":  spec.Right,
		"bottom": spec.Bottom,
		"left":   spec.Left,
	}).Debug("applying border")

	if v == Wooden {
		return textured(src, spec, inner)
	}

	canvas := imaging.New(w+spec.Left+spec.Right, h+spec.Top+spec.Bottom, spec.Fill)
	paint := painters[v]
	var rnd *rand.Rand
	if paint != nil || v == Glitch {
		rnd = newRand(spec)
	}
	if paint != nil {
		paint(canvas, spec, rnd)
	}
	draw.Copy(canvas, inner.Min, src, src.Rect, draw.Src, nil)

	if v == Glitch {
		glitch(canvas, spec, rnd)
	}
	return canvas, nil
}

func newRand(spec Spec) *rand.Rand {
	if spec.Seeded {
		return rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// textured tiles the texture over the whole canvas and composites the
// image on top through a hard-edged mask that is opaque over the pasted
// region only.
func textured(src *image.NRGBA, spec Spec, inner image.Rectangle) (*image.NRGBA, error) {
	if spec.Texture == nil {
		return nil, ErrMissingTexture
	}
	tex := raster.ToNRGBA(spec.Texture)
	tw, th := tex.Rect.Dx(), tex.Rect.Dy()
	if tw == 0 || th == 0 {
		return nil, fmt.Errorf("%w: empty texture", ErrMissingTexture)
	}
	cw, ch := src.Rect.Dx()+spec.Left+spec.Right, src.Rect.Dy()+spec.Top+spec.Bottom
	bounds := image.Rect(0, 0, cw, ch)

	tiled := image.NewNRGBA(bounds)
	for x := 0; x < cw; x += tw {
		for y := 0; y < ch; y += th {
			draw.Copy(tiled, image.Pt(x, y), tex, tex.Rect, draw.Src, nil)
		}
	}

	bordered := imaging.New(cw, ch, spec.Fill)
	draw.Copy(bordered, inner.Min, src, src.Rect, draw.Src, nil)

	mask := image.NewAlpha(bounds)
	draw.Draw(mask, inner, image.Opaque, image.Point{}, draw.Src)

	draw.DrawMask(tiled, bounds, bordered, image.Point{}, mask, image.Point{}, draw.Over)
	return tiled, nil
}
