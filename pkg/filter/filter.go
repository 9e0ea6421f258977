// Package filter implements the cosmetic color and convolution filters.
//
// Every filter is a pure function from one image to a new image of the same
// size. Filters are selected by their display name through a dispatch table;
// an unknown name is reported as ErrUnsupportedFilter rather than ignored.
package filter

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

// ErrUnsupportedFilter is returned for names outside the vocabulary.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Name identifies a filter by its display name.
type Name string

// Artistic filters.
const (
	Original      Name = "Original"
	BlackAndWhite Name = "Black & White"
	Dramatic      Name = "Dramatic"
	Vignette      Name = "Vignette"
	Sepia         Name = "Sepia"
	InvertedColor Name = "Inverted Color"
	Comic         Name = "Comic Filter"
	OilPainting   Name = "Oil Painting"
	Sharp         Name = "Sharp"
	WaterColor    Name = "Water Color"
	Cool          Name = "Cool"
	Warm          Name = "Warm"
	Blur          Name = "Blur"
	Solarize      Name = "Solarize"
	PopArt        Name = "Pop Art"
	Lomo          Name = "Lomo"
)

// Kernel filters.
const (
	KernelBlur            Name = "BLUR"
	KernelContour         Name = "CONTOUR"
	KernelDetail          Name = "DETAIL"
	KernelEdgeEnhance     Name = "EDGE_ENHANCE"
	KernelEdgeEnhanceMore Name = "EDGE_ENHANCE_MORE"
	KernelEmboss          Name = "EMBOSS"
	KernelFindEdges       Name = "FIND_EDGES"
	KernelSharpen         Name = "SHARPEN"
	KernelSmooth          Name = "SMOOTH"
	KernelSmoothMore      Name = "SMOOTH_MORE"
	KernelGaussianBlur    Name = "GAUSSIAN_BLUR"
	KernelMedian          Name = "MEDIAN_FILTER"
	KernelMax             Name = "MAX_FILTER"
	KernelMin             Name = "MIN_FILTER"
	KernelSepia           Name = "SEPIA"
	KernelGrayscale       Name = "GRAYSCALE"
	KernelPopArt          Name = "POP ART"
)

// Options holds the tunable parameters of the filters that have any.
type Options struct {
	// SepiaMirrored selects the sepia matrix with the red and blue rows
	// swapped instead of the classic one.
	SepiaMirrored bool `json:"sepia_mirrored"`
	// OilBrush is the half-width of the oil painting window.
	OilBrush int `json:"oil_brush"`
	// WatercolorBrush is the half-width of the watercolor window.
	WatercolorBrush int `json:"watercolor_brush"`
	// SolarizeThreshold is the first channel value that gets inverted.
	SolarizeThreshold int `json:"solarize_threshold"`
}

// DefaultOptions returns the default effect parameters.
func DefaultOptions() Options {
	return Options{
		SepiaMirrored:     false,
		OilBrush:          5,
		WatercolorBrush:   8,
		SolarizeThreshold: 170,
	}
}

type transform func(e *Engine, img *image.NRGBA) *image.NRGBA

var registry = map[Name]transform{
	Original:      func(_ *Engine, img *image.NRGBA) *image.NRGBA { return img },
	BlackAndWhite: func(_ *Engine, img *image.NRGBA) *image.NRGBA { return imaging.Grayscale(img) },
	Dramatic:      func(_ *Engine, img *image.NRGBA) *image.NRGBA { return contrast(img, 1.5) },
	Vignette:      func(_ *Engine, img *image.NRGBA) *image.NRGBA { return vignette(img) },
	Sepia:         func(e *Engine, img *image.NRGBA) *image.NRGBA { return sepia(img, e.opts.SepiaMirrored) },
	InvertedColor: func(_ *Engine, img *image.NRGBA) *image.NRGBA { return imaging.Invert(img) },
	Comic:         func(_ *Engine, img *image.NRGBA) *image.NRGBA { return comic(img) },
	OilPainting:   func(e *Engine, img *image.NRGBA) *image.NRGBA { return oilPainting(img, e.opts.OilBrush) },
	Sharp:         func(_ *Engine, img *image.NRGBA) *image.NRGBA { return unsharp(img, 2, 2.5) },
	WaterColor:    func(e *Engine, img *image.NRGBA) *image.NRGBA { return watercolor(img, e.opts.WatercolorBrush) },
	Cool:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return saturation(img, 0.9) },
	Warm:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return saturation(img, 3.5) },
	Blur:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return imaging.Blur(img, 3) },
	Solarize:      func(e *Engine, img *image.NRGBA) *image.NRGBA { return solarize(img, e.opts.SolarizeThreshold) },
	PopArt:        func(_ *Engine, img *image.NRGBA) *image.NRGBA { return saturation(img, 4.0) },
	Lomo:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return lomo(img) },

	KernelBlur:            convolve(KernelBlur),
	KernelContour:         convolve(KernelContour),
	KernelDetail:          convolve(KernelDetail),
	KernelEdgeEnhance:     convolve(KernelEdgeEnhance),
	KernelEdgeEnhanceMore: convolve(KernelEdgeEnhanceMore),
	KernelEmboss:          convolve(KernelEmboss),
	KernelFindEdges:       convolve(KernelFindEdges),
	KernelSharpen:         convolve(KernelSharpen),
	KernelSmooth:          convolve(KernelSmooth),
	KernelSmoothMore:      convolve(KernelSmoothMore),
	KernelGaussianBlur:    func(_ *Engine, img *image.NRGBA) *image.NRGBA { return imaging.Blur(img, 2) },
	KernelMedian:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return rankMedian(img) },
	KernelMax:             func(_ *Engine, img *image.NRGBA) *image.NRGBA { return rankMax(img) },
	KernelMin:             func(_ *Engine, img *image.NRGBA) *image.NRGBA { return rankMin(img) },
	KernelSepia:           func(e *Engine, img *image.NRGBA) *image.NRGBA { return sepia(img, e.opts.SepiaMirrored) },
	KernelGrayscale:       func(_ *Engine, img *image.NRGBA) *image.NRGBA { return imaging.Grayscale(img) },
	KernelPopArt:          func(_ *Engine, img *image.NRGBA) *image.NRGBA { return saturation(img, 4.0) },
}

var artistic = []Name{
	Original, BlackAndWhite, Dramatic, Vignette, Sepia, InvertedColor, Comic,
	OilPainting, Sharp, WaterColor, Cool, Warm, Blur, Solarize, PopArt, Lomo,
}

var kernels = []Name{
	KernelBlur, KernelContour, KernelDetail, KernelEdgeEnhance, KernelEdgeEnhanceMore,
	KernelEmboss, KernelFindEdges, KernelSharpen, KernelSmooth, KernelSmoothMore,
	KernelGaussianBlur, KernelMedian, KernelMax, KernelMin, KernelSepia, KernelGrayscale,
	KernelPopArt,
}

// Names returns the full vocabulary, artistic filters first.
func Names() []Name {
	out := make([]Name, 0, len(artistic)+len(kernels))
	out = append(out, artistic...)
	return append(out, kernels...)
}

// Parse validates s against the vocabulary. Names are case-sensitive:
// "Blur" and "BLUR" are different filters.
func Parse(s string) (Name, error) {
	n := Name(s)
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFilter, s)
	}
	return n, nil
}

// Engine applies filters with a fixed set of options.
type Engine struct {
	opts Options
}

// New creates an Engine with default options.
func New() *Engine {
	return &Engine{opts: DefaultOptions()}
}

// NewWithOptions creates an Engine with custom options. Non-positive
// brush sizes fall back to the defaults.
func NewWithOptions(opts Options) *Engine {
	def := DefaultOptions()
	if opts.OilBrush <= 0 {
		opts.OilBrush = def.OilBrush
	}
	if opts.WatercolorBrush <= 0 {
		opts.WatercolorBrush = def.WatercolorBrush
	}
	if opts.SolarizeThreshold <= 0 || opts.SolarizeThreshold > 255 {
		opts.SolarizeThreshold = def.SolarizeThreshold
	}
	return &Engine{opts: opts}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Apply runs the named filter on img and returns the result. The input is
// never modified; Original returns a copy of it.
func (e *Engine) Apply(img image.Image, name Name) (*image.NRGBA, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilter, string(name))
	}
	if img == nil {
		return nil, errors.New("filter: nil image")
	}
	log.WithField("filter", name).Debug("applying filter")
	return fn(e, imaging.Clone(img)), nil
}

// Apply runs the named filter with default options.
func Apply(img image.Image, name Name) (*image.NRGBA, error) {
	return New().Apply(img, name)
}
