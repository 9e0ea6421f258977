package pipeline

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// ErrInvalidResize is returned for resize requests that cannot be honoured.
var ErrInvalidResize = errors.New("invalid resize")

// ResizeMode decides how the target box is filled.
type ResizeMode string

const (
	// Stretch scales to exactly Width x Height. A zero side keeps the
	// aspect ratio.
	Stretch ResizeMode = "stretch"
	// Fit scales down to fit inside the box, keeping the aspect ratio.
	Fit ResizeMode = "fit"
	// Fill scales and crops around the center to cover the box exactly.
	Fill ResizeMode = "fill"
)

// DefaultKernel is the resampling kernel used when none is named.
const DefaultKernel = "catmullrom"

var kernels = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"hermite":    imaging.Hermite,
	"mitchell":   imaging.MitchellNetravali,
	"catmullrom": imaging.CatmullRom,
	"bspline":    imaging.BSpline,
	"gaussian":   imaging.Gaussian,
	"bartlett":   imaging.Bartlett,
	"lanczos":    imaging.Lanczos,
	"hann":       imaging.Hann,
	"hamming":    imaging.Hamming,
	"blackman":   imaging.Blackman,
	"welch":      imaging.Welch,
	"cosine":     imaging.Cosine,
}

// Kernels returns the resampling kernel names, sorted.
func Kernels() []string {
	names := make([]string, 0, len(kernels))
	for k := range kernels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resize configures the resize stage.
type Resize struct {
	Width  int
	Height int
	Kernel string
	Mode   ResizeMode
}

func (r *Resize) kernel() (imaging.ResampleFilter, error) {
	name := r.Kernel
	if name == "" {
		name = DefaultKernel
	}
	k, ok := kernels[name]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("%w: unknown kernel %q", ErrInvalidResize, r.Kernel)
	}
	return k, nil
}

// Validate checks the target size, mode and kernel.
func (r *Resize) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidResize, r.Width, r.Height)
	}
	switch r.Mode {
	case "", Stretch:
		if r.Width == 0 && r.Height == 0 {
			return fmt.Errorf("%w: width and height are both zero", ErrInvalidResize)
		}
	case Fit, Fill:
		if r.Width == 0 || r.Height == 0 {
			return fmt.Errorf("%w: %s needs both width and height", ErrInvalidResize, r.Mode)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidResize, r.Mode)
	}
	_, err := r.kernel()
	return err
}

// Apply returns the resized image.
func (r *Resize) Apply(img image.Image) (*image.NRGBA, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	k, _ := r.kernel()
	switch r.Mode {
	case Fit:
		return imaging.Fit(img, r.Width, r.Height, k), nil
	case Fill:
		return imaging.Fill(img, r.Width, r.Height, imaging.Center, k), nil
	default:
		return imaging.Resize(img, r.Width, r.Height, k), nil
	}
}
