package filter

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// kernel is a fixed convolution kernel of size 3 or 5. Weights are divided
// by scale and offset is added to every output channel.
type kernel struct {
	size    int
	weights []float64
	scale   float64
	offset  int
}

var kernelTable = map[Name]kernel{
	KernelBlur: {5, []float64{
		1, 1, 1, 1, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 1, 1, 1, 1,
	}, 16, 0},
	KernelContour: {3, []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}, 1, 255},
	KernelDetail: {3, []float64{
		0, -1, 0,
		-1, 10, -1,
		0, -1, 0,
	}, 6, 0},
	KernelEdgeEnhance: {3, []float64{
		-1, -1, -1,
		-1, 10, -1,
		-1, -1, -1,
	}, 2, 0},
	KernelEdgeEnhanceMore: {3, []float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}, 1, 0},
	KernelEmboss: {3, []float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}, 1, 128},
	KernelFindEdges: {3, []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}, 1, 0},
	KernelSharpen: {3, []float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}, 16, 0},
	KernelSmooth: {3, []float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}, 13, 0},
	KernelSmoothMore: {5, []float64{
		1, 1, 1, 1, 1,
		1, 5, 5, 5, 1,
		1, 5, 44, 5, 1,
		1, 5, 5, 5, 1,
		1, 1, 1, 1, 1,
	}, 100, 0},
}

// convolve returns the transform for a kernel filter. The weights are
// pre-scaled so imaging never renormalizes zero-sum kernels.
func convolve(name Name) transform {
	k, ok := kernelTable[name]
	if !ok {
		panic("filter: no kernel for " + string(name))
	}
	opts := &imaging.ConvolveOptions{Bias: k.offset}
	switch k.size {
	case 3:
		var w [9]float64
		for i := range w {
			w[i] = k.weights[i] / k.scale
		}
		return func(_ *Engine, img *image.NRGBA) *image.NRGBA {
			return imaging.Convolve3x3(img, w, opts)
		}
	case 5:
		var w [25]float64
		for i := range w {
			w[i] = k.weights[i] / k.scale
		}
		return func(_ *Engine, img *image.NRGBA) *image.NRGBA {
			return imaging.Convolve5x5(img, w, opts)
		}
	}
	panic("filter: unsupported kernel size")
}

// The rank filters work on a 3x3 window (radius 1).

func rankMedian(img *image.NRGBA) *image.NRGBA {
	return imaging.Clone(effect.Median(img, 1))
}

func rankMax(img *image.NRGBA) *image.NRGBA {
	return imaging.Clone(effect.Dilate(img, 1))
}

func rankMin(img *image.NRGBA) *image.NRGBA {
	return imaging.Clone(effect.Erode(img, 1))
}

func unsharp(img *image.NRGBA, radius, amount float64) *image.NRGBA {
	return imaging.Clone(effect.UnsharpMask(img, radius, amount))
}
