package filter

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/poeticapic/pkg/raster"
)

// The enhancers blend each pixel against a degenerate version of the
// image: out = degenerate + factor*(pixel - degenerate). A factor of 1 is
// the identity, 0 yields the degenerate image.

func blend(degenerate float64, v uint8, factor float64) uint8 {
	return raster.ClampF(degenerate + factor*(float64(v)-degenerate))
}

func luma8(c color.NRGBA) float64 {
	return float64(uint8(raster.Luma(c.R, c.G, c.B) + 0.5))
}

// saturation blends against the gray luma of each pixel.
func saturation(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma8(c)
		return color.NRGBA{blend(l, c.R, factor), blend(l, c.G, factor), blend(l, c.B, factor), c.A}
	})
}

// brightness blends against black.
func brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{blend(0, c.R, factor), blend(0, c.G, factor), blend(0, c.B, factor), c.A}
	})
}

// contrast blends against the mean luma of the whole image.
func contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := meanLuma(img)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{blend(mean, c.R, factor), blend(mean, c.G, factor), blend(mean, c.B, factor), c.A}
	})
}

func meanLuma(img *image.NRGBA) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < h; y++ {
		i := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			sum += luma8(color.NRGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], 255})
			i += 4
		}
	}
	return float64(int(sum/float64(w*h) + 0.5))
}

func vignette(img *image.NRGBA) *image.NRGBA {
	out := imaging.Blur(img, 2)
	out = saturation(out, 0.7)
	out = brightness(out, 0.8)
	out = contrast(out, 1.2)
	return imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: raster.ClampF(float64(c.R) * 1.2),
			G: raster.ClampF(float64(c.G) * 0.9),
			B: raster.ClampF(float64(c.B) * 0.7),
			A: c.A,
		}
	})
}

// sepiaMatrix rows produce R', G' and B'.
var sepiaMatrix = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

func sepia(img *image.NRGBA, mirrored bool) *image.NRGBA {
	m := sepiaMatrix
	if mirrored {
		m[0], m[2] = m[2], m[0]
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: raster.ClampF(m[0][0]*r + m[0][1]*g + m[0][2]*b),
			G: raster.ClampF(m[1][0]*r + m[1][1]*g + m[1][2]*b),
			B: raster.ClampF(m[2][0]*r + m[2][1]*g + m[2][2]*b),
			A: c.A,
		}
	})
}

// comic recombines channels and wraps modulo 256 on purpose.
func comic(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := int(c.R), int(c.G), int(c.B)
		nr := abs(g-b+g+r) % 256
		nb := abs(b-g+b+r) % 256
		return color.NRGBA{uint8(nr), uint8(nb), uint8(nb), c.A}
	})
}

func solarize(img *image.NRGBA, threshold int) *image.NRGBA {
	inv := func(v uint8) uint8 {
		if int(v) >= threshold {
			return 255 - v
		}
		return v
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{inv(c.R), inv(c.G), inv(c.B), c.A}
	})
}

func lomo(img *image.NRGBA) *image.NRGBA {
	out := saturation(img, 1.5)
	return imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: raster.ClampF(float64(c.R) * 0.9),
			G: raster.ClampF(float64(c.G) * 1.1),
			B: c.B,
			A: c.A,
		}
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
