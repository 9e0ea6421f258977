package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/menta2k/poeticapic/pkg/raster"
)

// oilPainting replaces every pixel at least brush pixels away from the
// edges with the per-channel median of the (2*brush+1)^2 window centred on
// it.
func oilPainting(img *image.NRGBA, brush int) *image.NRGBA {
	return windowMedian(img, brush, -brush, brush)
}

// watercolor uses the 2*brush wide window [x-brush, x+brush), so the
// window holds an even number of samples and the median is the floor of
// the mean of the two middle values.
func watercolor(img *image.NRGBA, brush int) *image.NRGBA {
	return windowMedian(img, brush, -brush, brush-1)
}

// windowMedian computes the per-channel median over the window
// [x+lo, x+hi] x [y+lo, y+hi] for every pixel with margin <= x < w-margin
// and margin <= y < h-margin. Callers guarantee margin >= -lo and
// margin >= hi, so a window never leaves the image. Other pixels, and the
// alpha channel, are copied unchanged.
//
// Rows run in parallel. Reads only touch src and every row owns its
// histograms, so the result does not depend on scheduling.
func windowMedian(img *image.NRGBA, margin, lo, hi int) *image.NRGBA {
	src := raster.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)
	if margin <= 0 || hi < lo || w <= 2*margin || h <= 2*margin {
		return dst
	}
	n := (hi - lo + 1) * (hi - lo + 1)

	parallel.Line(h-2*margin, func(start, end int) {
		var hist [3][256]int
		for row := start; row < end; row++ {
			y := row + margin
			hist = [3][256]int{}
			// Prime with the first window minus its right column; the loop
			// adds the right column, reads the median, then drops the left.
			for wy := y + lo; wy <= y+hi; wy++ {
				for wx := margin + lo; wx < margin+hi; wx++ {
					addPixel(&hist, src, wx, wy, 1)
				}
			}
			for x := margin; x < w-margin; x++ {
				for wy := y + lo; wy <= y+hi; wy++ {
					addPixel(&hist, src, x+hi, wy, 1)
				}
				i := dst.PixOffset(x, y)
				dst.Pix[i+0] = histMedian(&hist[0], n)
				dst.Pix[i+1] = histMedian(&hist[1], n)
				dst.Pix[i+2] = histMedian(&hist[2], n)
				for wy := y + lo; wy <= y+hi; wy++ {
					addPixel(&hist, src, x+lo, wy, -1)
				}
			}
		}
	})
	return dst
}

func addPixel(hist *[3][256]int, img *image.NRGBA, x, y, delta int) {
	i := img.PixOffset(x, y)
	hist[0][img.Pix[i+0]] += delta
	hist[1][img.Pix[i+1]] += delta
	hist[2][img.Pix[i+2]] += delta
}

// histMedian returns the median of n samples. For even n it is the floor
// of the mean of the two middle samples.
func histMedian(hist *[256]int, n int) uint8 {
	lowIdx, highIdx := (n-1)/2, n/2
	lo := -1
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if lo < 0 && cum > lowIdx {
			lo = v
		}
		if cum > highIdx {
			return uint8((lo + v) / 2)
		}
	}
	return 0
}
