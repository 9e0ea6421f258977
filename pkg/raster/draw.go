package raster

import (
	"image"
	"image/color"
	"math"
)

// Every primitive below clips to the image bounds, so callers may pass
// coordinates that fall partly or fully outside the canvas.

// SetPixel writes c at (x, y) when the point lies inside img.
func SetPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{x, y}).In(img.Rect) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

// HLine draws the half-open horizontal span [x0, x1) on row y.
func HLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	b := img.Rect
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= b.Min.X || x0 >= b.Max.X {
		return
	}
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	i := img.PixOffset(x0, y)
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

// VLine draws the half-open vertical span [y0, y1) on column x.
func VLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Rect
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= b.Min.Y || y0 >= b.Max.Y {
		return
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	i := img.PixOffset(x, y0)
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

// FillRect fills r.
func FillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Canon().Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		HLine(img, y, r.Min.X, r.Max.X, c)
	}
}

// StrokeRect outlines r with an inward stroke of the given width.
func StrokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, width int) {
	r = r.Canon()
	if width < 1 {
		width = 1
	}
	for s := 0; s < width; s++ {
		if r.Dx()-2*s <= 0 || r.Dy()-2*s <= 0 {
			return
		}
		HLine(img, r.Min.Y+s, r.Min.X+s, r.Max.X-s, c)
		HLine(img, r.Max.Y-1-s, r.Min.X+s, r.Max.X-s, c)
		VLine(img, r.Min.X+s, r.Min.Y+s, r.Max.Y-s, c)
		VLine(img, r.Max.X-1-s, r.Min.Y+s, r.Max.Y-s, c)
	}
}

// Arc strokes a one pixel circular arc centred on (cx, cy). Angles are in
// degrees, measured clockwise from the positive x axis as in screen space,
// and the arc runs from start to end.
func Arc(img *image.NRGBA, cx, cy, radius int, start, end float64, c color.NRGBA) {
	if radius <= 0 {
		SetPixel(img, cx, cy, c)
		return
	}
	if end < start {
		end += 360
	}
	// One step per pixel of circumference keeps the stroke gap free.
	steps := int(math.Ceil(2*math.Pi*float64(radius)*(end-start)/360)) + 1
	for i := 0; i <= steps; i++ {
		a := (start + (end-start)*float64(i)/float64(steps)) * math.Pi / 180
		x := cx + int(math.Round(float64(radius)*math.Cos(a)))
		y := cy + int(math.Round(float64(radius)*math.Sin(a)))
		SetPixel(img, x, y, c)
	}
}
