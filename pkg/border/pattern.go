package border

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/menta2k/poeticapic/pkg/raster"
)

// painter decorates the margin of a canvas that is already filled with
// spec.Fill. Anything drawn over the inner region is overwritten by the
// image afterwards, so painters only need to clip to the canvas.
type painter func(canvas *image.NRGBA, spec Spec, rng *rand.Rand)

// A nil painter means the margin is a solid fill.
var painters = map[Variant]painter{
	Polaroid:  nil,
	Framed:    nil,
	Grunge:    nil,
	Glitch:    nil,
	Wooden:    nil,
	Vintage:   graduatedOutline,
	Filmstrip: filmstripDots,
	Bohemian:  bohemianNoise,
	Pixel:     crystalCells,
	Cartoon:   haloShapes,
	Bubble:    bubbleArcs,
}

func pick(rng *rand.Rand, palette []color.NRGBA) color.NRGBA {
	return palette[rng.IntN(len(palette))]
}

// randint returns a value in [lo, hi], both inclusive.
func randint(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// graduatedOutline traces one ring per margin pixel inwards from the canvas
// edge, darkening by one level every three rings.
func graduatedOutline(canvas *image.NRGBA, spec Spec, _ *rand.Rand) {
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	rings := min(spec.Top, spec.Right, spec.Bottom, spec.Left)
	for i := 0; i < rings; i++ {
		d := i / 3
		c := color.NRGBA{raster.Clamp(240 - d), raster.Clamp(220 - d), raster.Clamp(190 - d), 255}
		raster.StrokeRect(canvas, image.Rect(i, i, w-i, h-i), c, 1)
	}
}

// filmstripDots places a dot on every fourth pixel of the grid whose
// coordinates sum to a multiple of eight.
func filmstripDots(canvas *image.NRGBA, spec Spec, _ *rand.Rand) {
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	for x := 0; x < w; x += 4 {
		for y := 0; y < h; y += 4 {
			if (x+y)%8 == 0 {
				raster.SetPixel(canvas, x, y, spec.Accent)
			}
		}
	}
}

// bohemianNoise sprinkles palette points over each band where the band
// depth plus the running coordinate is a multiple of four.
func bohemianNoise(canvas *image.NRGBA, spec Spec, rng *rand.Rand) {
	if len(spec.Palette) == 0 {
		return
	}
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	vertical := func(from, to int) {
		for i := from; i < to; i++ {
			for y := 0; y < h; y++ {
				if (i+y)%4 == 0 {
					raster.SetPixel(canvas, i, y, pick(rng, spec.Palette))
				}
			}
		}
	}
	horizontal := func(from, to int) {
		for i := from; i < to; i++ {
			for x := 0; x < w; x++ {
				if (i+x)%4 == 0 {
					raster.SetPixel(canvas, x, i, pick(rng, spec.Palette))
				}
			}
		}
	}
	vertical(0, spec.Left)
	vertical(w-spec.Right, w)
	horizontal(0, spec.Top)
	horizontal(h-spec.Bottom, h)
}

// crystalCells tiles the margin bands with square cells of random shades.
func crystalCells(canvas *image.NRGBA, spec Spec, rng *rand.Rand) {
	if len(spec.Palette) == 0 {
		return
	}
	cell := spec.CellSize
	if cell <= 0 {
		cell = 5
	}
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	fill := func(x, y int) {
		raster.FillRect(canvas, image.Rect(x, y, x+cell, y+cell), pick(rng, spec.Palette))
	}
	for x := 0; x < w; x += cell {
		for y := 0; y < spec.Top; y += cell {
			fill(x, y)
		}
		for y := h - spec.Bottom; y < h; y += cell {
			fill(x, y)
		}
	}
	for y := 0; y < h; y += cell {
		for x := 0; x < spec.Left; x += cell {
			fill(x, y)
		}
		for x := w - spec.Right; x < w; x += cell {
			fill(x, y)
		}
	}
}

// haloShapes scatters outlined squares centred in the top and bottom bands.
func haloShapes(canvas *image.NRGBA, spec Spec, rng *rand.Rand) {
	if len(spec.Palette) == 0 {
		return
	}
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	square := func(x, y, s int) {
		r := image.Rect(x-s, y-s, x+s+1, y+s+1)
		raster.FillRect(canvas, r, pick(rng, spec.Palette))
		raster.StrokeRect(canvas, r, spec.Accent, 2)
	}
	for i := 0; i < spec.Count; i++ {
		x := randint(rng, 0, w)
		s := randint(rng, 5, 20)
		square(x, randint(rng, 0, spec.Top), s)
		square(x, randint(rng, h-spec.Bottom, h), s)
	}
}

// bubbleArcs draws half circles opening away from the picture: lower
// halves in the top band and their mirrored upper halves in the bottom one.
func bubbleArcs(canvas *image.NRGBA, spec Spec, rng *rand.Rand) {
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	for i := 0; i < spec.Count; i++ {
		x := randint(rng, 0, w)
		y := randint(rng, 0, spec.Top)
		r := randint(rng, 10, 30)
		raster.Arc(canvas, x, y, r, 0, 180, spec.Accent)
		raster.Arc(canvas, x, h-y, r, 180, 360, spec.Accent)
	}
}

// glitch shifts every horizontal strip of the finished canvas left or right
// by up to half the margin. Pixels pushed past the edge are dropped and the
// uncovered part of the strip keeps its previous content.
func glitch(canvas *image.NRGBA, spec Spec, rng *rand.Rand) {
	strip := spec.StripHeight
	if strip <= 0 {
		strip = 15
	}
	thickness := max(spec.Top, spec.Right, spec.Bottom, spec.Left)
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	for y := 0; y < h; y += strip {
		shift := int(float64(thickness) / 2 * (0.5 - rng.Float64()))
		part := imaging.Crop(canvas, image.Rect(0, y, w, y+strip))
		draw.Copy(canvas, image.Pt(shift, y), part, part.Rect, draw.Src, nil)
	}
}
