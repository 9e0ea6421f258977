package border

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/poeticapic/pkg/raster"
)

func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / width), uint8(y * 255 / height), uint8((x + y) % 256), 255})
		}
	}
	return img
}

func createTexture() *image.NRGBA {
	tex := image.NewNRGBA(image.Rect(0, 0, 7, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			tex.Set(x, y, color.NRGBA{uint8(30 * x), uint8(40 * y), 99, 255})
		}
	}
	return tex
}

func interior(img *image.NRGBA, spec Spec, w, h int) image.Image {
	return imaging.Crop(img, image.Rect(spec.Left, spec.Top, spec.Left+w, spec.Top+h))
}

func TestPolaroidScenario(t *testing.T) {
	src := createTestImage(200, 200)
	spec, err := NewSpec("Polaroid", 200, 200, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Polaroid, spec.Variant)
	assert.Equal(t, [4]int{4, 4, 50, 4}, [4]int{spec.Top, spec.Right, spec.Bottom, spec.Left})

	out, err := Apply(src, spec)
	require.NoError(t, err)
	assert.Equal(t, 208, out.Bounds().Dx())
	assert.Equal(t, 254, out.Bounds().Dy())
	assert.Equal(t, src.NRGBAAt(0, 0), out.NRGBAAt(4, 4))
	assert.Equal(t, white, out.NRGBAAt(0, 0))
	assert.Equal(t, white, out.NRGBAAt(100, 230))
}

func TestPolaroidWideVariant(t *testing.T) {
	spec, err := NewSpec(Polaroid, 200, 100, Options{PolaroidSideRatio: 0.05})
	require.NoError(t, err)
	assert.Equal(t, 10, spec.Left)
	assert.Equal(t, 10, spec.Right)
	assert.Equal(t, 2, spec.Top)
	assert.Equal(t, 25, spec.Bottom)
}

func TestInteriorPreserved(t *testing.T) {
	const w, h = 120, 90
	src := createTestImage(w, h)
	opts := DefaultOptions()
	opts.Texture = createTexture()

	for _, v := range Variants() {
		if v == Glitch || v == Original {
			continue
		}
		t.Run(string(v), func(t *testing.T) {
			spec, err := NewSpec(v, w, h, opts)
			require.NoError(t, err)
			out, err := Apply(src, spec)
			require.NoError(t, err)

			assert.Equal(t, w+spec.Left+spec.Right, out.Bounds().Dx())
			assert.Equal(t, h+spec.Top+spec.Bottom, out.Bounds().Dy())
			assert.True(t, raster.Equal(src, interior(out, spec, w, h)))
		})
	}
}

func TestOriginalIsIdentity(t *testing.T) {
	src := createTestImage(30, 20)
	for _, name := range []Variant{Original, "None"} {
		spec, err := NewSpec(name, 30, 20, DefaultOptions())
		require.NoError(t, err)
		out, err := Apply(src, spec)
		require.NoError(t, err)
		assert.True(t, raster.Equal(src, out))
	}
}

func TestUnsupportedBorder(t *testing.T) {
	_, err := NewSpec("Neon Frame", 10, 10, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedBorder)

	_, err = Apply(createTestImage(10, 10), Spec{Variant: "Neon Frame"})
	assert.ErrorIs(t, err, ErrUnsupportedBorder)

	_, err = Parse("polaroids")
	assert.ErrorIs(t, err, ErrUnsupportedBorder)
}

func TestNegativeMargin(t *testing.T) {
	_, err := Apply(createTestImage(10, 10), Spec{Variant: Framed, Top: -1})
	assert.Error(t, err)
}

func TestWoodenFrame(t *testing.T) {
	src := createTestImage(40, 30)
	spec, err := NewSpec(Wooden, 40, 30, DefaultOptions())
	require.NoError(t, err)

	_, err = Apply(src, spec)
	assert.ErrorIs(t, err, ErrMissingTexture)

	tex := createTexture()
	spec.Texture = tex
	out, err := Apply(src, spec)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 140, 130), out.Bounds())

	for _, p := range []image.Point{{0, 0}, {13, 3}, {139, 129}, {60, 10}, {3, 70}} {
		assert.Equal(t, tex.NRGBAAt(p.X%7, p.Y%5), out.NRGBAAt(p.X, p.Y), "margin pixel %v", p)
	}
	assert.Equal(t, src.NRGBAAt(0, 0), out.NRGBAAt(50, 50))
	assert.Equal(t, src.NRGBAAt(39, 29), out.NRGBAAt(89, 79))
}

func TestVintageRings(t *testing.T) {
	src := createTestImage(100, 60)
	spec, err := NewSpec(Vintage, 100, 60, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 10, spec.Top)

	out, err := Apply(src, spec)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{240, 220, 190, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{239, 219, 189, 255}, out.NRGBAAt(3, 3))
	assert.Equal(t, color.NRGBA{237, 217, 187, 255}, out.NRGBAAt(9, 40))
	assert.Equal(t, color.NRGBA{240, 220, 190, 255}, out.NRGBAAt(119, 79))
}

func TestFilmstripDots(t *testing.T) {
	src := createTestImage(40, 40)
	spec, err := NewSpec(Filmstrip, 40, 40, DefaultOptions())
	require.NoError(t, err)
	out, err := Apply(src, spec)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 60, 100), out.Bounds())
	assert.Equal(t, brown, out.NRGBAAt(0, 0))
	assert.Equal(t, brown, out.NRGBAAt(4, 4))
	assert.Equal(t, white, out.NRGBAAt(4, 0))
	assert.Equal(t, white, out.NRGBAAt(2, 0))
}

func TestBohemianUsesPalette(t *testing.T) {
	src := createTestImage(50, 50)
	spec, err := NewSpec(Bohemian, 50, 50, DefaultOptions())
	require.NoError(t, err)
	out, err := Apply(src, spec)
	require.NoError(t, err)

	inPalette := func(c color.NRGBA) bool {
		for _, p := range bohemianPalette {
			if p == c {
				return true
			}
		}
		return false
	}
	assert.True(t, inPalette(out.NRGBAAt(0, 0)))
	assert.True(t, inPalette(out.NRGBAAt(1, 3)))
	assert.Equal(t, tan, out.NRGBAAt(1, 0))
}

func TestSeededPatternsAreReproducible(t *testing.T) {
	src := createTestImage(80, 60)
	opts := DefaultOptions()
	opts.Seed, opts.Seeded = 42, true

	for _, v := range []Variant{Bohemian, Pixel, Cartoon, Bubble, Glitch} {
		spec, err := NewSpec(v, 80, 60, opts)
		require.NoError(t, err)
		a, err := Apply(src, spec)
		require.NoError(t, err)
		b, err := Apply(src, spec)
		require.NoError(t, err)
		assert.True(t, raster.Equal(a, b), "variant %q", v)
	}
}

func TestGlitchFrame(t *testing.T) {
	src := createTestImage(100, 70)
	spec, err := NewSpec(Glitch, 100, 70, DefaultOptions())
	require.NoError(t, err)
	out, err := Apply(src, spec)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 180, 150), out.Bounds())
}

// shiftedStrip reports whether rows [y0,y1) of out hold the same rows of ref
// moved right by s, with the pixels the shift uncovers left as in ref.
func shiftedStrip(out, ref *image.NRGBA, y0, y1, s int) bool {
	w := ref.Bounds().Dx()
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			want := ref.NRGBAAt(x, y)
			if sx := x - s; sx >= 0 && sx < w {
				want = ref.NRGBAAt(sx, y)
			}
			if out.NRGBAAt(x, y) != want {
				return false
			}
		}
	}
	return true
}

func TestGlitchStripsAreClipped(t *testing.T) {
	src := createTestImage(100, 70)
	for seed := uint64(1); seed <= 10; seed++ {
		opts := DefaultOptions()
		opts.Seed, opts.Seeded = seed, true
		spec, err := NewSpec(Glitch, 100, 70, opts)
		require.NoError(t, err)
		out, err := Apply(src, spec)
		require.NoError(t, err)

		ref := imaging.Paste(imaging.New(180, 150, black), src, image.Pt(spec.Left, spec.Top))
		for y0 := 0; y0 < 150; y0 += spec.StripHeight {
			y1 := min(y0+spec.StripHeight, 150)
			found := false
			for s := -10; s <= 10 && !found; s++ {
				found = shiftedStrip(out, ref, y0, y1, s)
			}
			assert.True(t, found, "seed %d strip at y=%d", seed, y0)
		}
	}
}

func TestMarginBandsOnly(t *testing.T) {
	src := createTestImage(60, 60)
	opts := DefaultOptions()
	opts.Seed, opts.Seeded = 7, true
	spec, err := NewSpec(Cartoon, 60, 60, opts)
	require.NoError(t, err)

	// the side bands hold no shapes at mid height
	out, err := Apply(src, spec)
	require.NoError(t, err)
	for y := spec.Top + 25; y < spec.Top+35; y++ {
		assert.Equal(t, goldenrod, out.NRGBAAt(0, y))
	}
}
