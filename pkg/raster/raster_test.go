package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / width), uint8(y * 255 / height), 64, 255})
		}
	}
	return img
}

func TestClamp(t *testing.T) {
	assert.Equal(t, uint8(0), Clamp(-20))
	assert.Equal(t, uint8(255), Clamp(300))
	assert.Equal(t, uint8(42), Clamp(42))
	assert.Equal(t, uint8(255), ClampF(255.9))
	assert.Equal(t, uint8(12), ClampF(12.99))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FFD700")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 215, 0, 255}, c)

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)

	assert.Equal(t, "#a9acb6", Hex(MustHex("#A9ACB6")))
}

func TestToNRGBA(t *testing.T) {
	src := createTestImage(10, 8)
	assert.Same(t, src, ToNRGBA(src))

	rgba := image.NewRGBA(image.Rect(5, 5, 15, 13))
	out := ToNRGBA(rgba)
	assert.Equal(t, image.Rect(0, 0, 10, 8), out.Rect)
}

func TestEqual(t *testing.T) {
	a := createTestImage(12, 12)
	b := createTestImage(12, 12)
	assert.True(t, Equal(a, b))

	b.Set(3, 3, color.NRGBA{1, 2, 3, 255})
	assert.False(t, Equal(a, b))
	assert.False(t, Equal(a, createTestImage(12, 13)))
}

func TestLinesClip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	red := color.NRGBA{255, 0, 0, 255}

	HLine(img, 2, -5, 50, red)
	VLine(img, 7, 20, -3, red)
	HLine(img, -1, 0, 10, red)
	VLine(img, 10, 0, 10, red)

	for x := 0; x < 10; x++ {
		assert.Equal(t, red, img.NRGBAAt(x, 2))
	}
	for y := 0; y < 10; y++ {
		assert.Equal(t, red, img.NRGBAAt(7, y))
	}
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
}

func TestStrokeRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	c := color.NRGBA{10, 20, 30, 255}
	StrokeRect(img, image.Rect(2, 2, 12, 12), c, 2)

	assert.Equal(t, c, img.NRGBAAt(2, 2))
	assert.Equal(t, c, img.NRGBAAt(3, 3))
	assert.Equal(t, c, img.NRGBAAt(11, 11))
	assert.Equal(t, c, img.NRGBAAt(10, 5))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(12, 12))
}

func TestFillRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	c := color.NRGBA{1, 1, 1, 255}
	FillRect(img, image.Rect(6, 6, -2, -2), c)
	assert.Equal(t, c, img.NRGBAAt(0, 0))
	assert.Equal(t, c, img.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(6, 6))
}

func TestArc(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	white := color.NRGBA{255, 255, 255, 255}
	Arc(img, 20, 20, 10, 0, 180, white)

	assert.Equal(t, white, img.NRGBAAt(30, 20))
	assert.Equal(t, white, img.NRGBAAt(20, 30))
	assert.Equal(t, white, img.NRGBAAt(10, 20))
	// the upper half stays untouched
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(20, 10))
}
