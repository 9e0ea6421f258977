package overlay

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/menta2k/poeticapic/pkg/raster"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	red   = color.NRGBA{255, 0, 0, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, Wrap("the quick brown fox jumps", 10))
	assert.Equal(t, []string{"a", "supercalifragilistic", "b"}, Wrap("a supercalifragilistic b", 5))
	assert.Equal(t, []string{"one two"}, Wrap("  one \n\t two ", 0))
	assert.Nil(t, Wrap("   ", 10))
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	text := strings.Repeat("sunlight falls on quiet water and the day forgets its name ", 8)
	for _, width := range []int{8, 12, 30, 60} {
		lines := Wrap(text, width)
		require.NotEmpty(t, lines)
		for _, l := range lines {
			assert.LessOrEqual(t, utf8.RuneCountInString(l), width, "line %q", l)
		}
		assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(lines, " "))
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		pos  Position
		want image.Point
	}{
		{TopLeft, image.Pt(10, 10)},
		{TopCenter, image.Pt(100, 10)},
		{TopRight, image.Pt(190, 10)},
		{CenterLeft, image.Pt(10, 130)},
		{Center, image.Pt(100, 130)},
		{CenterRight, image.Pt(190, 130)},
		{BottomLeft, image.Pt(10, 250)},
		{BottomCenter, image.Pt(100, 250)},
		{BottomRight, image.Pt(190, 250)},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			p, err := Resolve(tt.pos, 300, 300, 100, 40)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}

	p, err := Resolve(Center, 101, 51, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 20), p)
}

func TestInvalidPosition(t *testing.T) {
	_, err := Resolve("Middle", 100, 100, 10, 10)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = ParsePosition("top left")
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = Draw(imaging.New(50, 50, white), Request{Text: "hi", Position: "Middle"})
	assert.ErrorIs(t, err, ErrInvalidPosition)

	for _, p := range Positions() {
		got, err := ParsePosition(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestMeasureBitmapFace(t *testing.T) {
	w, h := Measure(basicfont.Face7x13, []string{"abc", "abcdef"})
	assert.Equal(t, 42, w)
	assert.Equal(t, 26, h)

	w, h = Measure(basicfont.Face7x13, nil)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestDrawTopLeftWithPlate(t *testing.T) {
	img := imaging.New(100, 50, white)
	layout, err := Draw(img, Request{
		Text:       "hello",
		Position:   TopLeft,
		Face:       basicfont.Face7x13,
		Color:      black,
		Background: &red,
	})
	require.NoError(t, err)

	assert.Equal(t, image.Pt(10, 10), layout.Origin)
	assert.Equal(t, 35, layout.Width)
	assert.Equal(t, 13, layout.Height)
	assert.Equal(t, []image.Rectangle{image.Rect(10, 10, 45, 23)}, layout.Boxes)
	assert.False(t, layout.FontFallback)

	assert.Equal(t, red, img.NRGBAAt(44, 22))
	assert.Equal(t, white, img.NRGBAAt(45, 22))
	assert.Equal(t, white, img.NRGBAAt(9, 10))
	assert.Equal(t, white, img.NRGBAAt(10, 23))

	inked := 0
	for y := 10; y < 23; y++ {
		for x := 10; x < 45; x++ {
			c := img.NRGBAAt(x, y)
			assert.NotEqual(t, white, c)
			if c != red {
				inked++
			}
		}
	}
	assert.Positive(t, inked)
}

func TestDrawLogsTextColor(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(level)

	img := imaging.New(100, 50, white)
	_, err := Draw(img, Request{Text: "hi", Position: Center, Face: basicfont.Face7x13, Color: red})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "text drawn", entry.Message)
	assert.Equal(t, "#ff0000", entry.Data["color"])

	// an unset color is drawn black
	_, err = Draw(img, Request{Text: "hi", Position: Center, Face: basicfont.Face7x13})
	require.NoError(t, err)
	assert.Equal(t, "#000000", hook.LastEntry().Data["color"])
}

func TestDrawCentersLinesIndividually(t *testing.T) {
	img := imaging.New(100, 100, white)
	layout, err := Draw(img, Request{
		Text:       "aa bbbb",
		WrapWidth:  4,
		Position:   Center,
		Face:       basicfont.Face7x13,
		Color:      black,
		Background: &red,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"aa", "bbbb"}, layout.Lines)
	assert.Equal(t, image.Pt(36, 37), layout.Origin)
	assert.Equal(t, []image.Rectangle{
		image.Rect(43, 37, 57, 50),
		image.Rect(36, 50, 64, 63),
	}, layout.Boxes)

	// the first plate is narrower than the block
	assert.Equal(t, white, img.NRGBAAt(40, 40))
	assert.Equal(t, red, img.NRGBAAt(63, 62))
}

func TestDrawKeepsBoxInsideCanvas(t *testing.T) {
	for _, p := range Positions() {
		img := imaging.New(400, 300, white)
		layout, err := Draw(img, Request{
			Text:     "a few words of quiet morning light over the hills",
			Position: p,
			FontSize: 18,
			Color:    black,
		})
		require.NoError(t, err)
		require.False(t, layout.FontFallback)
		for _, r := range layout.Boxes {
			assert.True(t, r.In(img.Rect), "position %q box %v", p, r)
		}
	}
}

func TestDrawEmptyText(t *testing.T) {
	img := imaging.New(40, 40, white)
	layout, err := Draw(img, Request{Text: " ", Position: Center, Background: &red})
	require.NoError(t, err)
	assert.Empty(t, layout.Lines)
	assert.True(t, raster.Equal(imaging.New(40, 40, white), img))
}

func TestFontFallback(t *testing.T) {
	img := imaging.New(200, 60, white)
	layout, err := Draw(img, Request{
		Text:     "fallback",
		Position: TopLeft,
		FontPath: filepath.Join(t.TempDir(), "missing.ttf"),
		FontSize: 40,
		Color:    black,
	})
	require.NoError(t, err)
	assert.True(t, layout.FontFallback)
	assert.Equal(t, 56, layout.Width)
	assert.Equal(t, 13, layout.Height)
}

func TestLoadFace(t *testing.T) {
	small, err := LoadFace("", 12)
	require.NoError(t, err)
	defer small.Close()
	large, err := LoadFace("", 36)
	require.NoError(t, err)
	defer large.Close()
	assert.Greater(t, large.Metrics().Height, small.Metrics().Height)

	_, err = LoadFace(filepath.Join(t.TempDir(), "missing.ttf"), 12)
	assert.ErrorIs(t, err, ErrFontLoad)

	junk := filepath.Join(t.TempDir(), "junk.ttf")
	require.NoError(t, os.WriteFile(junk, []byte("not a font"), 0o644))
	_, err = LoadFace(junk, 12)
	assert.ErrorIs(t, err, ErrFontLoad)
}

func TestFontSizeLimits(t *testing.T) {
	assert.Equal(t, 10, MaxFontSize(300, 600))
	assert.Equal(t, 10.0, ClampFontSize(40, 300, 300))
	assert.Equal(t, 8.0, ClampFontSize(2, 300, 300))
	assert.Equal(t, 8.0, ClampFontSize(20, 100, 100))
	assert.Equal(t, 15.0, ClampFontSize(15, 800, 600))
}
