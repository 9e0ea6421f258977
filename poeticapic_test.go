package poeticapic

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/poeticapic/internal/utils"
	"github.com/menta2k/poeticapic/pkg/border"
	"github.com/menta2k/poeticapic/pkg/caption"
	"github.com/menta2k/poeticapic/pkg/filter"
	"github.com/menta2k/poeticapic/pkg/imageio"
	"github.com/menta2k/poeticapic/pkg/overlay"
	"github.com/menta2k/poeticapic/pkg/pipeline"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{220, 180, 40, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 96, 128, 255})
			}
		}
	}
	return img
}

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.NotNil(t, s.pipeline)
	assert.NotNil(t, s.codec)
	assert.False(t, s.CaptionsEnabled())
	assert.Equal(t, DefaultConfig(), s.Config())
}

func TestNewWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Backend = caption.BackendOllama
	s, err := NewWithConfig(cfg)
	require.NoError(t, err)
	assert.True(t, s.CaptionsEnabled())

	cfg = DefaultConfig()
	cfg.Output.Quality = 0
	_, err = NewWithConfig(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Border.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	_, err = NewWithConfig(cfg)
	assert.Error(t, err)
}

func TestNewWithConfigLoadsTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wood.png")
	require.NoError(t, imageio.New().Save(createTestImage(8, 8), path, imageio.FormatPNG, 0, false))

	cfg := DefaultConfig()
	cfg.Border.TexturePath = path
	s, err := NewWithConfig(cfg)
	require.NoError(t, err)

	req, err := s.BuildRequest(Selection{Border: string(border.Wooden)})
	require.NoError(t, err)
	require.NotNil(t, req.BorderOptions.Texture)
	require.NoError(t, pipeline.Validate(req))

	res, err := s.Process(context.Background(), createTestImage(60, 40), req)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Greater(t, res.Image.Bounds().Dx(), 60)
}

func TestBuildRequestDefaults(t *testing.T) {
	s := New()
	req, err := s.BuildRequest(Selection{Filter: "Sepia", Border: "Polaroids", Text: "hello"})
	require.NoError(t, err)

	assert.Equal(t, filter.Sepia, req.Filter)
	assert.Equal(t, border.Polaroid, req.Border)
	assert.Nil(t, req.Resize)
	assert.False(t, req.BorderOptions.Seeded)
	require.NotNil(t, req.Text)
	assert.Equal(t, overlay.BottomCenter, req.Text.Position)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, req.Text.Color)
	assert.Nil(t, req.Text.Background)
	assert.Equal(t, 15.0, req.Text.FontSize)
	assert.True(t, req.Text.ClampSize)
	assert.Equal(t, overlay.DefaultWrapWidth, req.Text.WrapWidth)
	assert.Equal(t, caption.LifeQuote, req.Text.Kind)
}

func TestBuildRequestOverrides(t *testing.T) {
	cfg := DefaultConfig()
	seed := uint64(7)
	cfg.Border.Seed = &seed
	s, err := NewWithConfig(cfg)
	require.NoError(t, err)

	req, err := s.BuildRequest(Selection{
		Width:      50,
		Mode:       string(pipeline.Fit),
		Generate:   true,
		Kind:       string(caption.FunnyQuote),
		Position:   string(overlay.TopLeft),
		FontSize:   11,
		Color:      "#102030",
		Background: "#000000",
	})
	require.NoError(t, err)

	assert.True(t, req.BorderOptions.Seeded)
	assert.Equal(t, uint64(7), req.BorderOptions.Seed)
	require.NotNil(t, req.Resize)
	assert.Equal(t, 50, req.Resize.Width)
	assert.Equal(t, pipeline.Fit, req.Resize.Mode)
	assert.Equal(t, pipeline.DefaultKernel, req.Resize.Kernel)
	require.NotNil(t, req.Text)
	assert.True(t, req.Text.Generate)
	assert.Equal(t, caption.FunnyQuote, req.Text.Kind)
	assert.Equal(t, overlay.TopLeft, req.Text.Position)
	assert.Equal(t, 11.0, req.Text.FontSize)
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 255}, req.Text.Color)
	require.NotNil(t, req.Text.Background)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, *req.Text.Background)
}

func TestBuildRequestBadColor(t *testing.T) {
	s := New()
	_, err := s.BuildRequest(Selection{Text: "x", Color: "red"})
	assert.Error(t, err)
	_, err = s.BuildRequest(Selection{Text: "x", Background: "#12"})
	assert.Error(t, err)

	// colors are only parsed for the text stage
	_, err = s.BuildRequest(Selection{Color: "red"})
	assert.NoError(t, err)
}

func TestProcess(t *testing.T) {
	s := New()
	img := createTestImage(200, 200)
	req, err := s.BuildRequest(Selection{Filter: "Black & White", Border: "Polaroid", Text: "A day at the sea"})
	require.NoError(t, err)

	res, err := s.Process(context.Background(), img, req)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 208, res.Image.Bounds().Dx())
	assert.Equal(t, 254, res.Image.Bounds().Dy())
	require.NotNil(t, res.Layout)
	assert.False(t, res.FontFallback())
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "beach.png")
	require.NoError(t, imageio.New().Save(createTestImage(120, 90), input, imageio.FormatPNG, 0, false))

	s := New()
	req, err := s.BuildRequest(Selection{Filter: "Sepia"})
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	out, res, err := s.ProcessFile(context.Background(), input, outDir, req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "beach_modified.jpg"), out)
	assert.Equal(t, s.OutputPath(input, outDir), out)
	assert.True(t, utils.FileExists(out))
	assert.Equal(t, 120, res.Image.Bounds().Dx())

	saved, err := s.LoadImage(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 90), saved.Bounds())

	_, _, err = s.ProcessFile(context.Background(), filepath.Join(dir, "missing.png"), outDir, req)
	assert.Error(t, err)
}

func TestProcessFileLogsOutputSize(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	dir := t.TempDir()
	input := filepath.Join(dir, "pier.png")
	require.NoError(t, imageio.New().Save(createTestImage(64, 48), input, imageio.FormatPNG, 0, false))

	s := New()
	req, err := s.BuildRequest(Selection{Border: string(border.Framed)})
	require.NoError(t, err)
	out, _, err := s.ProcessFile(context.Background(), input, dir, req)
	require.NoError(t, err)

	st, err := os.Stat(out)
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "image processed", entry.Message)
	assert.Equal(t, utils.FormatFileSize(st.Size()), entry.Data["file_size"])
	assert.Equal(t, "74x58", entry.Data["size"])
}

func TestSaveImageFormat(t *testing.T) {
	dir := t.TempDir()
	s := New()
	img := createTestImage(10, 10)

	require.NoError(t, s.SaveImage(img, filepath.Join(dir, "a.png")))
	require.NoError(t, s.SaveImage(img, filepath.Join(dir, "b.webp")))
	assert.True(t, utils.FileExists(filepath.Join(dir, "a.png")))
	assert.True(t, utils.FileExists(filepath.Join(dir, "b.webp")))
}

func TestGetImageInfo(t *testing.T) {
	info := New().GetImageInfo(createTestImage(40, 20))
	assert.Equal(t, 40, info.Width)
	assert.Equal(t, 20, info.Height)
	assert.InDelta(t, 2.0, info.AspectRatio, 1e-9)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
