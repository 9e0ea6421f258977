// Package poeticapic turns photographs into decorated cards: a cosmetic
// filter, an optional resize, a decorative border and a wrapped line of
// text, either typed in or generated from the picture by a model server.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/poeticapic"
//	)
//
//	func main() {
//		studio := poeticapic.New()
//		ctx := context.Background()
//
//		img, err := studio.LoadImage(ctx, "photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		req, err := studio.BuildRequest(poeticapic.Selection{
//			Filter: "Sepia",
//			Border: "Polaroids",
//			Text:   "Summer, at last",
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		res, err := studio.Process(ctx, img, req)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := studio.SaveImage(res.Image, "photo_modified.jpg"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The work is split over these packages:
//
//  1. Filter (pkg/filter): color, enhancement and convolution filters
//  2. Border (pkg/border): canvas expansion and margin patterns
//  3. Overlay (pkg/overlay): word wrap, anchoring and text drawing
//  4. Pipeline (pkg/pipeline): stage ordering and skip reporting
//  5. Caption (pkg/caption): tags and generated text from Ollama or llama.cpp
//  6. Image I/O (pkg/imageio): decoding, encoding and downloads
package poeticapic

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/menta2k/poeticapic/internal/config"
	"github.com/menta2k/poeticapic/internal/utils"
	"github.com/menta2k/poeticapic/pkg/border"
	"github.com/menta2k/poeticapic/pkg/caption"
	"github.com/menta2k/poeticapic/pkg/filter"
	"github.com/menta2k/poeticapic/pkg/imageio"
	"github.com/menta2k/poeticapic/pkg/overlay"
	"github.com/menta2k/poeticapic/pkg/pipeline"
	"github.com/menta2k/poeticapic/pkg/raster"
)

// Version of the poeticapic library
const Version = "1.0.0"

// Config is the application configuration.
type Config = config.Config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// Studio provides a high-level interface over the pipeline and image I/O.
type Studio struct {
	cfg      *Config
	codec    *imageio.Codec
	pipeline *pipeline.Pipeline
	texture  image.Image
	captions bool
}

// New creates a Studio with the default configuration and no caption backend.
func New() *Studio {
	s, err := NewWithConfig(DefaultConfig())
	if err != nil {
		// the default configuration is always valid
		panic(err)
	}
	return s
}

// NewWithConfig creates a Studio from cfg. The caption backend is built
// when cfg.Service.Backend is set and the wooden frame texture is loaded
// when cfg.Border.TexturePath is set.
func NewWithConfig(cfg *Config) (*Studio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Studio{cfg: cfg, codec: imageio.New()}

	var gen caption.Generator
	if cfg.Service.Backend != "" {
		svc, err := caption.New(cfg.Service)
		if err != nil {
			return nil, fmt.Errorf("caption backend: %w", err)
		}
		gen = svc
		s.captions = true
	}

	if cfg.Border.TexturePath != "" {
		tex, err := s.codec.Load(cfg.Border.TexturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load border texture: %w", err)
		}
		s.texture = tex
	}

	s.pipeline = pipeline.New(filter.NewWithOptions(cfg.Filter.Options), gen)
	return s, nil
}

// Config returns the configuration the studio was built with.
func (s *Studio) Config() *Config {
	return s.cfg
}

// CaptionsEnabled reports whether a caption backend is configured.
func (s *Studio) CaptionsEnabled() bool {
	return s.captions
}

// LoadImage loads an image from a file path or an http(s) URL. Empty
// images are rejected.
func (s *Studio) LoadImage(ctx context.Context, source string) (image.Image, error) {
	img, err := s.codec.LoadSmart(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := imageio.ValidateImage(img, 1); err != nil {
		return nil, err
	}
	return img, nil
}

// GetImageInfo returns basic information about an image
func (s *Studio) GetImageInfo(img image.Image) imageio.ImageInfo {
	return imageio.GetImageInfo(img)
}

// SaveImage writes img to path. The format follows the path extension,
// falling back to the configured default.
func (s *Studio) SaveImage(img image.Image, path string) error {
	format := utils.GetFileExtension(path)
	if _, err := imageio.NormalizeFormat(format); err != nil || format == "" {
		format = s.cfg.Output.DefaultFormat
	}
	return s.codec.Save(img, path, format, s.cfg.Output.Quality, s.cfg.Output.Lossless)
}

// Selection is what a user picks for one image. Empty fields disable the
// stage or, for text styling, fall back to the configuration.
type Selection struct {
	Filter string
	Border string

	Width  int
	Height int
	Kernel string
	Mode   string

	Text       string
	Generate   bool
	Kind       string
	Position   string
	FontPath   string
	FontSize   float64
	Color      string
	Background string
}

// BuildRequest resolves sel against the configuration. Names are passed
// through unchecked; run pipeline.Validate on the result to fail fast.
// Malformed colors are reported here.
func (s *Studio) BuildRequest(sel Selection) (pipeline.Request, error) {
	cfg := s.cfg
	req := pipeline.Request{
		Filter: filter.Name(sel.Filter),
		Border: border.Variant(sel.Border),
		BorderOptions: border.Options{
			PolaroidSideRatio: cfg.Border.PolaroidSideRatio,
			Texture:           s.texture,
		},
	}
	if cfg.Border.Seed != nil {
		req.BorderOptions.Seed, req.BorderOptions.Seeded = *cfg.Border.Seed, true
	}

	if sel.Width > 0 || sel.Height > 0 {
		req.Resize = &pipeline.Resize{
			Width:  sel.Width,
			Height: sel.Height,
			Kernel: or(sel.Kernel, cfg.Resize.Kernel),
			Mode:   pipeline.ResizeMode(or(sel.Mode, cfg.Resize.Mode)),
		}
	}

	if sel.Text != "" || sel.Generate {
		fg, err := raster.ParseHex(or(sel.Color, cfg.Text.Color))
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("text color: %w", err)
		}
		t := &pipeline.TextRequest{
			Text:      sel.Text,
			Generate:  sel.Generate,
			Kind:      caption.Kind(or(sel.Kind, cfg.Text.Kind)),
			Position:  overlay.Position(or(sel.Position, cfg.Text.Position)),
			WrapWidth: cfg.Text.WrapWidth,
			FontPath:  or(sel.FontPath, cfg.Text.FontPath),
			FontSize:  cfg.Text.FontSize,
			ClampSize: cfg.Text.ClampSize,
			Color:     fg,
		}
		if sel.FontSize > 0 {
			t.FontSize = sel.FontSize
		}
		if bg := or(sel.Background, cfg.Text.Background); bg != "" {
			c, err := raster.ParseHex(bg)
			if err != nil {
				return pipeline.Request{}, fmt.Errorf("text background: %w", err)
			}
			t.Background = &c
		}
		req.Text = t
	}
	return req, nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Process runs req on img.
func (s *Studio) Process(ctx context.Context, img image.Image, req pipeline.Request) (*pipeline.Result, error) {
	return s.pipeline.Run(ctx, img, req)
}

// OutputPath returns where ProcessFile writes the result for input.
func (s *Studio) OutputPath(input, outputDir string) string {
	if outputDir == "" {
		outputDir = s.cfg.Output.OutputDir
	}
	format, err := imageio.NormalizeFormat(s.cfg.Output.DefaultFormat)
	if err != nil {
		format = imageio.FormatJPEG
	}
	return utils.GenerateOutputFilename(input, outputDir, s.cfg.Output.Prefix, s.cfg.Output.Suffix, format)
}

// ProcessFile is a convenience function that loads, processes and saves an
// image. It returns the output path and the pipeline result.
func (s *Studio) ProcessFile(ctx context.Context, input, outputDir string, req pipeline.Request) (string, *pipeline.Result, error) {
	img, err := s.LoadImage(ctx, input)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load image: %w", err)
	}

	res, err := s.Process(ctx, img, req)
	if err != nil {
		return "", nil, fmt.Errorf("processing failed: %w", err)
	}

	out := s.OutputPath(input, outputDir)
	if err := s.SaveImage(res.Image, out); err != nil {
		return "", nil, fmt.Errorf("failed to save %s: %w", filepath.Base(out), err)
	}

	info := imageio.GetImageInfo(res.Image)
	fields := log.Fields{
		"input":   input,
		"output":  out,
		"size":    fmt.Sprintf("%dx%d", info.Width, info.Height),
		"skipped": len(res.Skipped),
	}
	if st, err := os.Stat(out); err == nil {
		fields["file_size"] = utils.FormatFileSize(st.Size())
	}
	log.WithFields(fields).Info("image processed")
	return out, res, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
