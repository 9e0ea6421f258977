// Package pipeline chains the filter, resize, border and text stages.
//
// Stages always run in that order and each one is optional. A stage that
// cannot run because of an invalid selection is skipped: the image passes
// through unchanged and the error is reported in Result.Skipped. Callers
// that prefer to fail fast run Validate first.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/menta2k/poeticapic/pkg/border"
	"github.com/menta2k/poeticapic/pkg/caption"
	"github.com/menta2k/poeticapic/pkg/filter"
	"github.com/menta2k/poeticapic/pkg/overlay"
	"github.com/menta2k/poeticapic/pkg/types"
)

// Stage names used in logs and StageError.
const (
	StageFilter = "filter"
	StageResize = "resize"
	StageBorder = "border"
	StageText   = "text"
)

// StageError records why a stage was skipped.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TextRequest configures the text stage.
type TextRequest struct {
	// Text is drawn as is. When empty and Generate is set, a caption is
	// generated from the image instead.
	Text     string
	Generate bool
	Kind     caption.Kind

	Position  overlay.Position
	WrapWidth int
	FontPath  string
	FontSize  float64
	// ClampSize limits FontSize to the range offered for the canvas size.
	ClampSize  bool
	Color      color.NRGBA
	Background *color.NRGBA
}

// Request selects the stages to run. Zero values disable a stage.
type Request struct {
	Filter        filter.Name
	Resize        *Resize
	Border        border.Variant
	BorderOptions border.Options
	Text          *TextRequest
}

// Result is the outcome of one run.
type Result struct {
	Image *image.NRGBA
	// Skipped holds one *StageError per stage that did not run.
	Skipped []error
	// Caption is set when the text was generated.
	Caption *types.Caption
	// Layout is set when text was drawn.
	Layout *overlay.Layout
}

// FontFallback reports whether the text was drawn with the fallback face.
func (r *Result) FontFallback() bool {
	return r.Layout != nil && r.Layout.FontFallback
}

// Pipeline runs requests against a filter engine and an optional caption
// generator.
type Pipeline struct {
	filters  *filter.Engine
	captions caption.Generator
}

// New creates a Pipeline. A nil engine uses the default filter options and
// a nil generator disables caption generation.
func New(filters *filter.Engine, captions caption.Generator) *Pipeline {
	if filters == nil {
		filters = filter.New()
	}
	return &Pipeline{filters: filters, captions: captions}
}

// Validate checks every selection in req and reports all invalid ones.
func Validate(req Request) error {
	var errs []error
	if req.Filter != "" {
		if _, err := filter.Parse(string(req.Filter)); err != nil {
			errs = append(errs, err)
		}
	}
	if req.Resize != nil {
		if err := req.Resize.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if req.Border != "" {
		v, err := border.Parse(string(req.Border))
		switch {
		case err != nil:
			errs = append(errs, err)
		case v == border.Wooden && req.BorderOptions.Texture == nil:
			errs = append(errs, border.ErrMissingTexture)
		}
	}
	if t := req.Text; t != nil && (t.Text != "" || t.Generate) {
		if _, err := overlay.ParsePosition(string(t.Position)); err != nil {
			errs = append(errs, err)
		}
		if t.Text == "" && t.Kind != "" {
			if _, err := caption.ParseKind(string(t.Kind)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Run applies req to img. The input image is never modified. Only a nil
// image or a cancelled context make Run fail; stage problems are reported
// in Result.Skipped.
func (p *Pipeline) Run(ctx context.Context, img image.Image, req Request) (*Result, error) {
	if img == nil {
		return nil, errors.New("pipeline: nil image")
	}
	original := img
	res := &Result{Image: imaging.Clone(img)}

	skip := func(stage string, err error) {
		log.WithField("stage", stage).WithError(err).Warn("stage skipped")
		res.Skipped = append(res.Skipped, &StageError{Stage: stage, Err: err})
	}

	if req.Filter != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := p.filters.Apply(res.Image, req.Filter)
		if err != nil {
			skip(StageFilter, err)
		} else {
			res.Image = out
		}
	}

	if req.Resize != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := req.Resize.Apply(res.Image)
		if err != nil {
			skip(StageResize, err)
		} else {
			res.Image = out
		}
	}

	if req.Border != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := res.Image.Bounds()
		spec, err := border.NewSpec(req.Border, b.Dx(), b.Dy(), req.BorderOptions)
		if err == nil {
			var out *image.NRGBA
			if out, err = border.Apply(res.Image, spec); err == nil {
				res.Image = out
			}
		}
		if err != nil {
			skip(StageBorder, err)
		}
	}

	if req.Text != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.drawText(ctx, original, res, req.Text); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			skip(StageText, err)
		}
	}
	return res, nil
}

func (p *Pipeline) drawText(ctx context.Context, original image.Image, res *Result, t *TextRequest) error {
	text := t.Text
	if text == "" {
		if !t.Generate {
			return nil
		}
		if _, err := overlay.ParsePosition(string(t.Position)); err != nil {
			return err
		}
		if p.captions == nil {
			return caption.ErrNoBackend
		}
		c, err := caption.Generate(ctx, p.captions, original, t.Kind)
		if err != nil {
			return err
		}
		res.Caption = c
		text = c.Text
	}

	size := t.FontSize
	if t.ClampSize {
		b := res.Image.Bounds()
		size = overlay.ClampFontSize(size, b.Dx(), b.Dy())
	}
	layout, err := overlay.Draw(res.Image, overlay.Request{
		Text:       text,
		WrapWidth:  t.WrapWidth,
		Position:   t.Position,
		FontPath:   t.FontPath,
		FontSize:   size,
		Color:      t.Color,
		Background: t.Background,
	})
	if err != nil {
		return err
	}
	res.Layout = layout
	return nil
}

// String describes the request for logs.
func (r Request) String() string {
	s := fmt.Sprintf("filter=%q border=%q", r.Filter, r.Border)
	if r.Resize != nil {
		s += fmt.Sprintf(" resize=%dx%d/%s/%s", r.Resize.Width, r.Resize.Height, r.Resize.Mode, r.Resize.Kernel)
	}
	if r.Text != nil {
		s += fmt.Sprintf(" text=%q generate=%t position=%q", r.Text.Text, r.Text.Generate, r.Text.Position)
	}
	return s
}
