// Package overlay draws wrapped text onto an image at one of nine anchor
// positions, optionally over a solid background plate.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/poeticapic/pkg/raster"
)

// ErrInvalidPosition is returned for position keywords outside the vocabulary.
var ErrInvalidPosition = errors.New("invalid text position")

// Inset is the distance kept between the text box and the canvas edge.
const Inset = 10

// DefaultWrapWidth is the line length, in characters, used when a request
// leaves it unset.
const DefaultWrapWidth = 30

// Position is an anchor keyword.
type Position string

const (
	TopLeft      Position = "Top Left"
	TopCenter    Position = "Top Center"
	TopRight     Position = "Top Right"
	CenterLeft   Position = "Center Left"
	Center       Position = "Center"
	CenterRight  Position = "Center Right"
	BottomLeft   Position = "Bottom Left"
	BottomCenter Position = "Bottom Center"
	BottomRight  Position = "Bottom Right"
)

type align int

const (
	alignStart align = iota
	alignMiddle
	alignEnd
)

// anchors maps each keyword to its horizontal and vertical alignment.
var anchors = map[Position][2]align{
	TopLeft:      {alignStart, alignStart},
	TopCenter:    {alignMiddle, alignStart},
	TopRight:     {alignEnd, alignStart},
	CenterLeft:   {alignStart, alignMiddle},
	Center:       {alignMiddle, alignMiddle},
	CenterRight:  {alignEnd, alignMiddle},
	BottomLeft:   {alignStart, alignEnd},
	BottomCenter: {alignMiddle, alignEnd},
	BottomRight:  {alignEnd, alignEnd},
}

// Positions returns the vocabulary.
func Positions() []Position {
	return []Position{
		TopLeft, TopCenter, TopRight,
		CenterLeft, Center, CenterRight,
		BottomLeft, BottomCenter, BottomRight,
	}
}

// ParsePosition validates s against the vocabulary.
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if _, ok := anchors[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return p, nil
}

// Centered reports whether lines are centered one by one horizontally.
func (p Position) Centered() bool {
	return anchors[p][0] == alignMiddle
}

func place(a align, canvas, size int) int {
	switch a {
	case alignMiddle:
		return (canvas - size) / 2
	case alignEnd:
		return canvas - size - Inset
	default:
		return Inset
	}
}

// Resolve returns the top-left corner of a w x h box anchored at pos on a
// canvas of cw x ch.
func Resolve(pos Position, cw, ch, w, h int) (image.Point, error) {
	a, ok := anchors[pos]
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %q", ErrInvalidPosition, string(pos))
	}
	return image.Pt(place(a[0], cw, w), place(a[1], ch, h)), nil
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// Measure returns the width of the widest line and the total height of
// the block.
func Measure(face font.Face, lines []string) (w, h int) {
	for _, l := range lines {
		w = max(w, font.MeasureString(face, l).Ceil())
	}
	return w, len(lines) * lineHeight(face)
}

// Request describes one text overlay.
type Request struct {
	Text string
	// WrapWidth is the maximum line length in characters.
	WrapWidth int
	Position  Position
	// FontPath selects a TrueType/OpenType file; empty uses the embedded font.
	FontPath string
	FontSize float64
	// Face overrides FontPath and FontSize when set. Draw does not close it.
	Face  font.Face
	Color color.NRGBA
	// Background, when set, paints a plate behind the text.
	Background *color.NRGBA
}

// Layout reports where the text ended up.
type Layout struct {
	Lines  []string
	Origin image.Point
	Width  int
	Height int
	// Boxes are the per-line rectangles, in drawing order.
	Boxes []image.Rectangle
	// FontFallback is set when the requested font could not be loaded.
	FontFallback bool
}

// Draw renders req onto img in place. Lines of a horizontally centered
// position are centered individually and each gets its own plate; other
// positions are left aligned inside a single plate covering the block.
func Draw(img *image.NRGBA, req Request) (*Layout, error) {
	if img == nil {
		return nil, errors.New("overlay: nil image")
	}
	if _, ok := anchors[req.Position]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, string(req.Position))
	}
	width := req.WrapWidth
	if width <= 0 {
		width = DefaultWrapWidth
	}
	lines := Wrap(req.Text, width)
	layout := &Layout{Lines: lines}
	if len(lines) == 0 {
		return layout, nil
	}

	face := req.Face
	if face == nil {
		var fallback bool
		face, fallback = FaceOrFallback(req.FontPath, req.FontSize)
		layout.FontFallback = fallback
		defer face.Close()
	}

	b := img.Rect
	cw, ch := b.Dx(), b.Dy()
	layout.Width, layout.Height = Measure(face, lines)
	origin, err := Resolve(req.Position, cw, ch, layout.Width, layout.Height)
	if err != nil {
		return nil, err
	}
	layout.Origin = origin

	lh := lineHeight(face)
	for i, l := range lines {
		lw := font.MeasureString(face, l).Ceil()
		x := origin.X
		if req.Position.Centered() {
			x = place(alignMiddle, cw, lw)
		}
		layout.Boxes = append(layout.Boxes, image.Rect(x, origin.Y+i*lh, x+lw, origin.Y+(i+1)*lh))
	}

	if req.Background != nil {
		if req.Position.Centered() {
			for _, r := range layout.Boxes {
				raster.FillRect(img, r.Add(b.Min), *req.Background)
			}
		} else {
			block := image.Rect(origin.X, origin.Y, origin.X+layout.Width, origin.Y+layout.Height)
			raster.FillRect(img, block.Add(b.Min), *req.Background)
		}
	}

	fg := req.Color
	if fg == (color.NRGBA{}) {
		fg = color.NRGBA{0, 0, 0, 255}
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range lines {
		r := layout.Boxes[i].Add(b.Min)
		d.Dot = fixed.P(r.Min.X, r.Min.Y+ascent)
		d.DrawString(l)
	}

	log.WithFields(log.Fields{
		"position": req.Position,
		"color":    raster.Hex(fg),
		"lines":    len(lines),
		"x":        origin.X,
		"y":        origin.Y,
	}).Debug("text drawn")
	return layout, nil
}
