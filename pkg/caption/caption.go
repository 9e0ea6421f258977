// Package caption turns an image into a short generated text: a vision
// model tags the picture, the first tags seed a prompt, and a text model
// writes the caption.
package caption

import (
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/menta2k/poeticapic/pkg/client"
	"github.com/menta2k/poeticapic/pkg/imageio"
	"github.com/menta2k/poeticapic/pkg/types"
)

var (
	// ErrUpstream wraps every failure of the tagging or text service.
	ErrUpstream = errors.New("upstream service failure")
	// ErrNoTags is returned when the image yields no tags.
	ErrNoTags = errors.New("no tags for image")
	// ErrEmptyCaption is returned when the text service answers with nothing usable.
	ErrEmptyCaption = errors.New("empty caption")
)

// Kind is the flavour of text requested.
type Kind string

const (
	LifeQuote          Kind = "Life Quote"
	InspirationalQuote Kind = "Inspirational Quote"
	FunnyQuote         Kind = "Funny Quote"
	LoveQuote          Kind = "Love Quote"
	BirthdayQuote      Kind = "Birthday Quote"
	FriendshipQuote    Kind = "Friendship Quote"
	TwoLinePoetry      Kind = "Two Line Poetry"
)

// Kinds returns the text kinds in menu order.
func Kinds() []Kind {
	return []Kind{
		LifeQuote, InspirationalQuote, FunnyQuote, LoveQuote,
		BirthdayQuote, FriendshipQuote, TwoLinePoetry,
	}
}

// PromptTags is how many tags seed the prompt.
const PromptTags = 2

// TagPrompt asks a vision model for tags.
const TagPrompt = `List the main concepts visible in this image.

Return JSON only:
{"tags": ["tag1", "tag2", "tag3", "tag4", "tag5"]}

Order tags from most to least prominent. Tags are lowercase single words
or short phrases, no duplicates. No markdown, no code fences, no comments.`

// Generator is the narrow contract of the external tag and text service.
type Generator interface {
	ImageTags(ctx context.Context, img image.Image) ([]string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt builds the text request for kind from the first tags.
func BuildPrompt(kind Kind, tags []string) string {
	if len(tags) > PromptTags {
		tags = tags[:PromptTags]
	}
	return fmt.Sprintf(`generate me a tiny %s for "%s must only be a few words"`, kind, strings.Join(tags, " "))
}

var reQuoted = regexp.MustCompile(`"([^"]+)"`)

// CleanCaption reduces a model reply to the caption itself: the text after
// the first colon, narrowed to the first double-quoted span when there is one.
func CleanCaption(raw string) string {
	text := raw
	if _, after, ok := strings.Cut(text, ":"); ok {
		text = strings.TrimSpace(after)
	}
	if m := reQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// Service implements Generator on top of a model server.
type Service struct {
	client    client.TextClient
	tagModel  string
	textModel string
	tagPrompt string
	maxDim    int
}

// NewService creates a Service for the models named in cfg.
func NewService(c client.TextClient, cfg types.ServiceConfig) *Service {
	maxDim := cfg.MaxImageDim
	if maxDim <= 0 {
		maxDim = 768
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = cfg.TagModel
	}
	return &Service{
		client:    c,
		tagModel:  cfg.TagModel,
		textModel: textModel,
		tagPrompt: TagPrompt,
		maxDim:    maxDim,
	}
}

// ImageTags returns the tags of img, most prominent first.
func (s *Service) ImageTags(ctx context.Context, img image.Image) ([]string, error) {
	imgB64, err := imageio.PrepareForModel(img, "jpg", s.maxDim, 85)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	res, err := s.client.Tags(ctx, s.tagModel, s.tagPrompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("%w: tagging: %v", ErrUpstream, err)
	}
	log.WithFields(log.Fields{"model": s.tagModel, "tags": res.Tags}).Debug("image tagged")
	return res.Tags, nil
}

// GenerateText returns the cleaned completion of prompt.
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	raw, err := s.client.Complete(ctx, s.textModel, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: text: %v", ErrUpstream, err)
	}
	return CleanCaption(raw), nil
}

// Generate runs the whole flow for img. It fails with ErrNoTags or
// ErrEmptyCaption when a step yields nothing, and with ErrUpstream when the
// service fails.
func Generate(ctx context.Context, g Generator, img image.Image, kind Kind) (*types.Caption, error) {
	if kind == "" {
		kind = LifeQuote
	}
	tags, err := g.ImageTags(ctx, img)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrNoTags
	}

	c := &types.Caption{Kind: string(kind), Tags: tags, Prompt: BuildPrompt(kind, tags)}
	c.Text, err = g.GenerateText(ctx, c.Prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Text) == "" {
		return nil, ErrEmptyCaption
	}
	return c, nil
}
