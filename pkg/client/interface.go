package client

import (
	"context"

	"github.com/menta2k/poeticapic/pkg/types"
)

// TextClient is a model server able to tag an image and complete a prompt.
type TextClient interface {
	Tags(ctx context.Context, model, prompt, imgB64 string) (*types.TagResult, error)
	Complete(ctx context.Context, model, prompt string) (string, error)
}
