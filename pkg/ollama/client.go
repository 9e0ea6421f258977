package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/menta2k/poeticapic/pkg/client"
	"github.com/menta2k/poeticapic/pkg/types"
)

// DefaultTimeout bounds a request whose context carries no deadline.
const DefaultTimeout = 300 * time.Second

var _ client.TextClient = (*Client)(nil)

// Client wraps the Ollama API client
type Client struct {
	client  *api.Client
	timeout time.Duration
}

// NewClient creates a new Ollama client
func NewClient(ollamaURL string) (*Client, error) {
	return NewClientWithHTTP(ollamaURL, http.DefaultClient)
}

// NewClientWithHTTP creates a client that talks through hc.
func NewClientWithHTTP(ollamaURL string, hc *http.Client) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", ollamaURL)
	}

	// Drop any path such as /api/chat; the SDK adds its own.
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}
	return &Client{client: api.NewClient(baseURL, hc), timeout: DefaultTimeout}, nil
}

// SetTimeout changes the per request timeout. Non-positive values are ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func modelOptions(model string) map[string]any {
	options := map[string]any{}
	m := strings.ToLower(model)
	if strings.Contains(m, "minicpm-v") || strings.Contains(m, "llava") {
		options["temperature"] = 0.2
		options["num_ctx"] = 4096
	}
	return options
}

// Tags asks a vision model for the tags of a base64 encoded image.
func (c *Client) Tags(ctx context.Context, model, prompt, imgB64 string) (*types.TagResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream:  &streamFalse,
		Format:  json.RawMessage(`"json"`),
		Options: modelOptions(model),
	}

	var content strings.Builder
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}
	if content.Len() == 0 {
		return nil, fmt.Errorf("empty response from ollama")
	}
	return client.ParseTags(content.String()), nil
}

// Complete generates a text completion for prompt.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	streamFalse := false
	req := &api.GenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  &streamFalse,
		Options: map[string]any{"temperature": 0.8},
	}

	var out strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate error: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
