package caption

import (
	"errors"
	"fmt"
	"time"

	"github.com/menta2k/poeticapic/pkg/client"
	"github.com/menta2k/poeticapic/pkg/llamacpp"
	"github.com/menta2k/poeticapic/pkg/ollama"
	"github.com/menta2k/poeticapic/pkg/types"
)

// Backend names.
const (
	BackendOllama   = "ollama"
	BackendLlamaCpp = "llamacpp"
)

// ErrNoBackend is returned when captions are requested but no backend is configured.
var ErrNoBackend = errors.New("no caption backend configured")

// NewClient builds the model server client selected by cfg.Backend.
func NewClient(cfg types.ServiceConfig) (client.TextClient, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Backend {
	case "":
		return nil, ErrNoBackend
	case BackendOllama:
		c, err := ollama.NewClient(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("ollama: %w", err)
		}
		c.SetTimeout(timeout)
		return c, nil
	case BackendLlamaCpp:
		c, err := llamacpp.NewClient(cfg.URL, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("llamacpp: %w", err)
		}
		c.SetTimeout(timeout)
		return c, nil
	default:
		return nil, fmt.Errorf("unknown caption backend %q (use %s or %s)", cfg.Backend, BackendOllama, BackendLlamaCpp)
	}
}

// New builds a Service for cfg.
func New(cfg types.ServiceConfig) (*Service, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewService(c, cfg), nil
}

// ParseKind validates s against the text kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown text kind %q", s)
}
