// Package answers wraps the external generative answer engines behind a
// single ask-a-question contract. The provider name is part of the
// persisted intelligence key, so two providers never overwrite each
// other's measurements.
package answers

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
)

// Supported provider names.
const (
	ProviderPerplexity = "perplexity"
	ProviderAnthropic  = "anthropic"
)

// Client asks the answer engine one question and returns its raw text.
type Client interface {
	Ask(ctx context.Context, systemInstruction, prompt string) (string, error)
	// Provider identifies the backend; persisted as model_provider.
	Provider() string
	// Configured reports whether a usable credential is present. An
	// unconfigured client is a skip signal, not an error.
	Configured() bool
}

// Option configures a client.
type Option func(*options)

type options struct {
	baseURL   string
	model     string
	maxTokens int
	http      *http.Client
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithMaxTokens overrides the default completion token cap.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

// WithHTTPClient overrides the default http.Client (Perplexity backend only).
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.http = hc
	}
}

// New creates a client for the named provider. An empty key is allowed and
// yields an unconfigured client.
func New(provider, key string, opts ...Option) (Client, error) {
	switch provider {
	case "", ProviderPerplexity:
		return NewPerplexity(key, opts...), nil
	case ProviderAnthropic:
		return NewAnthropic(key, opts...), nil
	default:
		return nil, eris.Errorf("answers: unknown provider %q", provider)
	}
}
