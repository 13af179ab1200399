// Package imagegen provides a provider-agnostic client for AI image
// generation. Providers register themselves by name; models are addressed
// by slash-separated identifiers such as "openai/gpt-image-1/text-to-image"
// or "google/nano-banana/edit", where the first segment selects the
// provider family.
package imagegen

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Result is a generated image.
type Result struct {
	Data      []byte
	MediaType string
}

// Options tune a generation request.
type Options struct {
	// Model is the full model identifier. Empty selects the provider default.
	Model string
	// Size is the output size hint, e.g. "1024x1024".
	Size string
}

// Client is the provider-agnostic image generation interface.
type Client interface {
	// FromPrompt performs prompt-only (text-to-image) generation.
	FromPrompt(ctx context.Context, prompt string, opts Options) (Result, error)
	// FromImage performs image-to-image generation. The source image is a
	// URL or data: URL.
	FromImage(ctx context.Context, prompt, imageURL string, opts Options) (Result, error)
}

// ProviderFactory creates a Client for a model within a provider family.
type ProviderFactory func(model string) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFactory{}
)

// RegisterProvider registers a factory for a named provider family.
// Call this from init() in provider packages.
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewClient constructs a Client for the given model identifier.
func NewClient(model string) (Client, error) {
	provider := ProviderFor(model)
	registryMu.RLock()
	factory, ok := registry[provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q (model %q): import the providers package", provider, model)
	}
	return factory(model)
}

// ProviderFor maps a model identifier to its provider family. OpenAI models
// are called directly; every other family (google, alibaba, bytedance,
// wavespeed-ai) is hosted by the WaveSpeed gateway.
func ProviderFor(model string) string {
	if model == "" {
		return "wavespeed"
	}
	if family, _, ok := strings.Cut(model, "/"); ok && family == "openai" {
		return "openai"
	}
	return "wavespeed"
}
