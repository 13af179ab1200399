package imagegen_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studiokit/canvasflow/pkg/imagegen"
)

func TestProviderFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		model string
		want  string
	}{
		{"openai/gpt-image-1/text-to-image", "openai"},
		{"openai/gpt-image-1.5/edit", "openai"},
		{"google/nano-banana/text-to-image", "wavespeed"},
		{"alibaba/wan-2.6/text-to-image", "wavespeed"},
		{"bytedance/dreamina-v3.0/edit", "wavespeed"},
		{"wavespeed-ai/qwen-image/text-to-image", "wavespeed"},
		{"", "wavespeed"},
	}
	for _, tt := range tests {
		if got := imagegen.ProviderFor(tt.model); got != tt.want {
			t.Errorf("ProviderFor(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestResolveEditModel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		t2i  string
		want string
	}{
		{"google/nano-banana/text-to-image", "google/nano-banana/edit"},
		{"openai/gpt-image-1/text-to-image", "openai/gpt-image-1-mini/edit"},
		{"alibaba/wan-2.5/text-to-image", "alibaba/wan-2.5/image-edit"},
		{"", imagegen.DefaultEditModel},
		{"unknown/model/text-to-image", imagegen.DefaultEditModel},
	}
	for _, tt := range tests {
		if got := imagegen.ResolveEditModel(tt.t2i); got != tt.want {
			t.Errorf("ResolveEditModel(%q) = %q, want %q", tt.t2i, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()
	rl := &imagegen.RateLimitError{GenError: imagegen.GenError{Code: 429, Message: "slow down"}}
	srv := &imagegen.ServerError{GenError: imagegen.GenError{Code: 503, Message: "unavailable"}}
	auth := &imagegen.AuthError{GenError: imagegen.GenError{Code: 401, Message: "bad key"}}
	filter := &imagegen.ContentFilterError{GenError: imagegen.GenError{Code: 400, Message: "blocked"}}

	if !imagegen.Retryable(rl) || !imagegen.Retryable(srv) {
		t.Error("rate limit and server errors should be retryable")
	}
	if imagegen.Retryable(auth) || imagegen.Retryable(filter) {
		t.Error("auth and content filter errors should not be retryable")
	}
	if imagegen.Retryable(errors.New("plain")) {
		t.Error("plain errors should not be retryable")
	}

	wrapped := fmt.Errorf("generation failed: %w", rl)
	if !imagegen.Retryable(wrapped) {
		t.Error("Retryable should unwrap")
	}
}

func TestWithRetry_SucceedsAfterTransientFailure(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := imagegen.WithRetry(t.Context(), 4, func() error {
		attempts++
		if attempts < 2 {
			return &imagegen.ServerError{GenError: imagegen.GenError{Code: 500, Message: "hiccup"}}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	t.Parallel()
	attempts := 0
	permanent := &imagegen.AuthError{GenError: imagegen.GenError{Code: 401, Message: "bad key"}}

	err := imagegen.WithRetry(t.Context(), 4, func() error {
		attempts++
		return permanent
	})
	var authErr *imagegen.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := imagegen.WithRetry(ctx, 4, func() error {
		return &imagegen.RateLimitError{GenError: imagegen.GenError{Code: 429, Message: "slow down"}}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGenError_Message(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection reset")
	e := &imagegen.GenError{Code: 502, Message: "bad gateway", Cause: cause}

	if !errors.Is(e, cause) {
		t.Error("GenError should unwrap to its cause")
	}
	msg := e.Error()
	if msg == "" || !errors.Is(e, cause) {
		t.Errorf("Error() = %q", msg)
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	// No provider package is imported by these tests, so the registry has
	// no wavespeed entry and construction must fail loudly.
	_, err := imagegen.NewClient("google/nano-banana/text-to-image")
	if err == nil {
		t.Fatal("expected error with no providers registered")
	}
}
