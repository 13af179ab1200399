// Package providers registers image generation provider adapters.
// Import this package with a blank identifier to activate all providers:
//
//	import _ "github.com/studiokit/canvasflow/pkg/imagegen/providers"
package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/studiokit/canvasflow/pkg/imagegen"
)

func init() {
	imagegen.RegisterProvider("openai", func(model string) (imagegen.Client, error) {
		return newOpenAIClient(model)
	})
}

type openaiClient struct {
	sdk   *openai.Client
	model string
}

func newOpenAIClient(model string) (*openaiClient, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("openai: OPENAI_API_KEY environment variable not set")
	}
	return &openaiClient{sdk: openai.NewClient(key), model: model}, nil
}

// modelName extracts the OpenAI model name from a full identifier such as
// "openai/gpt-image-1/text-to-image".
func (c *openaiClient) modelName() string {
	parts := strings.Split(c.model, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return "gpt-image-1"
}

// FromPrompt performs prompt-only generation with automatic retry on
// transient errors.
func (c *openaiClient) FromPrompt(ctx context.Context, prompt string, opts imagegen.Options) (imagegen.Result, error) {
	var result imagegen.Result
	err := imagegen.WithRetry(ctx, 4, func() error {
		var innerErr error
		result, innerErr = c.doGenerate(ctx, prompt, opts)
		return innerErr
	})
	return result, err
}

func (c *openaiClient) doGenerate(ctx context.Context, prompt string, opts imagegen.Options) (imagegen.Result, error) {
	size := opts.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	resp, err := c.sdk.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.modelName(),
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return imagegen.Result{}, mapOpenAIError(err)
	}
	return decodeB64Response(resp)
}

// FromImage performs an image edit guided by the prompt. The source image
// must be a data: URL or raw base64 payload.
func (c *openaiClient) FromImage(ctx context.Context, prompt, imageURL string, opts imagegen.Options) (imagegen.Result, error) {
	var result imagegen.Result
	err := imagegen.WithRetry(ctx, 4, func() error {
		var innerErr error
		result, innerErr = c.doEdit(ctx, prompt, imageURL, opts)
		return innerErr
	})
	return result, err
}

func (c *openaiClient) doEdit(ctx context.Context, prompt, imageURL string, opts imagegen.Options) (imagegen.Result, error) {
	data, err := decodeDataURL(imageURL)
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("openai: source image: %w", err)
	}

	// The edits endpoint takes a file upload.
	f, err := os.CreateTemp("", "canvasflow-edit-*.png")
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("openai: temp image: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()
	if _, err := f.Write(data); err != nil {
		return imagegen.Result{}, fmt.Errorf("openai: temp image: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return imagegen.Result{}, fmt.Errorf("openai: temp image: %w", err)
	}

	size := opts.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	resp, err := c.sdk.CreateEditImage(ctx, openai.ImageEditRequest{
		Image:  f,
		Prompt: prompt,
		Model:  c.modelName(),
		N:      1,
		Size:   size,
	})
	if err != nil {
		return imagegen.Result{}, mapOpenAIError(err)
	}
	return decodeB64Response(resp)
}

func decodeB64Response(resp openai.ImageResponse) (imagegen.Result, error) {
	if len(resp.Data) == 0 {
		return imagegen.Result{}, fmt.Errorf("openai: empty image response")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("openai: decode image: %w", err)
	}
	return imagegen.Result{Data: data, MediaType: "image/png"}, nil
}

// decodeDataURL extracts the payload bytes from a data: URL; a bare base64
// string is accepted too.
func decodeDataURL(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		_, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		base := imagegen.GenError{Code: apiErr.HTTPStatusCode, Message: apiErr.Message, Cause: err}
		switch apiErr.HTTPStatusCode {
		case 429:
			return &imagegen.RateLimitError{GenError: base}
		case 401, 403:
			return &imagegen.AuthError{GenError: base}
		case 400:
			if strings.Contains(strings.ToLower(apiErr.Message), "safety") {
				return &imagegen.ContentFilterError{GenError: base}
			}
			return &base
		case 500, 502, 503:
			return &imagegen.ServerError{GenError: base}
		}
		return &base
	}
	return &imagegen.GenError{Message: "request failed", Cause: err}
}
