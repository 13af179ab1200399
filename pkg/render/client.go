package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultRendererURL = "http://template-renderer:3336"
	defaultTimeout     = 60 * time.Second
	defaultScale       = 2
)

// Client calls the template-renderer service, which rasterises a canvas
// description into a PNG.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a renderer client. An empty baseURL falls back to the
// TEMPLATE_RENDERER_URL environment variable, then the in-cluster default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TEMPLATE_RENDERER_URL")
	}
	if baseURL == "" {
		baseURL = defaultRendererURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type renderRequest struct {
	Template map[string]any `json:"template"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Scale    int            `json:"scale"`
}

// Render rasterises the canvas at its declared size and returns PNG bytes.
func (c *Client) Render(ctx context.Context, canvas map[string]any) ([]byte, error) {
	width, height := CanvasSize(canvas)

	body, err := json.Marshal(renderRequest{
		Template: canvas,
		Width:    width,
		Height:   height,
		Scale:    defaultScale,
	})
	if err != nil {
		return nil, fmt.Errorf("render: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render-vue", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("render: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("render: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render: renderer returned %d: %s", resp.StatusCode, truncateBody(data))
	}
	return data, nil
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
