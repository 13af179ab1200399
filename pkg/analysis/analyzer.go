// Package analysis inspects images for composition and text-placement
// guidance used by downstream template steps.
package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Analyzer produces a structured description of an image. The result map is
// JSON-shaped: subject, dominant colors, suggested text regions.
type Analyzer interface {
	// Analyze accepts a data: URL or an http(s) URL.
	Analyze(ctx context.Context, imageURL string) (map[string]any, error)
}

const (
	defaultAnalysisModel = "claude-sonnet-4-5"

	analysisPrompt = `Analyze this image for use in a design template. Respond with a single JSON object, no prose, with these keys:
"subject" (string, the main subject),
"dominant_colors" (array of hex strings),
"brightness" (one of "dark", "medium", "light"),
"text_regions" (array of {"position": "top"|"center"|"bottom", "contrast": "low"|"high"}),
"focal_point" ({"x": 0-1, "y": 0-1}).`
)

// VisionAnalyzer implements Analyzer with a Claude vision call.
type VisionAnalyzer struct {
	sdk   anthropicsdk.Client
	model string
	http  *http.Client
}

// NewVisionAnalyzer creates an analyzer. The model can be overridden with
// the ANALYSIS_MODEL environment variable; the API key comes from
// ANTHROPIC_API_KEY.
func NewVisionAnalyzer() *VisionAnalyzer {
	model := os.Getenv("ANALYSIS_MODEL")
	if model == "" {
		model = defaultAnalysisModel
	}
	return &VisionAnalyzer{
		sdk:   anthropicsdk.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY"))),
		model: model,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze sends the image to the vision model and parses its JSON reply.
func (a *VisionAnalyzer) Analyze(ctx context.Context, imageURL string) (map[string]any, error) {
	mediaType, encoded, err := a.imagePayload(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	msg, err := a.sdk.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(
				anthropicsdk.NewImageBlockBase64(mediaType, encoded),
				anthropicsdk.NewTextBlock(analysisPrompt),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: vision call failed: %w", err)
	}

	var text strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}

	result, err := parseJSONObject(text.String())
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	return result, nil
}

// imagePayload turns the image reference into (mediaType, base64 data).
func (a *VisionAnalyzer) imagePayload(ctx context.Context, imageURL string) (string, string, error) {
	if rest, ok := strings.CutPrefix(imageURL, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return "", "", fmt.Errorf("analysis: malformed data URL")
		}
		mediaType := strings.TrimSuffix(meta, ";base64")
		if mediaType == "" {
			mediaType = "image/png"
		}
		return mediaType, payload, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("analysis: build download request: %w", err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("analysis: download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("analysis: download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("analysis: read image: %w", err)
	}

	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}
	return mediaType, base64.StdEncoding.EncodeToString(data), nil
}

// parseJSONObject extracts the first JSON object from the model's reply,
// tolerating surrounding prose or code fences.
func parseJSONObject(s string) (map[string]any, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	return out, nil
}
