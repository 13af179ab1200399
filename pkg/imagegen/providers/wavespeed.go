package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/studiokit/canvasflow/pkg/imagegen"
)

const (
	wavespeedAPIBase      = "https://api.wavespeed.ai/api/v3"
	wavespeedPollInterval = 2 * time.Second
	wavespeedMaxPolls     = 30
)

func init() {
	imagegen.RegisterProvider("wavespeed", func(model string) (imagegen.Client, error) {
		return newWavespeedClient(model)
	})
}

// wavespeedClient calls the WaveSpeed gateway, which hosts the google,
// alibaba, bytedance and wavespeed-ai model families behind a single
// submit-then-poll prediction API.
type wavespeedClient struct {
	apiKey string
	base   string
	model  string
	http   *http.Client
}

func newWavespeedClient(model string) (*wavespeedClient, error) {
	key := os.Getenv("WAVESPEED_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("wavespeed: WAVESPEED_API_KEY environment variable not set")
	}
	base := os.Getenv("WAVESPEED_API_BASE")
	if base == "" {
		base = wavespeedAPIBase
	}
	if model == "" {
		model = imagegen.DefaultGenerateModel
	}
	return &wavespeedClient{
		apiKey: key,
		base:   base,
		model:  model,
		http:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *wavespeedClient) FromPrompt(ctx context.Context, prompt string, opts imagegen.Options) (imagegen.Result, error) {
	return c.generate(ctx, map[string]any{"prompt": prompt}, opts)
}

func (c *wavespeedClient) FromImage(ctx context.Context, prompt, imageURL string, opts imagegen.Options) (imagegen.Result, error) {
	return c.generate(ctx, map[string]any{
		"prompt": prompt,
		"images": []string{imageURL},
	}, opts)
}

func (c *wavespeedClient) generate(ctx context.Context, payload map[string]any, opts imagegen.Options) (imagegen.Result, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	if opts.Size != "" {
		payload["size"] = opts.Size
	}

	var result imagegen.Result
	err := imagegen.WithRetry(ctx, 4, func() error {
		jobID, err := c.createJob(ctx, model, payload)
		if err != nil {
			return err
		}
		outputURL, err := c.pollForResult(ctx, jobID)
		if err != nil {
			return err
		}
		data, err := c.download(ctx, outputURL)
		if err != nil {
			return err
		}
		result = imagegen.Result{Data: data, MediaType: "image/png"}
		return nil
	})
	return result, err
}

type wavespeedEnvelope struct {
	Data struct {
		ID      string   `json:"id"`
		Status  string   `json:"status"`
		Outputs []string `json:"outputs"`
		Error   string   `json:"error"`
	} `json:"data"`
	Message string `json:"message"`
}

// createJob submits a prediction and returns its job ID.
func (c *wavespeedClient) createJob(ctx context.Context, model string, payload map[string]any) (string, error) {
	env, err := c.call(ctx, http.MethodPost, c.base+"/"+model, payload)
	if err != nil {
		return "", err
	}
	if env.Data.ID == "" {
		return "", &imagegen.GenError{Message: "wavespeed: job submission returned no id"}
	}
	return env.Data.ID, nil
}

// pollForResult polls the prediction until it completes or the attempt
// budget is exhausted.
func (c *wavespeedClient) pollForResult(ctx context.Context, jobID string) (string, error) {
	for range wavespeedMaxPolls {
		env, err := c.call(ctx, http.MethodGet, c.base+"/predictions/"+jobID+"/result", nil)
		if err != nil {
			return "", err
		}
		switch env.Data.Status {
		case "completed":
			if len(env.Data.Outputs) == 0 {
				return "", &imagegen.GenError{Message: "wavespeed: completed job has no outputs"}
			}
			return env.Data.Outputs[0], nil
		case "failed":
			return "", &imagegen.GenError{Message: fmt.Sprintf("wavespeed: generation failed: %s", env.Data.Error)}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wavespeedPollInterval):
		}
	}
	return "", &imagegen.GenError{Message: fmt.Sprintf("wavespeed: job %s did not complete in time", jobID)}
}

func (c *wavespeedClient) call(ctx context.Context, method, url string, payload map[string]any) (*wavespeedEnvelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("wavespeed: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("wavespeed: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &imagegen.GenError{Message: "wavespeed: request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wavespeed: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapWavespeedStatus(resp.StatusCode, raw)
	}

	var env wavespeedEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wavespeed: decode response: %w", err)
	}
	return &env, nil
}

func (c *wavespeedClient) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wavespeed: build download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &imagegen.GenError{Message: "wavespeed: download failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, &imagegen.GenError{Code: resp.StatusCode, Message: "wavespeed: download failed"}
	}
	return io.ReadAll(resp.Body)
}

func mapWavespeedStatus(code int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200] + "…"
	}
	base := imagegen.GenError{Code: code, Message: "wavespeed: " + msg}
	switch {
	case code == 429:
		return &imagegen.RateLimitError{GenError: base}
	case code == 401 || code == 403:
		return &imagegen.AuthError{GenError: base}
	case code >= 500:
		return &imagegen.ServerError{GenError: base}
	}
	return &base
}
