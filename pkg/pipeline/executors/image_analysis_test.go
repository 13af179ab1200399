package executors_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/pipeline/executors"
)

func TestImageAnalysis_RemoteURLPassedThrough(t *testing.T) {
	t.Parallel()
	analyzer := &stubAnalyzer{result: map[string]any{"subject": "fox", "mood": "calm"}}
	e := &executors.ImageAnalysisExecutor{Store: newMemStore(), Analyzer: analyzer}

	out, err := e.Execute(t.Context(), node(pipeline.NodeTypeImageAnalysis, nil), map[string]any{
		"image": "https://cdn.example.com/a.png",
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if analyzer.lastURL != "https://cdn.example.com/a.png" {
		t.Errorf("analyzer URL = %q, want the remote URL unchanged", analyzer.lastURL)
	}
	if out["image"] != "https://cdn.example.com/a.png" {
		t.Errorf("image = %v, want original reference passed through", out["image"])
	}
	result, _ := out["analysis"].(map[string]any)
	if result["subject"] != "fox" {
		t.Errorf("analysis = %v", out["analysis"])
	}
}

func TestImageAnalysis_StoredPathBecomesDataURL(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	if _, err := store.Put("pipelines/acme/upload_aa.png", []byte("bytes")); err != nil {
		t.Fatal(err)
	}
	analyzer := &stubAnalyzer{result: map[string]any{}}
	e := &executors.ImageAnalysisExecutor{Store: store, Analyzer: analyzer}

	out, err := e.Execute(t.Context(), node(pipeline.NodeTypeImageAnalysis, nil), map[string]any{
		"image": "/storage/pipelines/acme/upload_aa.png",
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !strings.HasPrefix(analyzer.lastURL, "data:image/png;base64,") {
		t.Errorf("analyzer URL = %q, want data URL", analyzer.lastURL)
	}
	// The run output keeps the storage reference, not the inlined bytes.
	if out["image"] != "/storage/pipelines/acme/upload_aa.png" {
		t.Errorf("image = %v", out["image"])
	}
}

func TestImageAnalysis_MissingImage(t *testing.T) {
	t.Parallel()
	e := &executors.ImageAnalysisExecutor{Store: newMemStore(), Analyzer: &stubAnalyzer{}}

	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeImageAnalysis, nil), map[string]any{}, tenant())
	if err == nil || !strings.Contains(err.Error(), "image input") {
		t.Errorf("err = %v, want missing-image error", err)
	}
}

func TestImageAnalysis_AnalyzerErrorPropagates(t *testing.T) {
	t.Parallel()
	e := &executors.ImageAnalysisExecutor{
		Store:    newMemStore(),
		Analyzer: &stubAnalyzer{err: fmt.Errorf("vision model unavailable")},
	}

	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeImageAnalysis, nil), map[string]any{
		"image": "https://cdn.example.com/a.png",
	}, tenant())
	if err == nil || !strings.Contains(err.Error(), "vision model unavailable") {
		t.Errorf("err = %v, want analyzer error", err)
	}
}
