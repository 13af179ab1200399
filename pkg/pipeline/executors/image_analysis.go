package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/analysis"
	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/storage"
)

// ImageAnalysisExecutor runs the connected image through the analyzer and
// passes the image reference through alongside the structured result.
type ImageAnalysisExecutor struct {
	Store    storage.Store
	Analyzer analysis.Analyzer
}

func (e *ImageAnalysisExecutor) Execute(ctx context.Context, _ *pipeline.Node, inputs map[string]any, _ *pipeline.Tenant) (map[string]any, error) {
	imageRef := stringInput(inputs, "image")
	if imageRef == "" {
		return nil, fmt.Errorf("image analysis requires an image input")
	}

	imageURL, err := imageRefURL(e.Store, imageRef)
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}

	result, err := e.Analyzer.Analyze(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("image analysis failed: %w", err)
	}

	return map[string]any{
		"analysis": result,
		"image":    imageRef,
	}, nil
}
