package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/pipeline"
)

// ImageInputExecutor resolves the image reference configured on an
// image_input node. The "source" config discriminates between an uploaded
// or gallery image (image_path) and an external URL (image_url).
type ImageInputExecutor struct{}

func (e *ImageInputExecutor) Execute(_ context.Context, node *pipeline.Node, _ map[string]any, _ *pipeline.Tenant) (map[string]any, error) {
	var ref string
	switch node.ConfigString("source") {
	case "url":
		ref = node.ConfigString("image_url")
	default: // upload, gallery
		ref = node.ConfigString("image_path")
	}

	if ref == "" {
		return nil, fmt.Errorf("image input node has no image configured")
	}
	return map[string]any{"image": ref}, nil
}
