package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/render"
)

// TemplateExecutor loads the canvas description for the template selected
// on a template node.
type TemplateExecutor struct {
	Templates render.TemplateStore
}

func (e *TemplateExecutor) Execute(ctx context.Context, node *pipeline.Node, _ map[string]any, _ *pipeline.Tenant) (map[string]any, error) {
	templateID := node.ConfigString("template_id")
	if templateID == "" {
		return nil, fmt.Errorf("template node has no template configured")
	}

	canvas, err := e.Templates.Get(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return map[string]any{"template": canvas}, nil
}
