package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/render"
	"github.com/studiokit/canvasflow/pkg/storage"
)

// TemplateRenderExecutor rasterises a template canvas, first overlaying the
// connected inputs: the first image layer takes the image input, the first
// text layer takes the text input. Only the first matching layer of each
// kind is replaced.
type TemplateRenderExecutor struct {
	Store    storage.Store
	Renderer Renderer
}

func (e *TemplateRenderExecutor) Execute(ctx context.Context, _ *pipeline.Node, inputs map[string]any, tenant *pipeline.Tenant) (map[string]any, error) {
	canvas := canvasInput(inputs, "template")
	if canvas == nil {
		return nil, fmt.Errorf("template render requires a template input")
	}
	canvas = render.CloneCanvas(canvas)

	if err := e.applyOverlays(canvas, inputs); err != nil {
		return nil, err
	}

	png, err := e.Renderer.Render(ctx, canvas)
	if err != nil {
		return nil, fmt.Errorf("template rendering failed: %w", err)
	}

	imagePath, err := e.Store.Put(storage.AssetPath(tenant.ID, "render", "png"), png)
	if err != nil {
		return nil, err
	}
	return map[string]any{"image": imagePath}, nil
}

func (e *TemplateRenderExecutor) applyOverlays(canvas map[string]any, inputs map[string]any) error {
	imageRef := stringInput(inputs, "image")
	text, hasText := inputs["text"].(string)

	imageReplaced := false
	textReplaced := false

	for _, layer := range render.Layers(canvas) {
		switch render.LayerType(layer) {
		case render.LayerTypeImage:
			if imageReplaced || imageRef == "" {
				continue
			}
			dataURL, err := imageRefURL(e.Store, imageRef)
			if err != nil {
				return fmt.Errorf("overlay image: %w", err)
			}
			render.SetLayerProperty(layer, "src", dataURL)
			imageReplaced = true
		case render.LayerTypeText:
			if textReplaced || !hasText {
				continue
			}
			render.SetLayerProperty(layer, "text", text)
			textReplaced = true
		}
	}
	return nil
}
