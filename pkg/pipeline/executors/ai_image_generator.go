package executors

import (
	"context"
	"fmt"
	"strings"

	"github.com/studiokit/canvasflow/pkg/imagegen"
	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/render"
	"github.com/studiokit/canvasflow/pkg/storage"
)

// AiImageGeneratorExecutor generates an image from the node's prompt and
// optional image inputs. With any image-like input present it switches to
// the edit-capable variant of the configured text-to-image model. When a
// structured template canvas is connected, the generated image is composed
// into the canvas's first image layer and the result is rendered.
type AiImageGeneratorExecutor struct {
	Store     storage.Store
	Renderer  Renderer
	Generator GeneratorFactory
}

func (e *AiImageGeneratorExecutor) Execute(ctx context.Context, node *pipeline.Node, inputs map[string]any, tenant *pipeline.Tenant) (map[string]any, error) {
	prompt := stringInput(inputs, "text")
	if prompt == "" {
		prompt = node.ConfigString("prompt")
	}
	if prompt == "" {
		return nil, fmt.Errorf("AI image generator requires a text prompt")
	}
	if tenant.PromptSuffix != "" {
		prompt = strings.TrimSpace(prompt) + " " + tenant.PromptSuffix
	}

	model := node.ConfigString("model")
	if model == "" {
		model = tenant.ImageModel
	}

	// A template input that is itself an image reference (not a canvas)
	// counts as an extra image input.
	sourceImage := stringInput(inputs, "image")
	if sourceImage == "" {
		sourceImage = stringInput(inputs, "template")
	}

	result, err := e.generate(ctx, prompt, sourceImage, model, node)
	if err != nil {
		return nil, fmt.Errorf("AI image generation failed: %w", err)
	}

	imagePath, err := e.Store.Put(storage.AssetPath(tenant.ID, "generate", "png"), result.Data)
	if err != nil {
		return nil, err
	}

	// A structured canvas input means "compose the generated image into the
	// template and render".
	if canvas := canvasInput(inputs, "template"); canvas != nil {
		imagePath, err = e.composeWithTemplate(ctx, canvas, imagePath, tenant)
		if err != nil {
			return nil, err
		}
	}

	return map[string]any{"image": imagePath}, nil
}

func (e *AiImageGeneratorExecutor) generate(ctx context.Context, prompt, sourceImage, model string, node *pipeline.Node) (imagegen.Result, error) {
	opts := imagegen.Options{Size: node.ConfigString("size")}

	if sourceImage != "" {
		editModel := imagegen.ResolveEditModel(model)
		client, err := e.Generator(editModel)
		if err != nil {
			return imagegen.Result{}, err
		}
		imageURL, err := imageRefURL(e.Store, sourceImage)
		if err != nil {
			return imagegen.Result{}, err
		}
		opts.Model = editModel
		return client.FromImage(ctx, prompt, imageURL, opts)
	}

	if model == "" {
		model = imagegen.DefaultGenerateModel
	}
	client, err := e.Generator(model)
	if err != nil {
		return imagegen.Result{}, err
	}
	opts.Model = model
	return client.FromPrompt(ctx, prompt, opts)
}

// composeWithTemplate replaces the canvas's first image layer with the
// generated image and renders the composed canvas.
func (e *AiImageGeneratorExecutor) composeWithTemplate(ctx context.Context, canvas map[string]any, imagePath string, tenant *pipeline.Tenant) (string, error) {
	canvas = render.CloneCanvas(canvas)

	dataURL, err := imageRefURL(e.Store, imagePath)
	if err != nil {
		return "", fmt.Errorf("template composition failed: %w", err)
	}
	for _, layer := range render.Layers(canvas) {
		if render.LayerType(layer) == render.LayerTypeImage {
			render.SetLayerProperty(layer, "src", dataURL)
			break
		}
	}

	png, err := e.Renderer.Render(ctx, canvas)
	if err != nil {
		return "", fmt.Errorf("template composition failed: %w", err)
	}
	return e.Store.Put(storage.AssetPath(tenant.ID, "compose", "png"), png)
}
