package executors_test

import (
	"strings"
	"testing"

	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/pipeline/executors"
	"github.com/studiokit/canvasflow/pkg/render"
)

func twoOfEachCanvas() map[string]any {
	return map[string]any{
		"layers": []any{
			map[string]any{"type": "image", "properties": map[string]any{"src": "first-image"}},
			map[string]any{"type": "text", "properties": map[string]any{"text": "first-text"}},
			map[string]any{"type": "image", "properties": map[string]any{"src": "second-image"}},
			map[string]any{"type": "text", "properties": map[string]any{"text": "second-text"}},
		},
	}
}

func layerProp(layer map[string]any, key string) any {
	props, _ := layer["properties"].(map[string]any)
	return props[key]
}

func TestTemplateRender_OverlaysFirstLayersOnly(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	renderer := &captureRenderer{png: []byte("rendered-png")}
	e := &executors.TemplateRenderExecutor{Store: store, Renderer: renderer}

	out, err := e.Execute(t.Context(), node(pipeline.NodeTypeTemplateRender, nil), map[string]any{
		"template": twoOfEachCanvas(),
		"image":    "https://cdn.example.com/photo.png",
		"text":     "New headline",
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	layers := render.Layers(renderer.lastCanvas)
	if got := layerProp(layers[0], "src"); got != "https://cdn.example.com/photo.png" {
		t.Errorf("first image src = %v", got)
	}
	if got := layerProp(layers[1], "text"); got != "New headline" {
		t.Errorf("first text = %v", got)
	}
	if got := layerProp(layers[2], "src"); got != "second-image" {
		t.Errorf("second image src = %v, want untouched", got)
	}
	if got := layerProp(layers[3], "text"); got != "second-text" {
		t.Errorf("second text = %v, want untouched", got)
	}

	path, _ := out["image"].(string)
	if !strings.HasPrefix(path, "pipelines/acme/render_") || !strings.HasSuffix(path, ".png") {
		t.Errorf("image path = %q", path)
	}
	if data, err := store.Read(path); err != nil || string(data) != "rendered-png" {
		t.Errorf("stored render = %q, %v", data, err)
	}
}

func TestTemplateRender_EmptyTextOverlayApplies(t *testing.T) {
	t.Parallel()
	renderer := &captureRenderer{png: []byte("png")}
	e := &executors.TemplateRenderExecutor{Store: newMemStore(), Renderer: renderer}

	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeTemplateRender, nil), map[string]any{
		"template": twoOfEachCanvas(),
		"text":     "",
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	layers := render.Layers(renderer.lastCanvas)
	if got := layerProp(layers[1], "text"); got != "" {
		t.Errorf("first text = %v, want empty overlay applied", got)
	}
}

func TestTemplateRender_NoOverlaysLeavesCanvasIntact(t *testing.T) {
	t.Parallel()
	renderer := &captureRenderer{png: []byte("png")}
	e := &executors.TemplateRenderExecutor{Store: newMemStore(), Renderer: renderer}

	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeTemplateRender, nil), map[string]any{
		"template": twoOfEachCanvas(),
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	layers := render.Layers(renderer.lastCanvas)
	if layerProp(layers[0], "src") != "first-image" || layerProp(layers[1], "text") != "first-text" {
		t.Error("canvas changed without overlay inputs")
	}
}

func TestTemplateRender_MissingTemplate(t *testing.T) {
	t.Parallel()
	e := &executors.TemplateRenderExecutor{Store: newMemStore(), Renderer: &captureRenderer{}}

	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeTemplateRender, nil), map[string]any{
		"image": "a.png",
	}, tenant())
	if err == nil || !strings.Contains(err.Error(), "template input") {
		t.Errorf("err = %v, want missing-template error", err)
	}
}

func TestTemplateRender_DoesNotMutateInputCanvas(t *testing.T) {
	t.Parallel()
	renderer := &captureRenderer{png: []byte("png")}
	e := &executors.TemplateRenderExecutor{Store: newMemStore(), Renderer: renderer}

	canvas := twoOfEachCanvas()
	_, err := e.Execute(t.Context(), node(pipeline.NodeTypeTemplateRender, nil), map[string]any{
		"template": canvas,
		"text":     "changed",
	}, tenant())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	orig := render.Layers(canvas)
	if layerProp(orig[1], "text") != "first-text" {
		t.Error("overlay mutated the caller's canvas")
	}
}
