package render_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/studiokit/canvasflow/pkg/render"
)

func TestCanvasSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		canvas       map[string]any
		wantW, wantH int
	}{
		{name: "declared", canvas: map[string]any{"width": float64(1920), "height": float64(1080)}, wantW: 1920, wantH: 1080},
		{name: "default square", canvas: map[string]any{}, wantW: 1080, wantH: 1080},
		{name: "non-numeric falls back", canvas: map[string]any{"width": "wide"}, wantW: 1080, wantH: 1080},
		{name: "zero falls back", canvas: map[string]any{"width": float64(0)}, wantW: 1080, wantH: 1080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, h := render.CanvasSize(tt.canvas)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("CanvasSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLayers_SkipsNonObjects(t *testing.T) {
	t.Parallel()
	canvas := map[string]any{
		"layers": []any{
			map[string]any{"type": "image"},
			"junk",
			map[string]any{"type": "text"},
		},
	}

	layers := render.Layers(canvas)
	if len(layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(layers))
	}
	if render.LayerType(layers[0]) != render.LayerTypeImage || render.LayerType(layers[1]) != render.LayerTypeText {
		t.Errorf("layer types = %q, %q", render.LayerType(layers[0]), render.LayerType(layers[1]))
	}
}

func TestSetLayerProperty_CreatesPropertiesObject(t *testing.T) {
	t.Parallel()
	layer := map[string]any{"type": "image"}

	render.SetLayerProperty(layer, "src", "a.png")

	props, ok := layer["properties"].(map[string]any)
	if !ok || props["src"] != "a.png" {
		t.Errorf("layer = %v", layer)
	}
}

func TestCloneCanvas_DeepCopies(t *testing.T) {
	t.Parallel()
	original := map[string]any{
		"layers": []any{
			map[string]any{"type": "text", "properties": map[string]any{"text": "before"}},
		},
	}

	clone := render.CloneCanvas(original)
	render.SetLayerProperty(render.Layers(clone)[0], "text", "after")

	origText := render.Layers(original)[0]["properties"].(map[string]any)["text"]
	if origText != "before" {
		t.Errorf("original text = %v, clone mutation leaked", origText)
	}
}

func TestClientRender(t *testing.T) {
	t.Parallel()
	var gotReq struct {
		Template map[string]any `json:"template"`
		Width    int            `json:"width"`
		Height   int            `json:"height"`
		Scale    int            `json:"scale"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render-vue" {
			t.Errorf("path = %q, want /render-vue", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := render.NewClient(srv.URL)
	canvas := map[string]any{"width": float64(800), "height": float64(600), "layers": []any{}}

	data, err := c.Render(t.Context(), canvas)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("data = %q", data)
	}
	if gotReq.Width != 800 || gotReq.Height != 600 {
		t.Errorf("size = %dx%d, want 800x600", gotReq.Width, gotReq.Height)
	}
	if gotReq.Scale != 2 {
		t.Errorf("scale = %d, want 2", gotReq.Scale)
	}
}

func TestClientRender_ErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "renderer crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := render.NewClient(srv.URL).Render(t.Context(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestFileTemplateStore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	canvas := `{"width": 1080, "layers": [{"type": "text"}]}`
	if err := os.WriteFile(filepath.Join(dir, "promo.json"), []byte(canvas), 0o644); err != nil {
		t.Fatal(err)
	}

	store := render.NewFileTemplateStore(dir)

	got, err := store.Get(t.Context(), "promo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["width"] != float64(1080) {
		t.Errorf("width = %v", got["width"])
	}

	if _, err := store.Get(t.Context(), "missing"); err == nil {
		t.Error("expected error for missing template")
	}
}
