// Package render talks to the template-renderer service and provides helpers
// for working with canvas descriptions: the JSON documents that describe a
// design template as sized, typed layers.
package render

// Canvas documents are loosely typed (map[string]any) because they are
// user-authored and round-trip through JSON; these helpers centralise the
// shape assumptions.

const (
	defaultCanvasSize = 1080

	// LayerTypeImage and LayerTypeText are the layer types the pipeline
	// overlays when composing inputs into a template.
	LayerTypeImage = "image"
	LayerTypeText  = "text"
)

// CanvasSize returns the canvas width and height, defaulting to 1080x1080.
func CanvasSize(canvas map[string]any) (width, height int) {
	return intValue(canvas["width"], defaultCanvasSize), intValue(canvas["height"], defaultCanvasSize)
}

// Layers returns the canvas's layer list. Entries that are not objects are
// skipped.
func Layers(canvas map[string]any) []map[string]any {
	raw, _ := canvas["layers"].([]any)
	layers := make([]map[string]any, 0, len(raw))
	for _, l := range raw {
		if m, ok := l.(map[string]any); ok {
			layers = append(layers, m)
		}
	}
	return layers
}

// LayerType returns a layer's type tag, or "".
func LayerType(layer map[string]any) string {
	t, _ := layer["type"].(string)
	return t
}

// SetLayerProperty sets a key under the layer's properties object, creating
// it if absent. Mutates the layer in place.
func SetLayerProperty(layer map[string]any, key string, value any) {
	props, ok := layer["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		layer["properties"] = props
	}
	props[key] = value
}

// CloneCanvas returns a deep copy of a canvas document so overlays never
// mutate the stored template.
func CloneCanvas(canvas map[string]any) map[string]any {
	return cloneValue(canvas).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func intValue(v any, fallback int) int {
	switch t := v.(type) {
	case int:
		if t > 0 {
			return t
		}
	case float64:
		if t > 0 {
			return int(t)
		}
	}
	return fallback
}
