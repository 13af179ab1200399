package imagegen

// t2iToI2I maps a text-to-image model identifier to the edit-capable
// variant used when the generation has image inputs.
var t2iToI2I = map[string]string{
	"google/nano-banana/text-to-image":      "google/nano-banana/edit",
	"google/nano-banana-pro/text-to-image":  "google/nano-banana-pro/edit",
	"openai/gpt-image-1.5/text-to-image":    "openai/gpt-image-1.5/edit",
	"openai/gpt-image-1/text-to-image":      "openai/gpt-image-1-mini/edit",
	"alibaba/wan-2.6/text-to-image":         "alibaba/wan-2.6/image-edit",
	"alibaba/wan-2.5/text-to-image":         "alibaba/wan-2.5/image-edit",
	"wavespeed-ai/qwen-image/text-to-image": "wavespeed-ai/wan-2.2/image-to-image",
	"bytedance/dreamina-v3.0/text-to-image": "bytedance/dreamina-v3.0/edit",
}

// DefaultEditModel is used when a text-to-image model has no edit-capable
// mapping, or no model is configured at all.
const DefaultEditModel = "google/nano-banana/edit"

// DefaultGenerateModel is the prompt-only fallback model.
const DefaultGenerateModel = "google/nano-banana/text-to-image"

// ResolveEditModel returns the edit-capable model variant for a configured
// text-to-image model.
func ResolveEditModel(t2iModel string) string {
	if t2iModel == "" {
		return DefaultEditModel
	}
	if m, ok := t2iToI2I[t2iModel]; ok {
		return m
	}
	return DefaultEditModel
}
