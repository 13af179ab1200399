package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/pipeline"
)

// TextInputExecutor emits the literal text configured on a text_input node.
// An explicitly empty string is passed through; nodes that require a
// non-empty value (the AI generator) reject it themselves.
type TextInputExecutor struct{}

func (e *TextInputExecutor) Execute(_ context.Context, node *pipeline.Node, _ map[string]any, _ *pipeline.Tenant) (map[string]any, error) {
	if node.Config == nil {
		return nil, fmt.Errorf("text input node has no text configured")
	}
	raw, ok := node.Config["text"]
	if !ok {
		return nil, fmt.Errorf("text input node has no text configured")
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("text input node: text must be a string")
	}
	return map[string]any{"text": text}, nil
}
