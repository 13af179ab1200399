package pipeline

import "context"

// Executor turns a node's resolved inputs into named outputs.
// Implementations live in the executors sub-package; the interface is
// defined here so that Engine can use it without creating an import cycle.
type Executor interface {
	// Execute runs the node. Inputs and outputs are string-keyed maps of
	// opaque values: text, storage paths, URLs, or structured canvas data.
	Execute(ctx context.Context, node *Node, inputs map[string]any, tenant *Tenant) (map[string]any, error)
}

// ExecutorRegistry looks up Executor implementations by node type.
// Resolving an unknown type is a configuration error, not a user error.
type ExecutorRegistry interface {
	Get(nodeType NodeType) (Executor, error)
}

// Tenant is the brand context a run executes under. Executors use it to
// scope stored assets and to apply brand-level generation preferences.
type Tenant struct {
	// ID scopes stored assets (pipelines/<id>/...).
	ID string
	// Name is informational, used in logs.
	Name string
	// ImageModel is the brand's preferred text-to-image model identifier,
	// e.g. "openai/gpt-image-1/text-to-image". Empty means provider default.
	ImageModel string
	// PromptSuffix is an optional brand-kit visual style suffix appended to
	// generation prompts.
	PromptSuffix string
}
