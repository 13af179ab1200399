// Package executors implements the per-node-type executors for content
// generation pipelines.
package executors

import (
	"context"
	"fmt"

	"github.com/studiokit/canvasflow/pkg/analysis"
	"github.com/studiokit/canvasflow/pkg/imagegen"
	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/render"
	"github.com/studiokit/canvasflow/pkg/storage"
)

// Renderer rasterises a canvas description into PNG bytes.
// *render.Client satisfies it.
type Renderer interface {
	Render(ctx context.Context, canvas map[string]any) ([]byte, error)
}

// GeneratorFactory builds an image generation client for a model identifier.
// imagegen.NewClient is the production implementation.
type GeneratorFactory func(model string) (imagegen.Client, error)

// Deps carries the external collaborators the executors depend on.
type Deps struct {
	Store     storage.Store
	Templates render.TemplateStore
	Renderer  Renderer
	Analyzer  analysis.Analyzer
	// Generator defaults to imagegen.NewClient when nil.
	Generator GeneratorFactory
}

// Registry maps node types to Executor implementations.
// It implements the pipeline.ExecutorRegistry interface.
type Registry struct {
	executors map[pipeline.NodeType]pipeline.Executor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[pipeline.NodeType]pipeline.Executor)}
}

// NewDefaultRegistry creates a Registry with every supported node type wired
// to its production executor. The table is complete at construction time and
// never mutated afterwards.
func NewDefaultRegistry(deps Deps) *Registry {
	if deps.Generator == nil {
		deps.Generator = imagegen.NewClient
	}

	r := NewRegistry()
	r.Register(pipeline.NodeTypeImageInput, &ImageInputExecutor{})
	r.Register(pipeline.NodeTypeTextInput, &TextInputExecutor{})
	r.Register(pipeline.NodeTypeTemplate, &TemplateExecutor{Templates: deps.Templates})
	r.Register(pipeline.NodeTypeAiImageGenerator, &AiImageGeneratorExecutor{
		Store:     deps.Store,
		Renderer:  deps.Renderer,
		Generator: deps.Generator,
	})
	r.Register(pipeline.NodeTypeImageAnalysis, &ImageAnalysisExecutor{
		Store:    deps.Store,
		Analyzer: deps.Analyzer,
	})
	r.Register(pipeline.NodeTypeTemplateRender, &TemplateRenderExecutor{
		Store:    deps.Store,
		Renderer: deps.Renderer,
	})
	r.Register(pipeline.NodeTypeOutput, &OutputExecutor{})
	return r
}

// Register associates an executor with a node type.
func (r *Registry) Register(nodeType pipeline.NodeType, e pipeline.Executor) {
	r.executors[nodeType] = e
}

// Get returns the executor for a node type, or an error if not registered.
func (r *Registry) Get(nodeType pipeline.NodeType) (pipeline.Executor, error) {
	e, ok := r.executors[nodeType]
	if !ok {
		return nil, fmt.Errorf("no executor registered for node type %q", nodeType)
	}
	return e, nil
}
