package executors

import (
	"context"

	"github.com/studiokit/canvasflow/pkg/pipeline"
)

// OutputExecutor is the pipeline's sink: it returns its resolved inputs
// unchanged, and the engine records them as the run's final output.
type OutputExecutor struct{}

func (e *OutputExecutor) Execute(_ context.Context, _ *pipeline.Node, inputs map[string]any, _ *pipeline.Tenant) (map[string]any, error) {
	return inputs, nil
}
