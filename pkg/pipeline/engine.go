package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Engine executes pipeline graphs through an ExecutorRegistry.
// Nodes run strictly in topological order, one at a time; a node never
// executes before all of its upstream dependencies have recorded results.
type Engine struct {
	registry ExecutorRegistry
}

// NewEngine creates an Engine backed by the given registry.
func NewEngine(registry ExecutorRegistry) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("executor registry must not be nil")
	}
	return &Engine{registry: registry}, nil
}

// Execute performs a full run of the graph and returns the finished Run.
// Validation failures and node execution errors are converted into a run
// with status failed; they do not propagate as errors. Nodes that completed
// before a failure keep their recorded results.
func (e *Engine) Execute(ctx context.Context, g *Graph, tenant *Tenant, inputData map[string]map[string]any) *Run {
	run := &Run{
		ID:          uuid.NewString(),
		Graph:       g.Name,
		Status:      RunStatusRunning,
		InputData:   inputData,
		NodeResults: map[string]map[string]any{},
		StartedAt:   time.Now().UTC(),
	}

	if err := e.executeInto(ctx, g, tenant, run); err != nil {
		slog.Error("pipeline run failed",
			"run", run.ID,
			"pipeline", g.Name,
			"tenant", tenant.ID,
			"error", err)
		run.Status = RunStatusFailed
		run.ErrorMessage = err.Error()
	} else {
		run.Status = RunStatusCompleted
	}

	now := time.Now().UTC()
	run.CompletedAt = &now
	return run
}

// executeInto runs every node in topological order, recording results on
// the run as it goes. It returns the first error encountered; later nodes
// are never attempted.
func (e *Engine) executeInto(ctx context.Context, g *Graph, tenant *Tenant, run *Run) error {
	if err := ValidateErr(g); err != nil {
		return err
	}

	order, err := TopoSort(g)
	if err != nil {
		return err
	}

	for _, nodeID := range order {
		select {
		case <-ctx.Done():
			return fmt.Errorf("pipeline cancelled at node %q: %w", nodeID, ctx.Err())
		default:
		}

		node := g.Nodes[nodeID]
		inputs := resolveInputs(nodeID, g, run.NodeResults)
		overlay(inputs, run.InputData[nodeID])

		result, err := e.executeNode(ctx, node, inputs, tenant)
		if err != nil {
			return err
		}
		run.NodeResults[nodeID] = result
	}

	// The validator guarantees exactly one output node.
	out := g.OutputNode()
	run.OutputData = run.NodeResults[out.ID]
	if ref, ok := run.OutputData["image"].(string); ok {
		run.OutputPath = ref
	}
	return nil
}

// ExecuteUpTo runs only the target node and its transitive ancestors,
// returning the target's output map. Manual inputs override resolved inputs
// on the target node, mirroring the full-run input_data rule. No Run record
// is produced; errors propagate directly to the caller.
func (e *Engine) ExecuteUpTo(ctx context.Context, g *Graph, tenant *Tenant, targetID string, manualInputs map[string]any) (map[string]any, error) {
	if _, ok := g.Nodes[targetID]; !ok {
		return nil, fmt.Errorf("node %q not found in pipeline", targetID)
	}

	order, err := TopoSort(g)
	if err != nil {
		return nil, err
	}

	closure := UpstreamClosure(g, targetID)
	nodeResults := map[string]map[string]any{}

	for _, nodeID := range order {
		if !closure[nodeID] {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("pipeline cancelled at node %q: %w", nodeID, ctx.Err())
		default:
		}

		node := g.Nodes[nodeID]
		inputs := resolveInputs(nodeID, g, nodeResults)
		if nodeID == targetID {
			overlay(inputs, manualInputs)
		}

		result, err := e.executeNode(ctx, node, inputs, tenant)
		if err != nil {
			return nil, err
		}
		nodeResults[nodeID] = result
	}

	return nodeResults[targetID], nil
}

// executeNode dispatches one node to its registered executor.
func (e *Engine) executeNode(ctx context.Context, node *Node, inputs map[string]any, tenant *Tenant) (map[string]any, error) {
	executor, err := e.registry.Get(node.Type)
	if err != nil {
		return nil, fmt.Errorf("node %q (type=%q): %w", node.ID, node.Type, err)
	}

	slog.Info("executing node", "node", node.ID, "type", node.Type)

	result, err := executor.Execute(ctx, node, inputs, tenant)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", node.ID, err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// overlay copies src into dst key by key; src values win.
func overlay(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
