package pipeline

import "time"

// RunStatus is the lifecycle state of a Run. Transitions are monotonic:
// pending → running → completed | failed. Terminal states are final.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Run is one execution attempt of a graph. The Engine exclusively creates
// and mutates a Run; callers read it after Execute returns.
type Run struct {
	ID     string    `json:"run_id"`
	Graph  string    `json:"graph"`
	Status RunStatus `json:"status"`

	// InputData holds caller-supplied values keyed by node ID, merged into
	// that node's resolved inputs. Caller values win over graph-resolved
	// values for the same key.
	InputData map[string]map[string]any `json:"input_data,omitempty"`

	// NodeResults maps node ID to that node's output map, accumulated as
	// execution proceeds. Append-only within a run.
	NodeResults map[string]map[string]any `json:"node_results,omitempty"`

	// OutputData is the output node's result once execution reaches it.
	OutputData map[string]any `json:"output_data,omitempty"`
	// OutputPath is the image reference from OutputData, when present.
	OutputPath string `json:"output_path,omitempty"`

	// ErrorMessage is set only when Status is failed.
	ErrorMessage string `json:"error_message,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
