package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// LintError describes a structural problem in a pipeline graph.
type LintError struct {
	NodeID  string
	Message string
}

func (e LintError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("node %q: %s", e.NodeID, e.Message)
	}
	return e.Message
}

// Validate checks a graph for structural correctness and returns all
// discovered errors. It is a pure function: no side effects, safe to call
// repeatedly. The engine refuses to execute a graph that does not pass.
func Validate(g *Graph) []LintError {
	var errs []LintError

	if len(g.Nodes) == 0 {
		errs = append(errs, LintError{Message: "pipeline has no nodes"})
		return errs
	}

	// Exactly one output node. The output node is the designated sink whose
	// result becomes the run's final output; more than one makes the final
	// output ambiguous.
	var outputs []string
	for id, n := range g.Nodes {
		if n.Type == NodeTypeOutput {
			outputs = append(outputs, id)
		}
	}
	switch len(outputs) {
	case 0:
		errs = append(errs, LintError{Message: "pipeline must have an output node"})
	case 1:
		// good
	default:
		errs = append(errs, LintError{Message: fmt.Sprintf("pipeline has %d output nodes; exactly one required", len(outputs))})
	}

	// Unknown node types never resolve to an executor.
	for id, n := range g.Nodes {
		if !n.Type.Known() {
			errs = append(errs, LintError{NodeID: id, Message: fmt.Sprintf("unknown node type %q", n.Type)})
		}
	}

	// All edge endpoints must reference existing nodes.
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.Source]; !ok {
			errs = append(errs, LintError{Message: fmt.Sprintf("edge references unknown source node %q", e.Source)})
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			errs = append(errs, LintError{Message: fmt.Sprintf("edge references unknown target node %q", e.Target)})
		}
	}

	// Two edges feeding the same declared input handle would silently
	// overwrite each other during input resolution.
	seen := map[string]bool{}
	for _, e := range g.Edges {
		if e.TargetHandle == "" {
			continue
		}
		key := e.Target + "\x00" + e.TargetHandle
		if seen[key] {
			errs = append(errs, LintError{
				NodeID:  e.Target,
				Message: fmt.Sprintf("input handle %q is fed by more than one edge", e.TargetHandle),
			})
		}
		seen[key] = true
	}

	if _, err := TopoSort(g); errors.Is(err, ErrCycle) {
		errs = append(errs, LintError{Message: "pipeline contains a cycle"})
	}

	return errs
}

// ValidateErr calls Validate and returns nil if there are no errors, or a
// combined error message listing all lint errors.
func ValidateErr(g *Graph) error {
	errs := Validate(g)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("pipeline validation failed:\n  %s", strings.Join(msgs, "\n  "))
}
