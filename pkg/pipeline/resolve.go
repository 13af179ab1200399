package pipeline

import "sort"

// resolveInputs collects the input map for targetID from the results of its
// upstream nodes. For each incoming edge the effective source handle is the
// edge's declared handle, or the source node's primary output when absent;
// the effective target handle defaults to the source handle. An edge whose
// source handle is missing from the source's results contributes nothing.
// This function never fails.
func resolveInputs(targetID string, g *Graph, nodeResults map[string]map[string]any) map[string]any {
	inputs := map[string]any{}

	for _, e := range g.IncomingEdges(targetID) {
		sourceResults := nodeResults[e.Source]

		sourceHandle := e.SourceHandle
		if sourceHandle == "" {
			sourceHandle = defaultSourceHandle(g.Nodes[e.Source], sourceResults)
		}
		if sourceHandle == "" {
			continue
		}

		targetHandle := e.TargetHandle
		if targetHandle == "" {
			targetHandle = sourceHandle
		}

		if v, ok := sourceResults[sourceHandle]; ok {
			inputs[targetHandle] = v
		}
	}

	return inputs
}

// defaultSourceHandle picks the handle an un-labelled edge reads from: the
// first of the source type's declared outputs that is actually present, the
// sole result key when there is exactly one, or the lexicographically first
// key so resolution stays deterministic.
func defaultSourceHandle(source *Node, results map[string]any) string {
	if source != nil {
		for _, h := range source.Type.Outputs() {
			if _, ok := results[h]; ok {
				return h
			}
		}
	}
	if len(results) == 1 {
		for k := range results {
			return k
		}
	}
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}
