package pipeline

import (
	"errors"
	"sort"
)

// ErrCycle is returned by TopoSort when the graph contains a cycle.
var ErrCycle = errors.New("pipeline contains a cycle")

// TopoSort orders the graph's nodes using Kahn's algorithm so that every
// node appears after all of its upstream dependencies. Returns ErrCycle if
// no complete ordering exists.
//
// Ties among simultaneously-ready nodes are broken by node ID so the order
// is deterministic; only the dependency ordering is a contract.
func TopoSort(g *Graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.Nodes))
	adjacency := make(map[string][]string, len(g.Nodes))
	for id := range g.Nodes {
		inDegree[id] = 0
	}

	for _, e := range g.Edges {
		// Edges referencing unknown nodes are a validation concern; skip
		// them here so cycle detection stays well-defined.
		if _, ok := inDegree[e.Target]; ok {
			inDegree[e.Target]++
		}
		if _, ok := g.Nodes[e.Source]; ok {
			adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		}
	}

	queue := make([]string, 0, len(g.Nodes))
	for id, d := range inDegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// UpstreamClosure returns the set of all direct and transitive ancestors of
// targetID, plus targetID itself. Implemented with an explicit stack so deep
// graphs cannot grow the call stack; the visited set makes it cycle-safe.
func UpstreamClosure(g *Graph, targetID string) map[string]bool {
	closure := map[string]bool{targetID: true}
	stack := []string{targetID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.IncomingEdges(id) {
			if closure[e.Source] {
				continue
			}
			closure[e.Source] = true
			stack = append(stack, e.Source)
		}
	}
	return closure
}
