package pipeline

import (
	"encoding/json"
	"fmt"
)

// canvasDoc is the JSON wire form of a pipeline, matching the canvas payload
// the visual editor saves: a node list and an edge list.
type canvasDoc struct {
	Name  string  `json:"name,omitempty"`
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// ParseJSON parses a canvas JSON document into a Graph.
func ParseJSON(data []byte) (*Graph, error) {
	var doc canvasDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("canvas parse error: %w", err)
	}

	g := &Graph{
		Name:  doc.Name,
		Nodes: make(map[string]*Node, len(doc.Nodes)),
	}
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("canvas node missing node_id")
		}
		if _, dup := g.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node_id %q", n.ID)
		}
		g.Nodes[n.ID] = n
	}
	g.Edges = doc.Edges
	return g, nil
}

// MarshalJSON renders the graph back into canvas JSON with nodes in
// deterministic (topological, falling back to map) order.
func MarshalJSON(g *Graph) ([]byte, error) {
	doc := canvasDoc{Name: g.Name, Edges: g.Edges}

	order, err := TopoSort(g)
	if err != nil {
		// Cyclic graphs still round-trip; emit nodes in arbitrary order.
		for _, n := range g.Nodes {
			doc.Nodes = append(doc.Nodes, n)
		}
	} else {
		for _, id := range order {
			doc.Nodes = append(doc.Nodes, g.Nodes[id])
		}
	}

	if doc.Edges == nil {
		doc.Edges = []*Edge{}
	}
	return json.MarshalIndent(doc, "", "  ")
}
