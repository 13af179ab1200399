package pipeline

// NodeType identifies the kind of work a node performs.
type NodeType string

const (
	NodeTypeImageInput       NodeType = "image_input"
	NodeTypeTextInput        NodeType = "text_input"
	NodeTypeTemplate         NodeType = "template"
	NodeTypeAiImageGenerator NodeType = "ai_image_generator"
	NodeTypeImageAnalysis    NodeType = "image_analysis"
	NodeTypeTemplateRender   NodeType = "template_render"
	NodeTypeOutput           NodeType = "output"
)

// AllNodeTypes lists every supported node type in catalog order.
var AllNodeTypes = []NodeType{
	NodeTypeImageInput,
	NodeTypeTextInput,
	NodeTypeTemplate,
	NodeTypeAiImageGenerator,
	NodeTypeImageAnalysis,
	NodeTypeTemplateRender,
	NodeTypeOutput,
}

// Label returns the human-readable name shown in the node catalog.
func (t NodeType) Label() string {
	switch t {
	case NodeTypeImageInput:
		return "Image Input"
	case NodeTypeTextInput:
		return "Text Input"
	case NodeTypeTemplate:
		return "Template"
	case NodeTypeAiImageGenerator:
		return "AI Image Generator"
	case NodeTypeImageAnalysis:
		return "Image Analysis"
	case NodeTypeTemplateRender:
		return "Template Render"
	case NodeTypeOutput:
		return "Output"
	}
	return string(t)
}

// Inputs returns the handle names a node of this type can receive.
func (t NodeType) Inputs() []string {
	switch t {
	case NodeTypeAiImageGenerator:
		return []string{"text", "image", "template"}
	case NodeTypeImageAnalysis:
		return []string{"image"}
	case NodeTypeTemplateRender:
		return []string{"template", "image", "text", "analysis"}
	case NodeTypeOutput:
		return []string{"image", "text"}
	}
	return nil
}

// Outputs returns the handle names a node of this type produces.
func (t NodeType) Outputs() []string {
	switch t {
	case NodeTypeImageInput:
		return []string{"image"}
	case NodeTypeTextInput:
		return []string{"text"}
	case NodeTypeTemplate:
		return []string{"template"}
	case NodeTypeAiImageGenerator:
		return []string{"image"}
	case NodeTypeImageAnalysis:
		return []string{"analysis", "image"}
	case NodeTypeTemplateRender:
		return []string{"image"}
	}
	return nil
}

// RequiredInputs returns the handles that must be connected for the node to
// execute successfully.
func (t NodeType) RequiredInputs() []string {
	switch t {
	case NodeTypeAiImageGenerator:
		return []string{"text"}
	case NodeTypeImageAnalysis:
		return []string{"image"}
	case NodeTypeTemplateRender:
		return []string{"template"}
	}
	return nil
}

// Known reports whether t is one of the supported node types.
func (t NodeType) Known() bool {
	for _, k := range AllNodeTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Node represents a single vertex in the pipeline graph.
// Config is interpreted only by the node's executor; the orchestration
// layer treats it as opaque.
type Node struct {
	ID     string         `json:"node_id"`
	Type   NodeType       `json:"type"`
	Label  string         `json:"label,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// ConfigString returns a string config value, or "" if absent or not a string.
func (n *Node) ConfigString(key string) string {
	if n.Config == nil {
		return ""
	}
	s, _ := n.Config[key].(string)
	return s
}

// Edge is a directed data link from a named output handle on the source node
// to a named input handle on the target node. Empty handles mean "whatever
// single output the source produced" and "same name as the source handle".
type Edge struct {
	Source       string `json:"source_node_id"`
	SourceHandle string `json:"source_handle,omitempty"`
	Target       string `json:"target_node_id"`
	TargetHandle string `json:"target_handle,omitempty"`
}

// Graph is the static DAG of nodes and edges defining a content-generation
// workflow. It is immutable during a run.
type Graph struct {
	Name  string
	Nodes map[string]*Node
	Edges []*Edge
}

// OutgoingEdges returns all edges leaving nodeID, in definition order.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns all edges arriving at nodeID, in definition order.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Target == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// OutputNode returns the graph's output node, or nil if there is none.
func (g *Graph) OutputNode() *Node {
	for _, n := range g.Nodes {
		if n.Type == NodeTypeOutput {
			return n
		}
	}
	return nil
}

// Simple reports whether the graph is small enough for synchronous,
// in-request execution: fewer than four nodes and no AI generation step.
// Callers embedding the engine use this to decide between executing inline
// and handing the run to a background queue.
func (g *Graph) Simple() bool {
	if len(g.Nodes) >= 4 {
		return false
	}
	for _, n := range g.Nodes {
		if n.Type == NodeTypeAiImageGenerator {
			return false
		}
	}
	return true
}
