package pipeline

import (
	"fmt"
	"sort"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
)

// ParseDOT parses a Graphviz DOT string into a Graph. Node attributes other
// than "type" and "label" become config entries; edge handles are written as
// DOT ports (a:image -> b:image) or as source_handle/target_handle edge
// attributes.
func ParseDOT(src string) (*Graph, error) {
	graphAst, err := gographviz.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("dot parse error: %w", err)
	}

	// A permissive collector accepts arbitrary attribute names without the
	// strict validation gographviz.Graph performs.
	collector := newDOTCollector()
	if err := gographviz.Analyse(graphAst, collector); err != nil {
		return nil, fmt.Errorf("dot analyse error: %w", err)
	}

	g := &Graph{
		Name:  collector.name,
		Nodes: make(map[string]*Node, len(collector.nodes)),
	}

	for id, attrs := range collector.nodes {
		node := &Node{ID: id, Type: NodeType(attrs["type"])}
		for k, v := range attrs {
			switch k {
			case "type":
			case "label":
				node.Label = v
			default:
				if node.Config == nil {
					node.Config = map[string]any{}
				}
				node.Config[k] = v
			}
		}
		g.Nodes[id] = node
	}

	for _, e := range collector.edges {
		g.Edges = append(g.Edges, &Edge{
			Source:       e.from,
			SourceHandle: e.fromHandle,
			Target:       e.to,
			TargetHandle: e.toHandle,
		})
	}

	return g, nil
}

// RenderDOT produces a canonical DOT digraph string for the graph, with
// nodes in topological order when one exists.
func RenderDOT(g *Graph) string {
	var sb strings.Builder

	name := g.Name
	if name == "" {
		name = "pipeline"
	}
	fmt.Fprintf(&sb, "digraph %s {\n", dotQuote(name))

	order, err := TopoSort(g)
	if err != nil {
		order = order[:0]
		for id := range g.Nodes {
			order = append(order, id)
		}
		sort.Strings(order)
	}

	for _, id := range order {
		n := g.Nodes[id]
		parts := []string{"type=" + dotQuote(string(n.Type))}
		if n.Label != "" {
			parts = append(parts, "label="+dotQuote(n.Label))
		}
		keys := make([]string, 0, len(n.Config))
		for k := range n.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+"="+dotQuote(fmt.Sprintf("%v", n.Config[k])))
		}
		fmt.Fprintf(&sb, "    %s [%s]\n", dotQuote(id), strings.Join(parts, " "))
	}

	for _, e := range g.Edges {
		from := dotQuote(e.Source)
		if e.SourceHandle != "" {
			from += ":" + dotQuote(e.SourceHandle)
		}
		to := dotQuote(e.Target)
		if e.TargetHandle != "" {
			to += ":" + dotQuote(e.TargetHandle)
		}
		fmt.Fprintf(&sb, "    %s -> %s\n", from, to)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// ─── permissive DOT collector ─────────────────────────────────────────────────

type rawEdge struct {
	from, fromHandle string
	to, toHandle     string
}

// dotCollector implements gographviz.Interface without attribute validation.
type dotCollector struct {
	name  string
	nodes map[string]map[string]string // id → attrs
	edges []rawEdge
	// defaultNodeAttrs holds attrs set at the graph level (node [...]).
	defaultNodeAttrs map[string]string
}

func newDOTCollector() *dotCollector {
	return &dotCollector{
		nodes:            make(map[string]map[string]string),
		defaultNodeAttrs: make(map[string]string),
	}
}

func (c *dotCollector) SetStrict(_ bool) error { return nil }
func (c *dotCollector) SetDir(_ bool) error    { return nil }
func (c *dotCollector) SetName(n string) error { c.name = unquote(n); return nil }
func (c *dotCollector) String() string         { return c.name }

func (c *dotCollector) AddNode(_ string, name string, attrs map[string]string) error {
	id := unquote(name)
	if _, ok := c.nodes[id]; !ok {
		c.nodes[id] = make(map[string]string, len(c.defaultNodeAttrs))
		for k, v := range c.defaultNodeAttrs {
			c.nodes[id][k] = v
		}
	}
	for k, v := range attrs {
		c.nodes[id][k] = unquote(v)
	}
	return nil
}

func (c *dotCollector) AddEdge(src, dst string, _ bool, attrs map[string]string) error {
	e := rawEdge{from: unquote(src), to: unquote(dst)}
	if v, ok := attrs["source_handle"]; ok {
		e.fromHandle = unquote(v)
	}
	if v, ok := attrs["target_handle"]; ok {
		e.toHandle = unquote(v)
	}
	c.edges = append(c.edges, e)
	return nil
}

func (c *dotCollector) AddPortEdge(src, srcPort, dst, dstPort string, directed bool, attrs map[string]string) error {
	if err := c.AddEdge(src, dst, directed, attrs); err != nil {
		return err
	}
	e := &c.edges[len(c.edges)-1]
	if e.fromHandle == "" {
		e.fromHandle = unquote(srcPort)
	}
	if e.toHandle == "" {
		e.toHandle = unquote(dstPort)
	}
	return nil
}

func (c *dotCollector) AddAttr(_ string, _, _ string) error { return nil }

func (c *dotCollector) AddSubGraph(_, _ string, _ map[string]string) error { return nil }

// unquote strips surrounding double-quotes from a DOT attribute value.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// dotQuote returns the value as a DOT-safe string, quoting if necessary.
func dotQuote(s string) string {
	needsQuote := s == "" ||
		strings.ContainsAny(s, " \t\n\\\"{}[]<>=;,:")
	if needsQuote {
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return s
}
