package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiokit/canvasflow/pkg/pipeline"
)

func graphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <pipeline.json|pipeline.dot>",
		Short: "Print a human-readable summary of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "dot":
				fmt.Print(pipeline.RenderDOT(g))
			case "text", "":
				fmt.Print(renderText(g))
			default:
				return fmt.Errorf("unknown format %q: use text or dot", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or dot")
	return cmd
}

// displayOrder returns node IDs topologically, falling back to sorted order
// for cyclic graphs.
func displayOrder(g *pipeline.Graph) []string {
	order, err := pipeline.TopoSort(g)
	if err == nil {
		return order
	}
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// truncate shortens s to maxLen chars, appending "…" if needed.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}

// renderText produces the human-readable text summary.
func renderText(g *pipeline.Graph) string {
	var sb strings.Builder

	order := displayOrder(g)
	fmt.Fprintf(&sb, "Pipeline: %s  (%d nodes, %d edges)\n", g.Name, len(g.Nodes), len(g.Edges))

	maxIDLen := 4 // minimum "node"
	for id := range g.Nodes {
		if len(id) > maxIDLen {
			maxIDLen = len(id)
		}
	}

	fmt.Fprintf(&sb, "\nNodes:\n")
	for _, id := range order {
		n := g.Nodes[id]
		keys := make([]string, 0, len(n.Config))
		for k := range n.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var configParts []string
		for _, k := range keys {
			v := truncate(fmt.Sprintf("%v", n.Config[k]), 60)
			configParts = append(configParts, k+"="+v)
		}
		fmt.Fprintf(&sb, "  %-*s  %-18s  %s\n", maxIDLen, id, string(n.Type), strings.Join(configParts, " "))
	}

	fmt.Fprintf(&sb, "\nEdges:\n")
	maxFromLen := 4
	for _, e := range g.Edges {
		if len(e.Source) > maxFromLen {
			maxFromLen = len(e.Source)
		}
	}
	for _, e := range g.Edges {
		handle := ""
		if e.SourceHandle != "" || e.TargetHandle != "" {
			handle = fmt.Sprintf("  [%s → %s]", e.SourceHandle, e.TargetHandle)
		}
		fmt.Fprintf(&sb, "  %-*s  →  %s%s\n", maxFromLen, e.Source, e.Target, handle)
	}

	return sb.String()
}
