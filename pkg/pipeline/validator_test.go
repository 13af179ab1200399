package pipeline_test

import (
	"strings"
	"testing"

	"github.com/studiokit/canvasflow/pkg/pipeline"
)

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"in":  pipeline.NodeTypeTextInput,
		"out": pipeline.NodeTypeOutput,
	}, []*pipeline.Edge{edge("in", "out")})

	if err := pipeline.ValidateErr(g); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := &pipeline.Graph{Nodes: map[string]*pipeline.Node{}}

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for empty graph")
	}
	if !strings.Contains(err.Error(), "no nodes") {
		t.Errorf("error = %v, want mention of 'no nodes'", err)
	}
}

func TestValidate_MissingOutputNode(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"in": pipeline.NodeTypeTextInput,
	}, nil)

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for missing output node")
	}
	if !strings.Contains(err.Error(), "output node") {
		t.Errorf("error = %v, want mention of output node", err)
	}
}

func TestValidate_MultipleOutputNodes(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"in":   pipeline.NodeTypeTextInput,
		"out1": pipeline.NodeTypeOutput,
		"out2": pipeline.NodeTypeOutput,
	}, nil)

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for multiple output nodes")
	}
	if !strings.Contains(err.Error(), "exactly one") {
		t.Errorf("error = %v, want mention of 'exactly one'", err)
	}
}

func TestValidate_Cycle(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"a":   pipeline.NodeTypeTextInput,
		"b":   pipeline.NodeTypeAiImageGenerator,
		"out": pipeline.NodeTypeOutput,
	}, []*pipeline.Edge{
		edge("a", "b"),
		edge("b", "a"),
		edge("b", "out"),
	})

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for cyclic graph")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error = %v, want mention of cycle", err)
	}
}

func TestValidate_UnknownEdgeEndpoints(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"in":  pipeline.NodeTypeTextInput,
		"out": pipeline.NodeTypeOutput,
	}, []*pipeline.Edge{edge("in", "ghost")})

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for unknown edge target")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error = %v, want mention of the unknown node", err)
	}
}

func TestValidate_UnknownNodeType(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"out": pipeline.NodeTypeOutput,
	}, nil)
	g.Nodes["weird"] = &pipeline.Node{ID: "weird", Type: "telepathy"}

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for unknown node type")
	}
	if !strings.Contains(err.Error(), "telepathy") {
		t.Errorf("error = %v, want mention of the unknown type", err)
	}
}

func TestValidate_DuplicateTargetHandle(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"a":   pipeline.NodeTypeTextInput,
		"b":   pipeline.NodeTypeTextInput,
		"gen": pipeline.NodeTypeAiImageGenerator,
		"out": pipeline.NodeTypeOutput,
	}, []*pipeline.Edge{
		{Source: "a", Target: "gen", TargetHandle: "text"},
		{Source: "b", Target: "gen", TargetHandle: "text"},
		edge("gen", "out"),
	})

	err := pipeline.ValidateErr(g)
	if err == nil {
		t.Fatal("expected error for duplicate target handle")
	}
	if !strings.Contains(err.Error(), "more than one edge") {
		t.Errorf("error = %v, want duplicate-handle message", err)
	}
}

func TestValidate_Pure(t *testing.T) {
	t.Parallel()
	g := buildGraph(t, map[string]pipeline.NodeType{
		"in":  pipeline.NodeTypeTextInput,
		"out": pipeline.NodeTypeOutput,
	}, []*pipeline.Edge{edge("in", "out")})

	for range 3 {
		if errs := pipeline.Validate(g); len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Error("Validate mutated the graph")
	}
}
