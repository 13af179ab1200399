package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiokit/canvasflow/pkg/analysis"
	"github.com/studiokit/canvasflow/pkg/pipeline"
	"github.com/studiokit/canvasflow/pkg/pipeline/executors"
	"github.com/studiokit/canvasflow/pkg/render"
	"github.com/studiokit/canvasflow/pkg/storage"

	// Register all image generation providers via their init() functions.
	_ "github.com/studiokit/canvasflow/pkg/imagegen/providers"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "canvasflow",
		Short: "canvasflow - content generation pipeline runner",
		Long: `Canvasflow executes content-generation pipelines: directed graphs of
typed nodes (text/image inputs, templates, AI image generation, image
analysis, template rendering) that produce a single output artifact.

Pipelines are authored as canvas JSON or Graphviz DOT files.`,
	}
	root.AddCommand(runCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(lintCmd())
	root.AddCommand(graphCmd())
	root.AddCommand(nodesCmd())
	return root
}

// tenantFlags are the brand-context options shared by run and preview.
type tenantFlags struct {
	id           string
	name         string
	model        string
	promptSuffix string
	storageDir   string
	templatesDir string
	rendererURL  string
}

func (f *tenantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "tenant", "local", "tenant/brand identifier (scopes stored assets)")
	cmd.Flags().StringVar(&f.name, "tenant-name", "", "tenant display name for logs")
	cmd.Flags().StringVar(&f.model, "model", "", "preferred text-to-image model identifier")
	cmd.Flags().StringVar(&f.promptSuffix, "prompt-suffix", "", "brand style suffix appended to generation prompts")
	cmd.Flags().StringVar(&f.storageDir, "storage", "storage", "root directory for stored assets")
	cmd.Flags().StringVar(&f.templatesDir, "templates", "templates", "directory of template canvas JSON files")
	cmd.Flags().StringVar(&f.rendererURL, "renderer-url", "", "template renderer base URL (default $TEMPLATE_RENDERER_URL)")
}

func (f *tenantFlags) tenant() *pipeline.Tenant {
	return &pipeline.Tenant{
		ID:           f.id,
		Name:         f.name,
		ImageModel:   f.model,
		PromptSuffix: f.promptSuffix,
	}
}

func (f *tenantFlags) engine() (*pipeline.Engine, error) {
	reg := executors.NewDefaultRegistry(executors.Deps{
		Store:     storage.NewDiskStore(f.storageDir),
		Templates: render.NewFileTemplateStore(f.templatesDir),
		Renderer:  render.NewClient(f.rendererURL),
		Analyzer:  analysis.NewVisionAnalyzer(),
	})
	return pipeline.NewEngine(reg)
}

// ─── run ──────────────────────────────────────────────────────────────────────

func runCmd() *cobra.Command {
	var (
		flags     tenantFlags
		inputFile string
	)

	cmd := &cobra.Command{
		Use:   "run <pipeline.json|pipeline.dot>",
		Short: "Execute a pipeline end to end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			inputData, err := loadInputData(inputFile)
			if err != nil {
				return err
			}

			eng, err := flags.engine()
			if err != nil {
				return err
			}

			run := eng.Execute(signalContext(cmd.Context()), g, flags.tenant(), inputData)

			out, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if run.Status == pipeline.RunStatusFailed {
				return fmt.Errorf("run failed: %s", run.ErrorMessage)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&inputFile, "input", "", "JSON file of per-node input overrides ({node_id: {key: value}})")
	return cmd
}

// ─── preview ──────────────────────────────────────────────────────────────────

func previewCmd() *cobra.Command {
	var (
		flags      tenantFlags
		targetNode string
		inputsJSON string
	)

	cmd := &cobra.Command{
		Use:   "preview <pipeline.json|pipeline.dot>",
		Short: "Execute only one node and its upstream dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetNode == "" {
				return fmt.Errorf("--node is required")
			}

			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			var manualInputs map[string]any
			if inputsJSON != "" {
				if err := json.Unmarshal([]byte(inputsJSON), &manualInputs); err != nil {
					return fmt.Errorf("parse --inputs: %w", err)
				}
			}

			eng, err := flags.engine()
			if err != nil {
				return err
			}

			result, err := eng.ExecuteUpTo(signalContext(cmd.Context()), g, flags.tenant(), targetNode, manualInputs)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&targetNode, "node", "", "node ID to execute up to (required)")
	cmd.Flags().StringVar(&inputsJSON, "inputs", "", "inline JSON of manual inputs for the target node")
	return cmd
}

// ─── lint ─────────────────────────────────────────────────────────────────────

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <pipeline.json|pipeline.dot>",
		Short: "Validate a pipeline file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if lintErr := pipeline.ValidateErr(g); lintErr != nil {
				return lintErr
			}
			fmt.Printf("OK: pipeline %q is valid (%d nodes, %d edges)\n",
				g.Name, len(g.Nodes), len(g.Edges))
			return nil
		},
	}
}

// ─── nodes ────────────────────────────────────────────────────────────────────

func nodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the supported node types and their handles",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			type nodeTypeInfo struct {
				Type           pipeline.NodeType `json:"type"`
				Label          string            `json:"label"`
				Inputs         []string          `json:"inputs"`
				Outputs        []string          `json:"outputs"`
				RequiredInputs []string          `json:"required_inputs"`
			}
			catalog := make([]nodeTypeInfo, 0, len(pipeline.AllNodeTypes))
			for _, t := range pipeline.AllNodeTypes {
				catalog = append(catalog, nodeTypeInfo{
					Type:           t,
					Label:          t.Label(),
					Inputs:         t.Inputs(),
					Outputs:        t.Outputs(),
					RequiredInputs: t.RequiredInputs(),
				})
			}
			out, err := json.MarshalIndent(catalog, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// loadGraph reads a pipeline file, dispatching on extension: .dot parses as
// Graphviz DOT, everything else as canvas JSON.
func loadGraph(path string) (*pipeline.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}

	var g *pipeline.Graph
	if strings.EqualFold(filepath.Ext(path), ".dot") {
		g, err = pipeline.ParseDOT(string(src))
	} else {
		g, err = pipeline.ParseJSON(src)
	}
	if err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}

	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

func loadInputData(path string) (map[string]map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	var data map[string]map[string]any
	if err := json.Unmarshal(src, &data); err != nil {
		return nil, fmt.Errorf("parse input file: %w", err)
	}
	return data, nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "\n[canvasflow] interrupted, cancelling pipeline")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
