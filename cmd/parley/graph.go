package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [tree]",
	Short: "Export a tree as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of a dialogue tree.
With --character, the node the character's next conversation starts at is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		identity, _ := cmd.Flags().GetString("character")

		p, err := openProject(cmd)
		exitOnError("Error loading project", err)
		defer p.close()

		id, err := p.treeArg(args)
		exitOnError("Error", err)

		t, err := p.loader.GetTree(id)
		exitOnError("Error loading tree", err)

		var overlay *graph.Overlay
		if identity != "" {
			a, err := p.assignments.Load(context.Background(), identity)
			if errors.Is(err, domain.ErrAssignmentNotFound) {
				exitOnError("Error", fmt.Errorf("%q has not been talked to yet", identity))
			}
			exitOnError("Error loading assignment", err)

			overlay = &graph.Overlay{Current: t.Start, HasCurrent: true}
			if node, ok := a.OverrideStartNode(); ok {
				overlay.Current = node
			}
		}

		fmt.Print(graph.GenerateMermaid(t, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("character", "", "Highlight where this character's next conversation starts")
}
