package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/parley/internal/presentation/tui"
	loamAdapter "github.com/aretw0/parley/pkg/adapters/loam"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [tree]",
	Short: "Print a readable summary of a tree",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")

		p, err := openProject(cmd)
		exitOnError("Error loading project", err)
		defer p.close()

		id, err := p.treeArg(args)
		exitOnError("Error", err)

		var (
			t    *domain.Tree
			body string
		)
		if l, ok := p.loader.(*loamAdapter.Loader); ok {
			t, body, err = l.Describe(context.Background(), id)
		} else {
			t, err = p.loader.GetTree(id)
		}
		exitOnError("Error loading tree", err)

		md := summarize(t, body)
		if raw {
			fmt.Print(md)
			return
		}

		render, err := tui.NewRenderer(tui.Size(os.Stdout))
		exitOnError("Error creating renderer", err)
		out, err := render(md)
		exitOnError("Error rendering", err)
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}

// summarize describes t as markdown. body is free-form prose stored next to the tree.
func summarize(t *domain.Tree, body string) string {
	var sb strings.Builder

	title := t.Name
	if title == "" {
		title = t.ID
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if body = strings.TrimSpace(body); body != "" {
		fmt.Fprintf(&sb, "%s\n\n", body)
	}
	fmt.Fprintf(&sb, "Starts at node **%d**, %d nodes.\n\n", t.Start, len(t.Nodes))

	sb.WriteString("| Node | Kind | Speaker | Action | Text | Next |\n")
	sb.WriteString("|---:|---|---|---|---|---|\n")
	for _, nid := range t.IDs() {
		n := t.Nodes[nid]
		text := strings.Join(n.Lines(), " / ")
		next := []string{}
		for _, e := range n.Edges() {
			next = append(next, fmt.Sprint(int(e)))
		}
		if len(next) == 0 {
			next = append(next, "end")
		}
		if n.IsPlayer() {
			text = strings.Join(n.OptionTexts(), " / ")
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			n.ID, n.Kind, n.Tag, n.ExtraData, cell(text), strings.Join(next, ", "))
	}

	if lost := t.Unreachable(); len(lost) > 0 {
		fmt.Fprintf(&sb, "\n> Only reachable by jumps: %v\n", lost)
	}
	if err := t.Validate(); err != nil {
		fmt.Fprintf(&sb, "\n**Problems**\n\n```\n%v\n```\n", err)
	}
	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
