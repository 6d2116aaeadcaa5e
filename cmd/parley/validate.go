package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every tree for consistency",
	Long:  `Loads every tree and reports missing start nodes, dangling edges and empty nodes. Unreachable nodes are listed as warnings.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("All trees are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	game, err := p.game()
	if err != nil {
		return fmt.Errorf("failed to init game: %w", err)
	}
	if err := game.Validate(); err != nil {
		return err
	}

	ids, err := p.loader.ListTrees()
	if err != nil {
		return err
	}
	for _, id := range ids {
		t, err := p.loader.GetTree(id)
		if err != nil {
			return err
		}
		if lost := t.Unreachable(); len(lost) > 0 {
			fmt.Printf("⚠️  %s: nodes %v are only reachable by jumps\n", id, lost)
		}
	}

	for _, ch := range p.cfg.Characters {
		if _, err := p.loader.GetTree(ch.Tree); err != nil {
			return fmt.Errorf("character %q: %w", ch.Name, err)
		}
	}
	return nil
}
