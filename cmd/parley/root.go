package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a branching dialogue engine for games",
	Long:  `Parley plays, checks and serves NPC conversations authored as YAML or Markdown trees.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the Parley project")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default <dir>/parley.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
}
