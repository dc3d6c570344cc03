package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Graft is an interactive equational term rewriting tool",
	Long: `Graft lets you define named rewrite rules over symbolic terms and apply
them step by step to a term under inspection, observing each rewrite.`,
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
	rootCmd.PersistentFlags().String("rules", "", "YAML file of rules to preload")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
