package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive rewriting session",
	Long: `Starts the read-process-report loop: one command per line, errors are
reported with a caret under the offending column and the session keeps
accepting commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		rulesPath, _ := cmd.Flags().GetString("rules")
		debug, _ := cmd.Flags().GetBool("debug")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		opts := cli.Options{
			RulesPath: rulesPath,
			Debug:     debug,
			NoBanner:  noBanner,
		}
		if err := cli.RunREPL(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().Bool("no-banner", false, "Suppress the banner and guide")

	// Make 'repl' the default when no subcommand is given.
	rootCmd.Run = replCmd.Run
}
