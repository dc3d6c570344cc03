package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a file of rewriting commands",
	Long: `Feeds a file of protocol lines through a fresh session. Failing commands
are reported and processing continues; the exit status reflects whether
any command failed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rulesPath, _ := cmd.Flags().GetString("rules")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.Options{
			RulesPath: rulesPath,
			Debug:     debug,
		}
		if err := cli.RunScript(args[0], opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
