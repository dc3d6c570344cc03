package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of graft",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("graft version %s\n", graft.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
