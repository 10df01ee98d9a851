package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vocero-ai/vocero"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Vocero version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vocero", vocero.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
