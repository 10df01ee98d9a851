package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vocero",
	Short: "Vocero is a conversational voice receptionist engine",
	Long: `Vocero answers a single phone call as a law firm receptionist: it keeps a
per-call conversation state machine, classifies caller intent with a semantic
router and streams replies from an LLM provider.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
