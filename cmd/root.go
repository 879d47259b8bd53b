package cmd

import (
	"os"

	"github.com/mezonai/mmn-runtime/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mmn-runtime",
	Short: "MMN runtime node CLI",
	Long:  "Command line interface for running and inspecting an MMN runtime: balances, nonces and block execution.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
