package cmd

import (
	"context"
	"fmt"

	"github.com/mezonai/mmn-runtime/jsonx"
	"github.com/spf13/cobra"
)

var (
	accountConfigPath string
	accountDataDir    string
)

var accountCmd = &cobra.Command{
	Use:   "account <address>",
	Short: "Show the balance and nonce of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := resolveDataDir(accountDataDir, accountConfigPath)
		setupLogging(accountConfigPath, dataDir)
		h, _, err := openChain(dataDir, nil)
		if err != nil {
			return err
		}
		defer h.Close()

		info, err := h.accounts.GetAccount(context.Background(), args[0])
		if err != nil {
			return err
		}
		out, err := jsonx.MarshalIndent(info)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().StringVar(&accountConfigPath, "config", defaultConfigPath, "Path to node configuration file")
	accountCmd.Flags().StringVar(&accountDataDir, "data-dir", "", "Directory holding node data (overrides config)")
}
