package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mezonai/mmn-runtime/jsonx"
	"github.com/mezonai/mmn-runtime/types"
	"github.com/spf13/cobra"
)

var (
	execBlockPath  string
	execConfigPath string
	execDataDir    string
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute one block against the stored state",
	Long: `Execute a block read from a JSON file and commit the resulting state.
The block must carry the next block number. Receipts are printed as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execBlock(cmd)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVarP(&execBlockPath, "block", "b", "", "Path to block JSON file")
	execCmd.Flags().StringVar(&execConfigPath, "config", defaultConfigPath, "Path to node configuration file")
	execCmd.Flags().StringVar(&execDataDir, "data-dir", "", "Directory holding node data (overrides config)")
	_ = execCmd.MarkFlagRequired("block")
}

func execBlock(cmd *cobra.Command) error {
	raw, err := os.ReadFile(execBlockPath)
	if err != nil {
		return fmt.Errorf("failed to read block file: %w", err)
	}
	var block types.Block[string, uint64]
	if err := jsonx.Unmarshal(raw, &block); err != nil {
		return fmt.Errorf("failed to decode block %s: %w", execBlockPath, err)
	}

	dataDir := resolveDataDir(execDataDir, execConfigPath)
	setupLogging(execConfigPath, dataDir)
	h, _, err := openChain(dataDir, nil)
	if err != nil {
		return err
	}
	defer h.Close()

	res, err := h.chain.ExecuteBlock(context.Background(), block)
	if err != nil {
		return err
	}
	out, err := jsonx.MarshalIndent(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
