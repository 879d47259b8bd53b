package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/jsonrpc"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/monitoring"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	nodeConfigPath string
	nodeDataDir    string
	nodeRPCAddr    string
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run the runtime node and serve JSON-RPC",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNode()
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.Flags().StringVar(&nodeConfigPath, "config", defaultConfigPath, "Path to node configuration file")
	nodeCmd.Flags().StringVar(&nodeDataDir, "data-dir", "", "Directory holding node data (overrides config)")
	nodeCmd.Flags().StringVar(&nodeRPCAddr, "rpc-addr", "", "JSON-RPC listen address (overrides config)")
}

func runNode() error {
	nodeCfg, err := config.LoadNodeConfig(nodeConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load node config: %w", err)
	}
	if nodeDataDir != "" {
		nodeCfg.DataDir = nodeDataDir
	}
	if nodeRPCAddr != "" {
		nodeCfg.RPCAddr = nodeRPCAddr
	}
	setupLogging(nodeConfigPath, nodeCfg.DataDir)

	monitoring.InitMetrics()

	h, _, err := openChain(nodeCfg.DataDir, nil)
	if err != nil {
		return err
	}
	defer h.Close()
	logx.Info("NODE", fmt.Sprintf("Runtime at block %d", h.rt.BlockNumber()))

	rpcServer := jsonrpc.NewServer(nodeCfg.RPCAddr, nodeCfg.MetricsPath, h.accounts, h.chain)
	if err := rpcServer.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logx.Info("NODE", "Received signal ", sig.String(), ", shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rpcServer.Shutdown(ctx); err != nil {
		logx.Error("NODE", "RPC shutdown failed: ", err)
	}
	return nil
}
