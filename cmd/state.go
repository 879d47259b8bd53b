package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mezonai/mmn-runtime/config"
	"github.com/mezonai/mmn-runtime/db"
	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/runtime"
	"github.com/mezonai/mmn-runtime/service"
	"github.com/mezonai/mmn-runtime/store"
)

const (
	defaultConfigPath  = "config/node.ini"
	defaultGenesisPath = "config/genesis.yml"
	stateDirName       = "state"
)

// chainHandle is a runtime backed by the state store in a data directory.
type chainHandle struct {
	rt         *runtime.Default
	chain      *service.ChainServiceImpl
	accounts   *service.AccountServiceImpl
	stateStore service.DefaultStateStore
}

// openChain opens the state database under dataDir and restores the last
// committed state. With genesis set, an empty database is seeded from it.
func openChain(dataDir string, genesis *config.GenesisConfig) (*chainHandle, bool, error) {
	dir := filepath.Join(dataDir, stateDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create data directory: %w", err)
	}
	provider, err := db.NewLevelDBProvider(dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open state database: %w", err)
	}
	rt := runtime.NewDefault()
	stateStore, err := store.NewGenericStateStore[string](provider, rt.Config())
	if err != nil {
		provider.Close()
		return nil, false, err
	}

	chain := service.NewChainService(rt, stateStore)
	applied, err := chain.Init(genesis)
	if err != nil {
		stateStore.MustClose()
		return nil, false, err
	}
	return &chainHandle{
		rt:         rt,
		chain:      chain,
		accounts:   service.NewAccountService(rt),
		stateStore: stateStore,
	}, applied, nil
}

func (h *chainHandle) Close() {
	h.stateStore.MustClose()
}

// resolveDataDir prefers an explicit flag over the node config file.
func resolveDataDir(flagDir, configPath string) string {
	if flagDir != "" {
		return flagDir
	}
	if nodeCfg, err := config.LoadNodeConfig(configPath); err == nil && nodeCfg.DataDir != "" {
		return nodeCfg.DataDir
	}
	return config.DefaultDataDir
}

// setupLogging points logx at the rotating log file in dataDir, using the
// [log] section of the node config when it can be read.
func setupLogging(configPath, dataDir string) {
	logCfg, err := config.LoadLogConfig(configPath)
	if err != nil {
		logCfg = &config.LogConfig{
			File:       config.DefaultLogFile,
			MaxSizeMB:  config.DefaultLogMaxSize,
			MaxAgeDays: config.DefaultLogMaxAge,
		}
	}
	logx.Init(dataDir, logCfg.File, logCfg.MaxSizeMB, logCfg.MaxAgeDays)
}
