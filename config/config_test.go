package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGenesisConfig(t *testing.T) {
	path := writeFile(t, "genesis.yml", `config:
  balances:
    - address: "9tVeaqVBd2HqQRFsmXrqoWgXhohBjHfBRmWAgW6hZKv1"
      amount: "1_000"
    - address: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
      amount: "50"
`)

	cfg, err := LoadGenesisConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Balances, 2)
	assert.Equal(t, "1_000", cfg.Balances[0].Amount)
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", cfg.Balances[1].Address)
}

func TestLoadGenesisConfigUnknownField(t *testing.T) {
	path := writeFile(t, "genesis.yml", "config:\n  faucet: {}\n")
	_, err := LoadGenesisConfig(path)
	assert.Error(t, err)
}

func TestLoadNodeConfigDefaults(t *testing.T) {
	path := writeFile(t, "config.ini", "[node]\nrpc_addr = 0.0.0.0:8545\n")

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8545", cfg.RPCAddr)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultMetricsPath, cfg.MetricsPath)
}

func TestLoadLogConfig(t *testing.T) {
	path := writeFile(t, "config.ini", "[log]\nfile = node.log\nmax_size_mb = 5\n")

	cfg, err := LoadLogConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "node.log", cfg.File)
	assert.Equal(t, 5, cfg.MaxSizeMB)
	assert.Equal(t, DefaultLogMaxAge, cfg.MaxAgeDays)
}
