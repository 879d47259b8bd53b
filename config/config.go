package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRPCAddr     = "127.0.0.1:9944"
	DefaultDataDir     = "./data"
	DefaultMetricsPath = "/metrics"
	DefaultLogFile     = "runtime.log"
	DefaultLogMaxSize  = 100
	DefaultLogMaxAge   = 7
)

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genesis file: %w", err)
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, fmt.Errorf("failed to decode genesis file %s: %w", path, err)
	}
	return &cfgFile.Config, nil
}

// LoadNodeConfig reads the [node] section of an .ini file. Missing keys keep their defaults.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	nodeCfg := &NodeConfig{
		RPCAddr:     DefaultRPCAddr,
		DataDir:     DefaultDataDir,
		MetricsPath: DefaultMetricsPath,
	}
	if err := cfg.Section("node").MapTo(nodeCfg); err != nil {
		return nil, err
	}
	return nodeCfg, nil
}

// LoadLogConfig reads the [log] section of an .ini file
func LoadLogConfig(path string) (*LogConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	logCfg := &LogConfig{
		File:       DefaultLogFile,
		MaxSizeMB:  DefaultLogMaxSize,
		MaxAgeDays: DefaultLogMaxAge,
	}
	if err := cfg.Section("log").MapTo(logCfg); err != nil {
		return nil, err
	}
	return logCfg, nil
}
