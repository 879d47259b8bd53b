package config

// NodeConfig represents a node's runtime settings, read from the [node] section
type NodeConfig struct {
	RPCAddr     string `ini:"rpc_addr"`
	DataDir     string `ini:"data_dir"`
	MetricsPath string `ini:"metrics_path"`
}

// LogConfig is read from the [log] section
type LogConfig struct {
	File       string `ini:"file"`
	MaxSizeMB  int    `ini:"max_size_mb"`
	MaxAgeDays int    `ini:"max_age_days"`
}

// GenesisAccount is a funded account in genesis.yml
type GenesisAccount struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// GenesisConfig holds the configuration from genesis.yml
type GenesisConfig struct {
	Balances []GenesisAccount `yaml:"balances"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}
