package config

import (
	"time"
)

// Config represents the complete invokepanel configuration
type Config struct {
	Network NetworkConfig `mapstructure:"network"`
	Runner  RunnerConfig  `mapstructure:"runner"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// NetworkConfig selects the blockchain the panel talks to
type NetworkConfig struct {
	ExpressConfig string `mapstructure:"express_config"` // neo-express file, makes the network local
	RPCURL        string `mapstructure:"rpc_url"`        // Remote node, only used without an express file
	Workspace     string `mapstructure:"workspace"`      // Root scanned for compiled contracts
}

// RunnerConfig contains settings for the neoxp invocation
type RunnerConfig struct {
	Binary         string `mapstructure:"binary"`
	Command        string `mapstructure:"command"`
	DefaultAccount string `mapstructure:"default_account"`
}

// TrackerConfig contains transaction tracking settings
type TrackerConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	MaxTransactions int           `mapstructure:"max_transactions"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level           LogLevelConfig `mapstructure:"level"`
	TimestampFormat string         `mapstructure:"timestamp_format"`
	Color           bool           `mapstructure:"color"`
	File            string         `mapstructure:"file"`
}

// LogLevelConfig contains log levels for each component
type LogLevelConfig struct {
	Global string `mapstructure:"global"`
	Panel  string `mapstructure:"panel"`
	Runner string `mapstructure:"runner"`
	Node   string `mapstructure:"node"`
}

// UIConfig contains UI preferences
type UIConfig struct {
	CodeStyle         string `mapstructure:"code_style"` // chroma style for the file preview
	TableWidthPercent int    `mapstructure:"table_width_percent"`
	MaxLogLines       int    `mapstructure:"max_log_lines"`
}
