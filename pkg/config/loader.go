package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Load loads configuration from file with the following priority:
// 1. Explicit path via configPath parameter
// 2. ./invokepanel.yaml (current directory)
// 3. ./config/invokepanel.yaml
// 4. ~/.invokepanel/invokepanel.yaml (user home)
// Falls back to defaults if no config file is found
func Load(configPath string, logger zerolog.Logger) (*Config, error) {
	v := viper.New()

	v.SetConfigName("invokepanel")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".invokepanel"))
		}
	}

	// Environment variables use the INVOKEPANEL_ prefix and underscores for
	// nesting, e.g. INVOKEPANEL_TRACKER_REFRESH_INTERVAL=2s
	v.SetEnvPrefix("INVOKEPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper knows about
	registerDefaults(v, DefaultConfig())

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config file")
		}
		logger.Debug().
			Str("searchPaths", "., ./config, ~/.invokepanel").
			Msg("No config file found in search paths, using defaults")
	} else {
		configFileUsed = v.ConfigFileUsed()
		logger.Debug().Str("configFile", configFileUsed).Msg("Config file loaded")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	applyLogLevelInheritance(cfg)

	logger.Info().
		Str("configFile", configFileUsed).
		Interface("network", cfg.Network).
		Interface("runner", cfg.Runner).
		Interface("tracker", cfg.Tracker).
		Interface("logging", cfg.Logging).
		Interface("ui", cfg.UI).
		Msg("Complete effective configuration")

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func registerDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("network.express_config", cfg.Network.ExpressConfig)
	v.SetDefault("network.rpc_url", cfg.Network.RPCURL)
	v.SetDefault("network.workspace", cfg.Network.Workspace)

	v.SetDefault("runner.binary", cfg.Runner.Binary)
	v.SetDefault("runner.command", cfg.Runner.Command)
	v.SetDefault("runner.default_account", cfg.Runner.DefaultAccount)

	v.SetDefault("tracker.refresh_interval", cfg.Tracker.RefreshInterval)
	v.SetDefault("tracker.max_transactions", cfg.Tracker.MaxTransactions)

	v.SetDefault("logging.level.global", cfg.Logging.Level.Global)
	v.SetDefault("logging.level.panel", cfg.Logging.Level.Panel)
	v.SetDefault("logging.level.runner", cfg.Logging.Level.Runner)
	v.SetDefault("logging.level.node", cfg.Logging.Level.Node)
	v.SetDefault("logging.timestamp_format", cfg.Logging.TimestampFormat)
	v.SetDefault("logging.color", cfg.Logging.Color)
	v.SetDefault("logging.file", cfg.Logging.File)

	v.SetDefault("ui.code_style", cfg.UI.CodeStyle)
	v.SetDefault("ui.table_width_percent", cfg.UI.TableWidthPercent)
	v.SetDefault("ui.max_log_lines", cfg.UI.MaxLogLines)
}

// applyLogLevelInheritance fills empty component levels from the global one.
// The node client is noisy at info and defaults to warn instead.
func applyLogLevelInheritance(cfg *Config) {
	if cfg.Logging.Level.Panel == "" {
		cfg.Logging.Level.Panel = cfg.Logging.Level.Global
	}
	if cfg.Logging.Level.Runner == "" {
		cfg.Logging.Level.Runner = cfg.Logging.Level.Global
	}
	if cfg.Logging.Level.Node == "" {
		cfg.Logging.Level.Node = "warn"
	}
}
