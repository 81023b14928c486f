package config

import "time"

// DefaultConfig returns a Config that works against a neo-express network
// in the current directory
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			ExpressConfig: "default.neo-express",
			RPCURL:        "",
			Workspace:     ".",
		},
		Runner: RunnerConfig{
			Binary:         "neoxp",
			Command:        "contract invoke",
			DefaultAccount: "genesis",
		},
		Tracker: TrackerConfig{
			RefreshInterval: 5 * time.Second,
			MaxTransactions: 10,
		},
		Logging: LoggingConfig{
			Level: LogLevelConfig{
				Global: "info",
				Panel:  "", // inherits global
				Runner: "", // inherits global
				Node:   "warn",
			},
			TimestampFormat: "15:04:05",
			Color:           true,
			File:            "invokepanel.log",
		},
		UI: UIConfig{
			CodeStyle:         "solarized-dark",
			TableWidthPercent: 40,
			MaxLogLines:       1000,
		},
	}
}
