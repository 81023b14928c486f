package config

import (
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/cockroachdb/errors"
)

// Validate checks a loaded or hand-built configuration
func Validate(cfg *Config) error {
	if err := validateNetwork(cfg.Network); err != nil {
		return err
	}
	if err := validateRunner(cfg.Runner); err != nil {
		return err
	}
	if err := validateTracker(cfg.Tracker); err != nil {
		return err
	}
	if err := validateLogLevels(cfg.Logging.Level); err != nil {
		return err
	}
	return validateUI(cfg.UI)
}

func validateNetwork(network NetworkConfig) error {
	if network.ExpressConfig == "" && network.RPCURL == "" {
		return errors.New("network: one of express_config or rpc_url is required")
	}
	if network.RPCURL != "" {
		u, err := url.Parse(network.RPCURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("network: invalid rpc_url '%s'", network.RPCURL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.Newf("network: rpc_url must use http or https, got '%s'", u.Scheme)
		}
	}
	return nil
}

func validateRunner(runner RunnerConfig) error {
	if strings.TrimSpace(runner.Binary) == "" {
		return errors.New("runner: binary is required")
	}
	if strings.TrimSpace(runner.Command) == "" {
		return errors.New("runner: command is required")
	}
	return nil
}

func validateTracker(tracker TrackerConfig) error {
	if tracker.RefreshInterval <= 0 {
		return errors.Newf("tracker: refresh_interval must be positive, got %s", tracker.RefreshInterval)
	}
	if tracker.MaxTransactions < 1 || tracker.MaxTransactions > 100 {
		return errors.Newf("tracker: max_transactions must be between 1 and 100, got %d", tracker.MaxTransactions)
	}
	return nil
}

// validateLogLevels validates log level settings
func validateLogLevels(levels LogLevelConfig) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	checkLevel := func(level, component string) error {
		if level == "" {
			return nil // inherits
		}
		if !validLevels[strings.ToLower(level)] {
			return errors.Newf("invalid log level '%s' for %s: must be one of: trace, debug, info, warn, error, fatal", level, component)
		}
		return nil
	}

	if err := checkLevel(levels.Global, "global"); err != nil {
		return err
	}
	if err := checkLevel(levels.Panel, "panel"); err != nil {
		return err
	}
	if err := checkLevel(levels.Runner, "runner"); err != nil {
		return err
	}
	return checkLevel(levels.Node, "node")
}

func validateUI(ui UIConfig) error {
	if _, ok := styles.Registry[ui.CodeStyle]; !ok {
		return errors.Newf("ui: unknown code_style '%s'", ui.CodeStyle)
	}
	if ui.TableWidthPercent < 10 || ui.TableWidthPercent > 90 {
		return errors.New("ui: table_width_percent must be between 10 and 90")
	}
	if ui.MaxLogLines < 1 {
		return errors.New("ui: max_log_lines must be at least 1")
	}
	return nil
}
