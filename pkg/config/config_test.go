package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Network.ExpressConfig != "default.neo-express" {
		t.Errorf("expected express config 'default.neo-express', got '%s'", cfg.Network.ExpressConfig)
	}

	if cfg.Tracker.RefreshInterval != 5*time.Second {
		t.Errorf("expected refresh interval 5s, got %v", cfg.Tracker.RefreshInterval)
	}

	if cfg.Tracker.MaxTransactions != 10 {
		t.Errorf("expected max transactions 10, got %d", cfg.Tracker.MaxTransactions)
	}

	if cfg.Runner.DefaultAccount != "genesis" {
		t.Errorf("expected default account 'genesis', got '%s'", cfg.Runner.DefaultAccount)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	// no config file in the test's working directory
	cfg, err := Load("", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Runner.Binary != "neoxp" {
		t.Errorf("expected default binary 'neoxp', got '%s'", cfg.Runner.Binary)
	}
	if cfg.Logging.Level.Panel != "info" {
		t.Errorf("expected panel level to inherit 'info', got '%s'", cfg.Logging.Level.Panel)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invokepanel.yaml")

	configContent := `
network:
  express_config: contracts/local.neo-express
tracker:
  refresh_interval: 2s
runner:
  default_account: alice
logging:
  level:
    global: debug
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.Network.ExpressConfig != "contracts/local.neo-express" {
		t.Errorf("expected express config override, got '%s'", cfg.Network.ExpressConfig)
	}
	if cfg.Tracker.RefreshInterval != 2*time.Second {
		t.Errorf("expected refresh interval 2s, got %v", cfg.Tracker.RefreshInterval)
	}
	if cfg.Runner.DefaultAccount != "alice" {
		t.Errorf("expected default account 'alice', got '%s'", cfg.Runner.DefaultAccount)
	}
	if cfg.Logging.Level.Runner != "debug" {
		t.Errorf("expected runner level to inherit 'debug', got '%s'", cfg.Logging.Level.Runner)
	}

	// defaults still apply for values the file does not set
	if cfg.Tracker.MaxTransactions != 10 {
		t.Errorf("expected default max transactions 10, got %d", cfg.Tracker.MaxTransactions)
	}
	if cfg.Runner.Command != "contract invoke" {
		t.Errorf("expected default command, got '%s'", cfg.Runner.Command)
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	t.Setenv("INVOKEPANEL_TRACKER_MAX_TRANSACTIONS", "25")
	t.Setenv("INVOKEPANEL_NETWORK_RPC_URL", "http://localhost:50012")

	cfg, err := Load("", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if cfg.Tracker.MaxTransactions != 25 {
		t.Errorf("expected max transactions from env 25, got %d", cfg.Tracker.MaxTransactions)
	}
	if cfg.Network.RPCURL != "http://localhost:50012" {
		t.Errorf("expected rpc url from env, got '%s'", cfg.Network.RPCURL)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invokepanel.yaml")
	if err := os.WriteFile(configPath, []byte("tracker:\n  max_transactions: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath, zerolog.Nop()); err == nil {
		t.Error("expected validation error")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "remote only",
			modify: func(c *Config) {
				c.Network.ExpressConfig = ""
				c.Network.RPCURL = "https://testnet1.neo.coz.io:443"
			},
			wantErr: false,
		},
		{
			name: "no network",
			modify: func(c *Config) {
				c.Network.ExpressConfig = ""
			},
			wantErr: true,
		},
		{
			name: "bad rpc url",
			modify: func(c *Config) {
				c.Network.RPCURL = "localhost"
			},
			wantErr: true,
		},
		{
			name: "websocket rpc url",
			modify: func(c *Config) {
				c.Network.RPCURL = "ws://localhost:50012"
			},
			wantErr: true,
		},
		{
			name: "empty runner binary",
			modify: func(c *Config) {
				c.Runner.Binary = " "
			},
			wantErr: true,
		},
		{
			name: "zero refresh interval",
			modify: func(c *Config) {
				c.Tracker.RefreshInterval = 0
			},
			wantErr: true,
		},
		{
			name: "too many transactions",
			modify: func(c *Config) {
				c.Tracker.MaxTransactions = 1000
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Logging.Level.Global = "invalid"
			},
			wantErr: true,
		},
		{
			name: "unknown code style",
			modify: func(c *Config) {
				c.UI.CodeStyle = "no-such-style"
			},
			wantErr: true,
		},
		{
			name: "table too wide",
			modify: func(c *Config) {
				c.UI.TableWidthPercent = 95
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogLevelInheritance(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level: LogLevelConfig{
				Global: "debug",
				Panel:  "",
				Runner: "error",
				Node:   "",
			},
		},
	}

	applyLogLevelInheritance(cfg)

	if cfg.Logging.Level.Panel != "debug" {
		t.Errorf("expected panel to inherit 'debug', got '%s'", cfg.Logging.Level.Panel)
	}
	if cfg.Logging.Level.Runner != "error" {
		t.Errorf("expected runner to keep 'error', got '%s'", cfg.Logging.Level.Runner)
	}
	if cfg.Logging.Level.Node != "warn" {
		t.Errorf("expected node to default to 'warn', got '%s'", cfg.Logging.Level.Node)
	}
}
