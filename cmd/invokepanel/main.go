package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bjartek/invokepanel/pkg/completion"
	"github.com/bjartek/invokepanel/pkg/config"
	"github.com/bjartek/invokepanel/pkg/document"
	"github.com/bjartek/invokepanel/pkg/execution"
	"github.com/bjartek/invokepanel/pkg/logs"
	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/bjartek/invokepanel/pkg/panel"
	"github.com/bjartek/invokepanel/pkg/runner"
	"github.com/bjartek/invokepanel/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// watchDebounce lets editors finish their save before the file is re-read.
const watchDebounce = 100 * time.Millisecond

// connectTimeout bounds the first connection attempt at startup.
const connectTimeout = 10 * time.Second

var (
	version = "0.1.0"

	configFlag  string
	expressFlag string
	rpcURLFlag  string
	logFileFlag string

	rootCmd = &cobra.Command{
		Use:          "invokepanel <file.neo-invoke.json>",
		Short:        "Edit and run neo-express invocation files and track their transactions",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return run(cfg, args[0])
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding configuration")
			}
			fmt.Println(string(data))
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of invokepanel",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("invokepanel version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ./invokepanel.yaml)")
	rootCmd.PersistentFlags().StringVar(&expressFlag, "express", "", "neo-express config of the local network")
	rootCmd.PersistentFlags().StringVar(&rpcURLFlag, "rpc-url", "", "JSON-RPC url of a remote node, used when no express config is set")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "file the log is appended to")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the command line overrides.
// Nothing may be written to stdout once the TUI runs, so the bootstrap
// logger only reports warnings on stderr.
func loadConfig() (*config.Config, error) {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	cfg, err := config.Load(configFlag, bootstrap)
	if err != nil {
		return nil, err
	}

	if expressFlag != "" {
		cfg.Network.ExpressConfig = expressFlag
		cfg.Network.RPCURL = ""
	}
	if rpcURLFlag != "" {
		if expressFlag == "" {
			cfg.Network.ExpressConfig = ""
		}
		cfg.Network.RPCURL = rpcURLFlag
	}
	if logFileFlag != "" {
		cfg.Logging.File = logFileFlag
	}
	return cfg, config.Validate(cfg)
}

func run(cfg *config.Config, file string) error {
	path, err := filepath.Abs(file)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", file)
	}

	relay := ui.NewRelay()
	logger, logCloser, err := logs.New(cfg.Logging, relay.Send)
	if err != nil {
		return err
	}
	defer func() {
		_ = logCloser.Close()
	}()

	fs := afero.NewOsFs()
	doc := document.NewFile(fs, path)
	if err := doc.Save(); err != nil {
		return err
	}

	manager := neo.NewManager(neo.ManagerConfig{
		ExpressConfig: cfg.Network.ExpressConfig,
		RPCURL:        cfg.Network.RPCURL,
	}, fs, logs.Leveled(logger, cfg.Logging.Level.Node))
	defer manager.Disconnect()

	panelLogger := logs.Leveled(logger, cfg.Logging.Level.Panel)
	engine := execution.NewEngine(fs, doc, manager, ui.NewPrompter(relay.Send),
		runner.NewExec(cfg.Runner.Binary, filepath.Dir(path), logs.Leveled(logger, cfg.Logging.Level.Runner)),
		execution.Options{
			Command:        cfg.Runner.Command,
			DefaultAccount: cfg.Runner.DefaultAccount,
			ExpressConfig:  cfg.Network.ExpressConfig,
		},
		panelLogger,
	)

	watcher, err := document.Watch(path, watchDebounce, func() {
		relay.Send(panel.DocumentChangedMsg{})
	}, panelLogger)
	if err != nil {
		return err
	}

	controller := panel.New(doc, engine, manager,
		completion.NewWorkspaceSource(fs, cfg.Network.Workspace, panelLogger),
		panel.WithSender(relay.Send),
		panel.WithRefreshInterval(cfg.Tracker.RefreshInterval),
		panel.WithMaxTransactions(cfg.Tracker.MaxTransactions),
		panel.WithSubscription(watcher),
		panel.WithLogger(panelLogger),
	)
	defer func() {
		if err := controller.Close(); err != nil {
			logger.Warn().Err(err).Msg("Closing the panel failed")
		}
	}()

	// the first connection is made in the background so the UI comes up
	// straight away; completion data follows on the next refresh
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if _, err := manager.Connect(ctx); err != nil {
			logger.Warn().Err(err).Msg("Could not connect to a blockchain")
		}
	}()

	p := tea.NewProgram(
		ui.NewModel(controller, cfg.UI, path, logger),
		tea.WithAltScreen(),
	)
	relay.Attach(p)

	logger.Info().Str("file", path).Str("version", version).Msg("Starting invokepanel")
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("Error running program")
		return errors.Wrap(err, "running program")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
