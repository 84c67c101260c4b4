// Package cmd is the multitimer command line. Without a subcommand it opens
// the terminal UI; subcommands manage timers and history headlessly.
package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/multitimer/internal/config"
	"github.com/sadopc/multitimer/internal/engine"
	"github.com/sadopc/multitimer/internal/logging"
	"github.com/sadopc/multitimer/internal/scheduler"
	"github.com/sadopc/multitimer/internal/tui"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	storage engine.Storage
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "multitimer",
		Short: "Run many categorized countdown timers at once",
		Long: `multitimer keeps any number of named countdown timers, grouped by
category, running side by side. Completed runs are recorded to a history
log that can be filtered and exported.

Without a subcommand it opens the interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		RunE: a.runTUI,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/multitimer/config.yaml)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newControlCmd(a, "start", "Start a timer or every timer in a category"),
		newControlCmd(a, "pause", "Pause a timer or every timer in a category"),
		newControlCmd(a, "reset", "Reset a timer or every timer in a category"),
		newHistoryCmd(a),
		newExportCmd(a),
		newRunCmd(a),
		newCategoriesCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	initConfig(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(cfg.LogDir(), cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		a.logger = l
	}
	return nil
}

func initConfig(cmd *cobra.Command) {
	config.SetDefaults()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// MULTITIMER_ENGINE_TICK_INTERVAL for engine.tick_interval
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// openStorage opens the configured backend once per invocation.
func (a *app) openStorage() (engine.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	s, err := engine.OpenStorage(a.cfg)
	if err != nil {
		return nil, err
	}
	a.storage = s
	return s, nil
}

// openEngine starts an engine over the configured storage. Unless ticking is
// set, running timers stay frozen for the lifetime of the command.
func (a *app) openEngine(ticking bool) (*engine.Engine, error) {
	s, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	opts := engine.Options{
		Period:     a.cfg.Engine.TickInterval,
		Categories: a.cfg.Engine.Categories,
		Logger:     a.logger,
	}
	if !ticking {
		opts.Trigger = scheduler.NopTrigger{}
	}
	return engine.New(s, opts), nil
}

func (a *app) close() error {
	var err error
	if a.storage != nil {
		err = a.storage.Close()
		a.storage = nil
	}
	if a.logger != nil {
		a.logger.Close()
	}
	return err
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	eng, err := a.openEngine(true)
	if err != nil {
		return err
	}
	defer eng.Close()

	opts := tui.Options{
		HistoryLimit:  a.cfg.TUI.HistoryLimit,
		ConfirmDelete: a.cfg.TUI.ConfirmDelete,
		Logger:        a.logger,
	}
	if prefs, ok := a.storage.(tui.Prefs); ok {
		opts.Prefs = prefs
	}

	p := tea.NewProgram(tui.NewApp(eng, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
