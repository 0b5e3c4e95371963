package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/strata/internal/config"
	"github.com/scrypster/strata/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// app carries what subcommands need once the root has initialized.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "strata-check",
		Short:         "Validate and normalize hierarchy entity records",
		Long:          "strata-check validates untrusted entity records against the strata\nentity shapes and derives display-safe confidence and children counts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.Version = version

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "Path to a YAML config file (env vars still override)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "Log format: console or json")

	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newTypesCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.LoadConfigFile(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		cfg.Logging.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		cfg.Logging.Format = a.flags.logFormat
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
