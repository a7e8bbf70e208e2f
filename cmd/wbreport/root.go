package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"wbreport/internal/config"
	"wbreport/internal/infrastructure"
)

// cliContext is filled by the root command before any subcommand runs.
type cliContext struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	cc := &cliContext{}
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "wbreport",
		Short: "Reconcile marketplace weekly reports into a summary workbook",
		Long: `wbreport reads weekly realization report workbooks exported from the
marketplace seller portal, joins them with an optional purchase cost
workbook and produces per-SKU, fee, overview, profit and regional tables.

Examples:
  wbreport run --in ./reports --cost cost.xlsx --label week45
  wbreport run week44.xlsx week45.xlsx --csv
  wbreport serve --port 8080
  wbreport taxonomy`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cc.cfg = cfg
			cc.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $WBR_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(cc),
		newServeCmd(cc),
		newTaxonomyCmd(cc),
		newVersionCmd(),
	)
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// newLogger keeps console logs on stderr so that command output on stdout
// stays machine-readable. File outputs go through the global logger.
func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, error) {
	switch cfg.Output {
	case "file", "both":
		return infrastructure.InitializeLogger(cfg)
	default:
		return infrastructure.NewLogger(cfg, stderr), nil
	}
}
