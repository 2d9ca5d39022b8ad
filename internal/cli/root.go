package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"review360/internal/platform/config"
	"review360/internal/platform/logging"
)

var (
	version = "dev"
	commit  = "unknown"
)

// SetVersionInfo sets version information from build flags.
func SetVersionInfo(v, c string) {
	version = v
	commit = c
}

type rootOptions struct {
	configPath string
	outputFmt  string
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "review360",
		Short: "360 degree performance review scoring",
		Long: `review360 scores completed 360 degree evaluations and turns them into
per-person results, development plans, and compensation recommendations.

It provides:
  - an HTTP API backed by PostgreSQL (serve)
  - schema migrations and an initial organization (migrate)
  - coefficient snapshots that freeze a period's weights (snapshot)
  - offline scoring of a JSON fixture (score)`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVarP(&opts.outputFmt, "output", "o", formatTable, "output format (table, json)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSnapshotCmd(opts),
		newScoreCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// load reads configuration and initializes logging from it.
func (o *rootOptions) load() (config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv(config.EnvConfig, o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "review360 %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}
