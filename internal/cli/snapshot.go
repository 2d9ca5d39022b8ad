package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
	"review360/internal/platform/db"
	"review360/internal/platform/jobs"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:   "snapshot <periodId>",
		Short: "Freeze the effective coefficients of a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("database url is required")
			}

			pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := evaluation.NewService(evaluation.NewStore(pool), evaluation.Options{Defaults: cfg.Scoring()})
			var coeffs scoring.Coefficients
			runs := jobs.New(jobs.NewPGStore(pool), nil, 0)
			_, err = runs.RunNow(cmd.Context(), jobs.JobPeriodSnapshot, orgID, func(ctx context.Context) (any, error) {
				coeffs, err = svc.SnapshotPeriod(ctx, orgID, args[0])
				return coeffs, err
			})
			if err != nil {
				return describe(err)
			}
			return renderCoefficients(cmd.OutOrStdout(), opts.outputFmt, coeffs)
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id owning the period")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
