package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"review360/internal/domain/evaluation"
)

const (
	viewResults      = "results"
	viewDevelopment  = "development"
	viewCompensation = "compensation"
)

type scoreOptions struct {
	view   string
	target string
	pool   string
	minPct float64
	maxPct float64
	lang   string
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	so := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score <fixture.json>",
		Short: "Score an exported period without a database",
		Long: `Score a JSON fixture holding one period's assignments, responses and
coefficient tiers, using the same rules as the API.

Examples:
  review360 score period.json                                   # ranked results
  review360 score period.json --view development --target <id>  # one development plan
  review360 score period.json --view compensation --pool department --max-pct 8
  review360 score period.json -o json                           # output as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateScoring(); err != nil {
				return err
			}
			fixture, err := readFixture(args[0])
			if err != nil {
				return err
			}

			svc := evaluation.NewService(newFixtureStore(fixture), evaluation.Options{
				Defaults:      cfg.Scoring(),
				DefaultMinPct: cfg.DefaultMinPct,
				DefaultMaxPct: cfg.DefaultMaxPct,
			})
			ctx := cmd.Context()
			orgID, periodID := fixture.Period.OrganizationID, fixture.Period.ID
			labels := svc.CategoryLabels(ctx, orgID, so.lang)
			out := cmd.OutOrStdout()

			switch so.view {
			case viewResults:
				results, err := svc.Results(ctx, orgID, periodID)
				if err != nil {
					return describe(err)
				}
				return renderResults(out, opts.outputFmt, evaluation.LabelResults(results, labels))
			case viewDevelopment:
				if so.target == "" {
					return fmt.Errorf("--target is required for the development view")
				}
				plan, err := svc.Development(ctx, orgID, periodID, so.target)
				if err != nil {
					return describe(err)
				}
				return renderDevelopment(out, opts.outputFmt, evaluation.LabelDevelopment(plan, labels))
			case viewCompensation:
				req := evaluation.CompensationRequest{OrganizationID: orgID, PeriodID: periodID, Pool: so.pool}
				if cmd.Flags().Changed("min-pct") {
					req.MinPct = &so.minPct
				}
				if cmd.Flags().Changed("max-pct") {
					req.MaxPct = &so.maxPct
				}
				result, err := svc.Compensation(ctx, req)
				if err != nil {
					return describe(err)
				}
				return renderCompensation(out, opts.outputFmt, result)
			default:
				return fmt.Errorf("unknown view %q (use results, development or compensation)", so.view)
			}
		},
	}
	cmd.Flags().StringVar(&so.view, "view", viewResults, "what to compute (results, development, compensation)")
	cmd.Flags().StringVar(&so.target, "target", "", "target id for the development view")
	cmd.Flags().StringVar(&so.pool, "pool", "", "compensation pool (org, department, manager)")
	cmd.Flags().Float64Var(&so.minPct, "min-pct", 0, "lowest raise percentage (default: configured default_min_pct)")
	cmd.Flags().Float64Var(&so.maxPct, "max-pct", 0, "highest raise percentage (default: configured default_max_pct)")
	cmd.Flags().StringVar(&so.lang, "lang", "", "label categories using this fixture language")
	return cmd
}
