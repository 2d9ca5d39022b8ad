package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"review360/internal/platform/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending SQL migrations from the configured migrations directory.

Examples:
  review360 migrate             # apply migrations
  review360 migrate --seed      # also create the seed organization`,
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

			applied, err := db.Migrate(cmd.Context(), pool, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "schema is up to date")
			}
			for _, name := range applied {
				fmt.Fprintf(out, "%s %s\n", color.GreenString("applied"), name)
			}

			if seed {
				orgID, err := db.Seed(cmd.Context(), pool, cfg.SeedOrgName, cfg.Scoring())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s organization %q (%s)\n", color.GreenString("seeded"), cfg.SeedOrgName, orgID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "create the seed organization and its default weights")
	return cmd
}
