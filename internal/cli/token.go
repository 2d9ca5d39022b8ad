package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"review360/internal/domain/auth"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		userID string
		orgID  string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token",
		Long: `Mint a signed bearer token for the API using the configured JWT secret.

Examples:
  review360 token --user <id> --org <id>               # member token
  review360 token --user <id> --org <id> --role admin  # admin token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("jwt secret is required")
			}
			if !auth.ValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: userID, OrganizationID: orgID, RoleName: role}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&orgID, "org", "", "organization id")
	cmd.Flags().StringVar(&role, "role", auth.RoleMember, "role name (admin, member)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: configured token_ttl)")
	return cmd
}
