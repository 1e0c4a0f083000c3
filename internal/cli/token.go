package cli

import (
	"fmt"
	"time"

	"github.com/apela812/server-stat-TG/internal/config"
	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/spf13/cobra"
)

var tokenClientFlag string

// tokenCmd mints API tokens; there is no HTTP endpoint for this
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed token for the HTTP API",
	Long: `Signs a JWT with API_SECRET for the metrics API and the /ws stream.

Examples:
  server-stat-tg token
  server-stat-tg token --client grafana`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}

		auth, err := services.NewAuthService(cfg.APISecret, cfg.TokenExpiry)
		if err != nil {
			return err
		}

		token, expiresAt, err := auth.GenerateToken(tokenClientFlag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, token)
		fmt.Fprintf(cmd.ErrOrStderr(), "client: %s, expires: %s\n", tokenClientFlag, expiresAt.Format(time.RFC3339))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "server-stat-tg %s (%s)\n", version, commit)
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClientFlag, "client", "api-client", "name recorded in the token")
}
