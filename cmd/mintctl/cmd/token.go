package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintreplica/mintlite/internal/config"
	"github.com/mintreplica/mintlite/internal/service"
)

func TokenCmd() *cobra.Command {
	var (
		userID   string
		operator bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
			generate := auth.GenerateJWT
			if operator {
				generate = auth.GenerateOperatorJWT
			}

			token, err := generate(userID)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	cmd.Flags().BoolVar(&operator, "operator", false, "grant the operator role (needed for POST /api/goals/check-deadlines)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
