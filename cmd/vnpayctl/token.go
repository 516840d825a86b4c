package main

import (
	"time"

	"github.com/spf13/cobra"

	"payment-gateway/internal/config"
	"payment-gateway/internal/shared/middleware"
	"payment-gateway/pkg/jwt"
)

// newTokenCmd mints an access token for calling the admin refund endpoint
func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			manager := jwt.NewManager(
				cfg.JWT.Secret,
				cfg.JWT.Issuer,
				time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
			)

			token, err := manager.GenerateAccessToken(userID, email, role)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"access_token": token,
				"token_type":   "Bearer",
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "operator", "subject user id")
	cmd.Flags().StringVar(&email, "email", "", "actor email (recorded as refund creator)")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "role claim")
	return cmd
}
