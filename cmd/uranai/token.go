package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/uranai-api/internal/service/auth"
)

func newTokenCmd(opts *cliOptions) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "token --owner ID",
		Short: "Mint a bearer token for an owner (development use)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(owner) == "" {
				return errors.New("--owner is required")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			tokens, err := auth.NewJWTService(cfg.Auth)
			if errors.Is(err, auth.ErrAuthDisabled) {
				return errors.New("auth.jwt_secret is not configured (set URANAI_AUTH_JWT_SECRET)")
			}
			if err != nil {
				return err
			}

			token, err := tokens.GenerateToken(cmd.Context(), strings.TrimSpace(owner))
			if err != nil {
				return fmt.Errorf("failed to mint token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner ID to put in the token subject")
	return cmd
}
