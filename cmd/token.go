package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	infrajwt "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/jwt"
)

const defaultTokenTTL = time.Hour

func newTokenCommand() *cobra.Command {
	var (
		subject      string
		capabilities []string
		ttl          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set")
			}

			token, err := infrajwt.Issue(cfg.Auth.JWTSecret, subject, capabilities, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "1", "principal identifier")
	cmd.Flags().StringSliceVar(&capabilities, "cap", []string{"edit_posts", "edit_pages"}, "granted capability (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "token lifetime")
	return cmd
}
