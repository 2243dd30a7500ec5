package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"travela/internal/adapters/auth"
	"travela/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		id  domain.Identity
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token signed with AUTH_SECRET (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			iss, err := auth.NewIssuer(auth.Options{
				Secret:   []byte(cfg.AuthSecret),
				Issuer:   cfg.AuthIssuer,
				Audience: cfg.AuthAudience,
			}, ttl)
			if err != nil {
				return err
			}
			tok, err := iss.Issue(id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&id.UID, "uid", "", "User id (token subject)")
	cmd.Flags().StringVar(&id.Email, "email", "", "Email claim")
	cmd.Flags().StringVar(&id.Name, "name", "", "Display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
