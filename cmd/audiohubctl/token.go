package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dto "github.com/dropDatabas3/audiohub/internal/http/dto/auth"
	"github.com/dropDatabas3/audiohub/internal/http/server"
)

func newTokenCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Session token utilities",
	}

	var (
		email     string
		superuser bool
		ttl       time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint a session token signed with the configured secret",
		Long: "Mint a session token. The token is only accepted while an active " +
			"account with this email exists.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			codec, err := server.NewCodec(cfg)
			if err != nil {
				return err
			}
			tok, err := codec.Issue(email, superuser, ttl)
			if err != nil {
				return err
			}
			if opts.out == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(dto.TokenResponse{AccessToken: tok, TokenType: "bearer"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	issue.Flags().StringVar(&email, "email", "", "token subject (required)")
	issue.Flags().BoolVar(&superuser, "superuser", false, "set the is_superuser claim")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "lifetime; 0 uses the configured default")
	_ = issue.MarkFlagRequired("email")

	cmd.AddCommand(issue)
	return cmd
}
