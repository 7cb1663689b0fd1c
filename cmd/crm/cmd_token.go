package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-crm/config"
	"github.com/shashiranjanraj/kashvi-crm/pkg/auth"
)

var tokenTTL time.Duration

// crm token:issue <subject> — mint a bearer token for AUTH_REQUIRED mode.
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue <subject>",
	Short: "Issue a bearer token for the GraphQL endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		tok, err := auth.GenerateToken(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
