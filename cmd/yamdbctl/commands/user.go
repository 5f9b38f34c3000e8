// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

var promoteRole string

// userCmd groups the account commands
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

// userPromoteCmd changes a role without an acting administrator
var userPromoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Set the role of an account",
	Long: `Set the role of an account.

The first administrator can only be created this way, since role changes
through the API require an administrator.

Examples:
  yamdbctl user promote alice --role admin
  yamdbctl user promote bob --role moderator`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := sec.ParseRole(promoteRole)
		if err != nil {
			return err
		}

		cfg, err := databaseSettings()
		if err != nil {
			return err
		}

		logger := newLogger()
		pool, err := postgres.NewPool(cmd.Context(), cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		service := account.NewService(account.NewRepository(pool), nil, logger)
		user, err := service.Promote(cmd.Context(), args[0], role)
		if err != nil {
			return fmt.Errorf("promote %q: %w", args[0], err)
		}

		cmd.Printf("%s is now %s\n", user.Username, user.Role)
		return nil
	},
}

func init() {
	userPromoteCmd.Flags().StringVar(&promoteRole, "role", sec.RoleAdmin.String(), "Role to assign (user, moderator, admin)")
	userCmd.AddCommand(userPromoteCmd)
}
