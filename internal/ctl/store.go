package ctl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BloggingApp/bloghub/internal/logger"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create collections, tables and indexes for the configured storage driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(ctx context.Context, repo *repository.Repository) error {
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "storage migrated")
			return nil
		})
	},
}

var promoteRole string

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Change the role of the user registered with email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := model.Role(strings.ToLower(promoteRole))
		if !role.Valid() {
			return fmt.Errorf("invalid role %q", promoteRole)
		}

		return withRepository(cmd.Context(), func(ctx context.Context, repo *repository.Repository) error {
			if err := promote(ctx, repo, args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		})
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(model.RoleAdmin), "Role to assign: user, admin or banned")
}

func promote(ctx context.Context, repo *repository.Repository, email string, role model.Role) error {
	user, err := repo.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("no user registered with %s", email)
		}
		return err
	}

	if err := repo.User.SetRole(ctx, user.ID, role); err != nil {
		return err
	}

	// the server authenticates through the cached user record
	if err := repo.Redis.Invalidate(ctx, redisrepo.UserKey(user.ID.Hex())); err != nil {
		return fmt.Errorf("role changed but the cached user could not be cleared: %w", err)
	}
	return nil
}

func withRepository(ctx context.Context, fn func(ctx context.Context, repo *repository.Repository) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New("warn", "")
	defer func() { _ = log.Sync() }()

	repo, closeRepo, err := repository.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	return fn(ctx, repo)
}
