package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simrs/simrs/internal/platform/db"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "directory holding .sql migration files")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("applied %d migration(s)\n", n)
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				rows, err := m.Status(ctx)
				if err != nil {
					return err
				}
				for _, r := range rows {
					state := "pending"
					if r.Applied {
						state = "applied " + r.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Printf("%03d  %-40s %s\n", r.Version, r.Name, state)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(up, status)
	return cmd
}

func withMigrator(dir string, fn func(ctx context.Context, m *db.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.UseMemoryStore() {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	m := db.NewMigrator(pool, dir)
	if err := m.EnsureMigrationsTable(ctx); err != nil {
		return err
	}
	return fn(ctx, m)
}
