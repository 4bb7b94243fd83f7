package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	env        string
	configPath string
	envFile    string
	timeout    time.Duration
}

func newMigrateCmd() *cobra.Command {
	opts := migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Creates the tables and indexes the service needs. Every statement is idempotent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	cmd.Flags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file with FITTRACK_POSTGRES_PASS")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up after this long")

	return cmd
}

func runMigrate(ctx context.Context, opts migrateOptions) error {
	if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("FITTRACK_POSTGRES_PASS"),
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	log.Infof("schema applied to %s/%s", cfg.PostgresAddr(), cfg.PostgresDBName)
	return nil
}
