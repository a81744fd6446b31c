package main

import (
	"fmt"
	"os"

	"medcare-api/config"
	"medcare-api/internal/infrastructure/migrations"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded PostgreSQL migrations",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(log, func(r *migrations.Runner) error {
				return r.Up()
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(log, func(r *migrations.Runner) error {
				return r.Down()
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(log, func(r *migrations.Runner) error {
				version, dirty, err := r.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withRunner(log *logrus.Logger, fn func(r *migrations.Runner) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DB.Driver == "sqlite" {
		return fmt.Errorf("migrations target PostgreSQL; sqlite builds its schema on startup")
	}

	runner, err := migrations.NewRunner(cfg.DB, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := fn(runner); err != nil {
		log.Errorf("Migration failed: %v", err)
		return err
	}
	return nil
}
