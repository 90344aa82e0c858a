package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a-korvus/business-management-system/internal/app"
	"github.com/a-korvus/business-management-system/internal/data/db"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bms",
		Short:         "Business management backend: meetings, calendar events and task grading",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := app.Migrate(log, a.DB); err != nil {
					return err
				}
			}
			if err := a.Run(ctx); err != nil {
				return err
			}
			log.Info("Shutdown complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run AutoMigrate before serving")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			theDB, err := db.Open(cfg.DB, log)
			if err != nil {
				return err
			}
			if sqlDB, err := theDB.DB(); err == nil {
				defer sqlDB.Close()
			}
			return app.Migrate(log, theDB)
		},
	}
}

func bootstrap() (*logger.Logger, app.Config, error) {
	log, err := logger.New(app.LogMode())
	if err != nil {
		return nil, app.Config{}, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading configuration...")
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, app.Config{}, err
	}
	return log, cfg, nil
}
