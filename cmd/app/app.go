package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/vietanh2810/basepoint-api/internal/config"
	"github.com/vietanh2810/basepoint-api/internal/db"
	"github.com/vietanh2810/basepoint-api/internal/logger"
)

const defaultConfigPath = "./cmd/app/config.yml"

var configPath string

// Execute runs the command line. Without a subcommand it serves the API.
func Execute() error {
	root := &cobra.Command{
		Use:           "basepoint",
		Short:         "Territory capture ledger and faction treasury API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the YAML config file")

	root.AddCommand(serveCommand())
	root.AddCommand(migrateCommand())
	root.AddCommand(createAdminCommand())

	return root.Execute()
}

// bootstrap loads config, sets up logging and opens a migrated database.
func bootstrap() (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	gdb, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database -> %w", err)
	}

	return conf, gdb, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
