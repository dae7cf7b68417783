package app

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			zap.L().Info("database migrated", zap.String("driver", conf.Database.Driver))

			return nil
		},
	}
}
