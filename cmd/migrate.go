package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/config"
)

// migrationsPath is the relative path to the migrations directory.
const migrationsPath = "file://migrations"

const (
	directionUp   = "up"
	directionDown = "down"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{directionUp, directionDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			m, err := migrate.New(migrationsPath, cfg.Database.MigrateURL())
			if err != nil {
				return fmt.Errorf("create migrate instance: %w", err)
			}
			defer func() { _, _ = m.Close() }()

			if err = runMigration(m, direction); err != nil {
				return fmt.Errorf("migration %s failed: %w", direction, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
			return nil
		},
	}
}

// runMigration executes the migration in the given direction.
// ErrNoChange is not treated as an error.
func runMigration(m *migrate.Migrate, direction string) error {
	var err error
	switch direction {
	case directionUp:
		err = m.Up()
	case directionDown:
		err = m.Down()
	default:
		return fmt.Errorf("invalid direction %q", direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
