package database

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus describes the schema version currently applied
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// migrationDatabaseURL reads the database location straight from the environment.
// Migrations only need the database settings, not the full service config.
func migrationDatabaseURL() string {
	return ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME"))
}

// MigrateUp runs all pending migrations against the configured database
func MigrateUp() error {
	return RunMigrationsWithURL(migrationDatabaseURL())
}

// MigrateDown rolls back the given number of migrations
func MigrateDown(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	return withMigrate(migrationDatabaseURL(), func(m *migrate.Migrate) error {
		err := m.Steps(-steps)
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migrations to roll back")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}

		version, _, _ := m.Version()
		log.WithField("version", version).Info("Rolled back migrations")
		return nil
	})
}

// MigrateStatus reports the currently applied migration version
func MigrateStatus() (*MigrationStatus, error) {
	status := &MigrationStatus{}
	err := withMigrate(migrationDatabaseURL(), func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		status.Version = version
		status.Dirty = dirty
		status.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// RunMigrationsWithURL runs all pending migrations with a custom database URL
// This is useful for test environments where the URL is dynamically generated
func RunMigrationsWithURL(databaseURL string) error {
	return withMigrate(databaseURL, func(m *migrate.Migrate) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("No new migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		version, _, _ := m.Version()
		log.WithField("version", version).Info("Database migrated")
		return nil
	})
}

// withMigrate opens a migrate instance over the embedded migrations and closes it afterwards
func withMigrate(databaseURL string, fn func(m *migrate.Migrate) error) error {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*config.ConnConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}
