package sqlite

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations from the embedded files.
func (s *Store) ApplyMigrations() error {
	instance, err := s.migrator()
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrationVersion reports the applied schema version and whether the last
// migration failed halfway.
func (s *Store) MigrationVersion() (version uint, dirty bool, err error) {
	instance, err := s.migrator()
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = instance.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateDown rolls back steps migrations.
func (s *Store) MigrateDown(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("sqlite: steps must be positive, got %d", steps)
	}

	instance, err := s.migrator()
	if err != nil {
		return err
	}
	return instance.Steps(-steps)
}

func (s *Store) migrator() (*migrate.Migrate, error) {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite: migrate driver: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("sqlite: migrate source: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "sqlite", driver)
}
