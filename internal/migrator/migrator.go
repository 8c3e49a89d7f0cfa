// Package migrator applies the embedded SQL schema with golang-migrate.
package migrator

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/migrations"
)

// Migrator runs schema migrations from a filesystem of .sql files.
type Migrator struct {
	migrationsFS fs.FS
	log          *logger.Logger
}

// New returns a Migrator over the embedded migrations.
func New(log *logger.Logger) *Migrator {
	if log == nil {
		log = logger.Get()
	}
	return &Migrator{migrationsFS: migrations.FS, log: log}
}

// NewWithFS creates a Migrator reading migrations from migrationsFS.
func NewWithFS(migrationsFS fs.FS) (*Migrator, error) {
	if migrationsFS == nil {
		return nil, errors.New("migrationsFS cannot be nil")
	}
	return &Migrator{migrationsFS: migrationsFS, log: logger.Get()}, nil
}

func (m *Migrator) open(databaseURL string) (*migrate.Migrate, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	source, err := iofs.New(m.migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	mg, err := migrate.NewWithSourceInstance("iofs", source, convertToPgx5URL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return mg, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func (m *Migrator) Up(databaseURL string) error {
	mg, err := m.open(databaseURL)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Debug().Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	m.log.Info().Msg("migrations applied")
	return nil
}

// Down rolls back every migration.
func (m *Migrator) Down(databaseURL string) error {
	mg, err := m.open(databaseURL)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version and dirty state.
func (m *Migrator) Version(databaseURL string) (version uint, dirty bool, err error) {
	mg, err := m.open(databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer mg.Close()

	version, dirty, err = mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get version: %w", err)
	}
	return version, dirty, nil
}

// convertToPgx5URL rewrites postgres:// URLs to the pgx5:// scheme the
// pgx/v5 migrate driver registers.
func convertToPgx5URL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
