package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

const migrationsTable = "storefront_schema_migrations"

// newMigrator builds a migrate instance over the store's pool. The returned
// release func must be called when done: it gives back the dedicated
// postgres connection and never closes the shared *sql.DB.
func (s *Store) newMigrator(ctx context.Context) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, "migrations/"+string(s.dialect))
	if err != nil {
		return nil, nil, fmt.Errorf("could not open migration source: %w", err)
	}

	var (
		driver database.Driver
		conn   *sql.Conn
	)
	switch s.dialect {
	case DialectSQLite:
		// The sqlite driver's Close closes the *sql.DB, so it is never closed here.
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{MigrationsTable: migrationsTable})
	case DialectPostgres:
		conn, err = s.db.Conn(ctx)
		if err == nil {
			driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
			if err != nil {
				conn.Close()
			}
		}
	default:
		err = fmt.Errorf("no migration driver for dialect %q", s.dialect)
	}
	if err != nil {
		src.Close()
		return nil, nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(s.dialect), driver)
	if err != nil {
		src.Close()
		if conn != nil {
			conn.Close()
		}
		return nil, nil, fmt.Errorf("could not create migrate instance: %w", err)
	}

	release := func() {
		if conn != nil {
			srcErr, dbErr := m.Close()
			if srcErr != nil || dbErr != nil {
				s.log.Warn("closing migrator failed", "source_error", srcErr, "database_error", dbErr)
			}
			return
		}
		if err := src.Close(); err != nil {
			s.log.Warn("closing migration source failed", "error", err)
		}
	}
	return m, release, nil
}

// RunMigrations brings the schema up to date. Existing data is kept.
func (s *Store) RunMigrations(ctx context.Context) error {
	m, release, err := s.newMigrator(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	s.log.Ctx(ctx).Info("database migrations completed", "version", version, "dirty", dirty)
	return nil
}

// ResetSchema drops every table owned by the migrations and recreates them
// empty. All stored products and orders are lost; callers must only invoke
// it on explicit operator request.
func (s *Store) ResetSchema(ctx context.Context) error {
	m, release, err := s.newMigrator(ctx)
	if err != nil {
		return err
	}
	defer release()

	s.log.Ctx(ctx).Warn("resetting database schema, all data will be deleted")

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not roll back migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
