package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// LatestVersion migrates to the newest embedded schema version.
const LatestVersion = -1

// MigrateResult reports what a migration run did.
type MigrateResult struct {
	From    uint
	To      uint
	Changed bool
}

// Migrate runs schema migrations for the store's backend.
//   - If target < 0, it migrates to the latest version.
//   - If target == 0, it rolls back all migrations.
//   - If target > 0, it migrates to the specified version.
func (s *Store) Migrate(ctx context.Context, target int) (MigrateResult, error) {
	// The migrate instance owns its connection and closes it when done.
	db, err := sql.Open(s.driverName, s.dsn)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return MigrateResult{}, fmt.Errorf("ping database: %w", err)
	}

	var driver database.Driver
	switch s.backend {
	case BackendSQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case BackendPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case BackendMySQL:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		err = fmt.Errorf("migrations are not supported for backend %q", s.backend)
	}
	if err != nil {
		db.Close()
		return MigrateResult{}, fmt.Errorf("create %s migrate driver: %w", s.backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(s.backend))
	if err != nil {
		driver.Close()
		return MigrateResult{}, fmt.Errorf("access migrations directory: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		driver.Close()
		return MigrateResult{}, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "lina", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return MigrateResult{}, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrateResult{}, fmt.Errorf("get current migration version: %w", err)
	}
	if dirty {
		return MigrateResult{}, fmt.Errorf("database is in a dirty state at version %d; fix manually or force the version", current)
	}

	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return MigrateResult{From: current, To: current}, nil
	}
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migrate to version %d: %w", target, err)
	}

	next, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrateResult{}, fmt.Errorf("get migrated version: %w", err)
	}
	return MigrateResult{From: current, To: next, Changed: true}, nil
}
