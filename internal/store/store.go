package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"

	// PostgreSQL driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendMemory   Backend = "memory"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendSQLite, BackendPostgres, BackendMySQL, BackendMemory:
		return b, nil
	}
	return "", fmt.Errorf("unsupported backend: %q", s)
}

// Options configures Open.
type Options struct {
	Backend Backend
	// DSN is a file path for sqlite and a connection string otherwise.
	DSN string
	// SkipMigrate leaves the schema untouched.
	SkipMigrate bool
}

// Store is a SQL-backed Repo.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	backend Backend
	dialect string

	driverName string
	dsn        string
}

var _ Repo = (*Store)(nil)

// Open connects to the configured database, applies backend-specific
// connection settings and migrates the schema to the latest version.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		driverName  string
		dialectName string
		dsn         = opts.DSN
	)

	switch opts.Backend {
	case BackendSQLite, "":
		opts.Backend = BackendSQLite
		driverName, dialectName = "sqlite", dialect.SQLite
		if dsn == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		}
	case BackendPostgres:
		driverName, dialectName = "pgx", dialect.Postgres
	case BackendMySQL:
		driverName, dialectName = "mysql", dialect.MySQL
		normalized, err := normalizeMySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		dsn = normalized
	default:
		return nil, fmt.Errorf("open store: unsupported backend %q", opts.Backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if opts.Backend == BackendSQLite {
		// A single connection keeps per-connection pragmas in effect and
		// avoids "database is locked" errors.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{
		db:      db,
		drv:     entsql.OpenDB(dialectName, db),
		backend: opts.Backend,
		dialect: dialectName,

		driverName: driverName,
		dsn:        dsn,
	}

	if !opts.SkipMigrate {
		if _, err := s.Migrate(ctx, LatestVersion); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Backend returns the backend the store was opened with.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// builder returns a query builder for the store's dialect.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

func (s *Store) exec(ctx context.Context, query string, args []any) error {
	return s.drv.Exec(ctx, query, args, nil)
}

func (s *Store) query(ctx context.Context, query string, args []any) (*entsql.Rows, error) {
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// normalizeMySQLDSN enables the options the schema migrations depend on.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.MultiStatements = true
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINA_DB environment variable
// 2. $XDG_DATA_HOME/lina/lina.db
// 3. ~/.local/share/lina/lina.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lina", "lina.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
