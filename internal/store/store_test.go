package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrate_DownAndUp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res, err := s.Migrate(ctx, LatestVersion)
	if err != nil {
		t.Fatalf("migrate latest: %v", err)
	}
	if res.Changed || res.To != 3 {
		t.Errorf("re-running latest = %+v, want unchanged at 3", res)
	}

	res, err = s.Migrate(ctx, 1)
	if err != nil {
		t.Fatalf("migrate to 1: %v", err)
	}
	if !res.Changed || res.From != 3 || res.To != 1 {
		t.Errorf("migrate to 1 = %+v", res)
	}
	if _, err := s.QueryMasteryEvents(ctx, QueryOpts{}); err == nil {
		t.Error("mastery_events should not exist at version 1")
	}
	if _, err := s.QueryFlow(ctx, QueryOpts{}); err == nil {
		t.Error("flow_log should not exist at version 1")
	}

	if _, err := s.Migrate(ctx, 0); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := s.Outcomes(ctx, "s"); err == nil {
		t.Error("outcomes should not exist after full rollback")
	}

	if _, err := s.Migrate(ctx, LatestVersion); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}
	if _, err := s.Outcomes(ctx, "s"); err != nil {
		t.Errorf("outcomes after re-migration: %v", err)
	}
}

func TestOpen_UnsupportedBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"sqlite", "postgres", "mysql", "memory"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q): %v", name, err)
		}
	}
	if _, err := ParseBackend("postgresql"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got, err := normalizeMySQLDSN("root:secret@tcp(localhost:3306)/lina")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := mysql.ParseDSN(got)
	if err != nil {
		t.Fatalf("normalized dsn %q does not parse: %v", got, err)
	}
	if !cfg.MultiStatements || !cfg.ParseTime {
		t.Errorf("normalized dsn %q lacks multiStatements/parseTime", got)
	}
	if cfg.DBName != "lina" || cfg.Addr != "localhost:3306" {
		t.Errorf("normalized dsn %q lost connection details", got)
	}

	if _, err := normalizeMySQLDSN("not a dsn"); err == nil {
		t.Error("expected error for malformed dsn")
	}
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "custom", "x.db")
		t.Setenv("LINA_DB", p)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("got %q, want %q", got, p)
		}
		if _, err := os.Stat(filepath.Dir(p)); err != nil {
			t.Errorf("parent dir not created: %v", err)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("LINA_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, "lina", "lina.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
