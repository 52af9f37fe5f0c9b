package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookclubapp/bookclub-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Every pooled connection must enforce foreign keys.
	for range 4 {
		var fk int
		if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("query foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Errorf("expected foreign_keys=1, got %d", fk)
		}
	}

	tables := []string{
		"users", "book_groups", "group_members", "images",
		"book_categories", "books", "opinions", "goose_db_version",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	// Migrations already applied must be skipped.
	s, err = Open(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s.Close()
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.(*queries).db.ExecContext(ctx, `
			INSERT INTO users (id, created_at, updated_at, email, password_hash)
			VALUES ('user-1', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z', 'a@b.c', 'x')`); err != nil {
			t.Fatalf("insert: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.GetUser(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected rolled back user to be missing, got %v", err)
	}
}

func TestMapErr(t *testing.T) {
	err := mapErr(errors.New("constraint failed: UNIQUE constraint failed: book_groups.slug (2067)"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), "book_groups.slug") {
		t.Errorf("expected constraint target in message, got %q", err.Error())
	}

	err = mapErr(errors.New("constraint failed: FOREIGN KEY constraint failed (787)"))
	if !errors.Is(err, store.ErrReferenced) {
		t.Errorf("expected ErrReferenced, got %v", err)
	}
}
