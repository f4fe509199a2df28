package bootstrap

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bootstrap.db")
	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDatabaseAndDirectory(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "bootstrap.db")

	s, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestRecordAndListRelationEvents(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RecordRelationCreated(ctx, "catalog", "default"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRelationCreated(ctx, "schema", "default.public"); err != nil {
		t.Fatal(err)
	}

	events, err := s.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Path != "default.public" {
		t.Fatalf("expected most recent event first, got %q", events[0].Path)
	}
}

func TestTokenIssuedAndRevoked(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RecordTokenIssued(ctx, "fp-1", "svc-a"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordTokenRevoked(ctx, "fp-1"); err != nil {
		t.Fatal(err)
	}

	var revokedAt sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT revoked_at_unix_ms FROM auth_tokens WHERE fingerprint = ?`, "fp-1")
	if err := row.Scan(&revokedAt); err != nil {
		t.Fatal(err)
	}
	if !revokedAt.Valid || revokedAt.Int64 == 0 {
		t.Fatal("expected revoked_at_unix_ms to be set")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
