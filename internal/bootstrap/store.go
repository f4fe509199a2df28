// Package bootstrap implements the daemon's SQLite-backed continuity
// store: a durable log of cluster bootstrap events (catalogs/schemas
// registered at startup) and issued auth tokens, so a restarted daemon can
// report what existed before it came back up. The live namespace tree
// itself is rebuilt in memory on every start (internal/catalog); this
// store exists only so a history survives across restarts (RecentEvents
// reads it back; no synapsectl command exposes it), grounded on the teacher's internal/storage
// package (SQLiteStore: WAL mode, versioned migrations, idempotent Close).
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const walCheckpointInterval = 5 * time.Minute

// Store persists cluster bootstrap events and auth token history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	stopCh    chan struct{}
	stoppedCh chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// DefaultDBPath returns the default continuity database path,
// ~/.synapse/bootstrap.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".synapse", "bootstrap.db"), nil
}

// Open opens (creating if necessary) the continuity store at dbPath. An
// empty dbPath selects DefaultDBPath. logger may be nil.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bootstrap store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open bootstrap store: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to bootstrap store: %w", err)
	}

	s := &Store{
		db:        db,
		logger:    logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run bootstrap store migrations: %w", err)
	}

	go s.walCheckpointLoop()
	return s, nil
}

// Close closes the store. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.stoppedCh

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

func (s *Store) walCheckpointLoop() {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(walCheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				s.logger.Warn("wal checkpoint failed", "error", err)
			}
		}
	}
}

// RecordRelationCreated appends a bootstrap event for a catalog, schema,
// table, topic, or view registered at startup or via DDL.
func (s *Store) RecordRelationCreated(ctx context.Context, kind, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bootstrap_events (kind, path, occurred_at_unix_ms)
		VALUES (?, ?, ?)
	`, kind, path, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record bootstrap event: %w", err)
	}
	return nil
}

// Event is one row of bootstrap history.
type Event struct {
	Kind           string
	Path           string
	OccurredAtUnix int64
}

// RecentEvents returns up to limit most recent bootstrap events, most
// recent first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, path, occurred_at_unix_ms FROM bootstrap_events
		ORDER BY occurred_at_unix_ms DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bootstrap events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Kind, &e.Path, &e.OccurredAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan bootstrap event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordTokenIssued records that an auth token was minted, keyed by its
// fingerprint (never the raw token) so the history is safe to keep.
func (s *Store) RecordTokenIssued(ctx context.Context, fingerprint, subject string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (fingerprint, subject, issued_at_unix_ms)
		VALUES (?, ?, ?)
	`, fingerprint, subject, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record issued token: %w", err)
	}
	return nil
}

// RecordTokenRevoked marks a previously issued token as revoked.
func (s *Store) RecordTokenRevoked(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE auth_tokens SET revoked_at_unix_ms = ? WHERE fingerprint = ?
	`, time.Now().UnixMilli(), fingerprint)
	if err != nil {
		return fmt.Errorf("failed to record revoked token: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	currentVersion := 0
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	if err := row.Scan(&currentVersion); err != nil {
		if err == sql.ErrNoRows || isTableNotFoundError(err) {
			currentVersion = 0
		} else {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms)
			VALUES (?, ?)
		`, m.version, time.Now().UnixMilli()); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bootstrap_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  path TEXT NOT NULL,
  occurred_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bootstrap_events_time ON bootstrap_events(occurred_at_unix_ms DESC);

CREATE TABLE IF NOT EXISTS auth_tokens (
  fingerprint TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  issued_at_unix_ms INTEGER NOT NULL,
  revoked_at_unix_ms INTEGER
);
`
