// Package prepared implements the PreparedStatements handle table: an
// opaque handle -> SQL text map a client builds with CreatePreparedStatement.
// Query reads a handle's text back; no Flight SQL verb in internal/flightsql
// calls it, so a prepared statement cannot be executed through the server.
// synapse has no per-statement server-side resources to release, so Close
// only forgets the handle early. Handles also age out after an optional
// TTL (expired entries are evicted on Create, and an expired handle is
// dropped when Query finds it) so a client that never closes one doesn't
// leak memory forever.
package prepared

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/synapseql/synapse/internal/synerr"
)

// Handle is the opaque identifier returned from CreatePreparedStatement.
type Handle []byte

func newHandle() Handle {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return Handle(buf)
}

func (h Handle) String() string { return base64.RawURLEncoding.EncodeToString(h) }

func keyOf(h Handle) string { return string(h) }

type entry struct {
	query     string
	expiresAt time.Time
}

// Table is the handle -> SQL text map for one session.
type Table struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]entry
}

// NewTable creates a Table. ttl <= 0 disables expiry: handles then live
// until explicitly closed or the session ends.
func NewTable(ttl time.Duration) *Table {
	return &Table{ttl: ttl, now: time.Now, items: make(map[string]entry)}
}

// Create stages query under a freshly minted handle.
func (t *Table) Create(query string) Handle {
	t.evictExpired()

	h := newHandle()
	t.mu.Lock()
	defer t.mu.Unlock()
	e := entry{query: query}
	if t.ttl > 0 {
		e.expiresAt = t.now().Add(t.ttl)
	}
	t.items[keyOf(h)] = e
	return h
}

// Query looks up the SQL text behind handle.
func (t *Table) Query(h Handle) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.items[keyOf(h)]
	if !ok {
		return "", synerr.New(synerr.KindInvalidArgument, "unknown prepared statement handle")
	}
	if t.ttl > 0 && t.now().After(e.expiresAt) {
		delete(t.items, keyOf(h))
		return "", synerr.New(synerr.KindInvalidArgument, "prepared statement handle expired")
	}
	return e.query, nil
}

// Close releases handle. Per spec.md this is a documented no-op wire-level
// operation: it simply forgets the handle early instead of waiting for TTL
// eviction.
func (t *Table) Close(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, keyOf(h))
}

func (t *Table) evictExpired() {
	if t.ttl <= 0 {
		return
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, e := range t.items {
		if now.After(e.expiresAt) {
			delete(t.items, k)
		}
	}
}

// Len reports the number of live handles (tests, internal/synmetrics).
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
