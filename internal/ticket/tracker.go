// Package ticket implements the one-shot ticket tracker: the map from an
// opaque Flight SQL ticket to the Task a prior GetFlightInfo call staged,
// taken exactly once by the matching DoGet. This is spec.md's hardest
// concurrency surface: a ticket must be redeemable by exactly one DoGet,
// racing redemptions must never both see the same Task, and an unredeemed
// ticket must eventually be reclaimed.
package ticket

import (
	"context"
	"encoding/base64"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/synapseql/synapse/internal/planexec"
	"github.com/synapseql/synapse/internal/synerr"
)

// T is the opaque ticket handed back to a Flight SQL client. Its bytes carry
// no meaning to the client; only the Tracker that minted it can redeem it.
type T []byte

func newTicket() T {
	id := uuid.New()
	return T(id[:])
}

func (t T) String() string { return base64.RawURLEncoding.EncodeToString(t) }

func keyOf(t T) string { return string(t) }

// Task is a staged, at-most-once-streamable unit of work: the result of
// planning a statement, waiting for its ticket to be redeemed. A Task may be
// streamed at most once; a second Stream call reports InvalidArgument. (A
// second redemption of its ticket never reaches Stream: Take reports
// ok=false.)
type Task struct {
	schema   *arrow.Schema
	ordered  bool
	numRows  *uint64
	byteSize *uint64

	open     func(ctx context.Context) (planexec.RecordStream, error)
	consumed atomic.Bool
}

func newTask(schema *arrow.Schema, ordered bool, numRows, byteSize *uint64, open func(ctx context.Context) (planexec.RecordStream, error)) *Task {
	return &Task{schema: schema, ordered: ordered, numRows: numRows, byteSize: byteSize, open: open}
}

func (t *Task) Schema() *arrow.Schema { return t.schema }
func (t *Task) Ordered() bool         { return t.ordered }
func (t *Task) NumRows() (uint64, bool) {
	if t.numRows == nil {
		return 0, false
	}
	return *t.numRows, true
}
func (t *Task) ByteSize() (uint64, bool) {
	if t.byteSize == nil {
		return 0, false
	}
	return *t.byteSize, true
}

// Stream opens the Task's underlying RecordStream. It may succeed at most
// once per Task; subsequent calls fail even if the first stream was never
// drained.
func (t *Task) Stream(ctx context.Context) (planexec.RecordStream, error) {
	if !t.consumed.CompareAndSwap(false, true) {
		return nil, synerr.InvalidArgument("task already streamed")
	}
	return t.open(ctx)
}

type entry struct {
	task      *Task
	expiresAt time.Time
}

// MetricsSink receives ticket lifecycle events for internal/synmetrics to
// count, kept as a narrow interface so this package does not depend on the
// metrics package. A nil sink (the New default) is a no-op.
type MetricsSink interface {
	TicketIssued()
	TicketRedeemed()
	TicketExpired()
}

type noopSink struct{}

func (noopSink) TicketIssued()   {}
func (noopSink) TicketRedeemed() {}
func (noopSink) TicketExpired()  {}

// Tracker is the ticket -> Task map. Zero value is not usable; use New.
type Tracker struct {
	ttl     time.Duration
	metrics MetricsSink

	mu      sync.Mutex
	pending map[string]entry

	now func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	stopped  chan struct{}
}

// New creates a Tracker whose tickets expire after ttl if never redeemed,
// and starts its background sweep goroutine. Call Close to stop the sweep.
func New(ttl time.Duration) *Tracker {
	t := &Tracker{
		ttl:     ttl,
		metrics: noopSink{},
		pending: make(map[string]entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go t.sweepLoop()
	return t
}

// SetMetrics attaches a MetricsSink to record issue/redeem/expire events. A
// nil sink restores the no-op default.
func (tr *Tracker) SetMetrics(m MetricsSink) {
	if m == nil {
		m = noopSink{}
	}
	tr.mu.Lock()
	tr.metrics = m
	tr.mu.Unlock()
}

// Put stages a Task and mints a ticket for it. The Task becomes redeemable
// by exactly one Take call, or is reclaimed after ttl if nobody redeems it.
func (tr *Tracker) Put(schema *arrow.Schema, ordered bool, numRows, byteSize *uint64, open func(ctx context.Context) (planexec.RecordStream, error)) (T, *Task) {
	task := newTask(schema, ordered, numRows, byteSize, open)
	tk := newTicket()

	tr.mu.Lock()
	tr.pending[keyOf(tk)] = entry{task: task, expiresAt: tr.now().Add(tr.ttl)}
	tr.mu.Unlock()

	tr.metrics.TicketIssued()
	return tk, task
}

// Take redeems a ticket, removing it from the tracker so no later call can
// redeem it again. The second of two concurrent Take calls for the same
// ticket always observes ok=false; this is the linearization point for
// Flight SQL's "a ticket is good for exactly one DoGet" rule.
func (tr *Tracker) Take(tk T) (*Task, bool) {
	key := keyOf(tk)

	tr.mu.Lock()
	defer tr.mu.Unlock()

	e, ok := tr.pending[key]
	if !ok {
		return nil, false
	}
	delete(tr.pending, key)
	if tr.now().After(e.expiresAt) {
		tr.metrics.TicketExpired()
		return nil, false
	}
	tr.metrics.TicketRedeemed()
	return e.task, true
}

// Pending reports the number of unredeemed tickets still held, including
// expired ones the sweep has not yet evicted. Exposed for
// metrics (internal/synmetrics) and tests.
func (tr *Tracker) Pending() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.pending)
}

func (tr *Tracker) sweepLoop() {
	defer close(tr.stopped)
	interval := tr.ttl / 4
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tr.stopCh:
			return
		case <-ticker.C:
			tr.evictExpired()
		}
	}
}

func (tr *Tracker) evictExpired() {
	now := tr.now()
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for k, e := range tr.pending {
		if now.After(e.expiresAt) {
			delete(tr.pending, k)
			tr.metrics.TicketExpired()
		}
	}
}

// Close stops the background sweep goroutine. Idempotent.
func (tr *Tracker) Close() {
	tr.stopOnce.Do(func() {
		close(tr.stopCh)
	})
	<-tr.stopped
}
