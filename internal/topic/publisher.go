// Package topic implements the Topic publisher: the bounded-channel
// backpressure surface that feeds batches into a catalog.Topic's append
// log. Unlike the teacher's IngestionQueue, which drops the oldest event
// once full, a Publisher's Send blocks until there is room — spec.md
// section 4.3 requires a topic's publisher to never drop or reorder
// batches, so dropping is not an option here.
package topic

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/catalog"
)

// Publisher accepts record batches for one Topic and commits them, in
// order, to its AppendLog. Send is safe for concurrent callers; batches
// from a single goroutine are committed in the order Send was called, but
// interleaving across goroutines is not itself ordered (spec.md only
// promises no reordering of what a single publisher session sent).
type Publisher struct {
	topic  *catalog.Topic
	logger *slog.Logger

	metrics MetricsSink

	ch       chan arrow.Record
	done     chan struct{}
	closeMu  sync.Mutex
	closed   bool
	accepted atomic.Int64
}

// MetricsSink receives publisher activity for internal/synmetrics to count,
// kept narrow so this package does not depend on the metrics package.
type MetricsSink interface {
	TopicBatchAccepted(topic string, rows int64)
	TopicSendBlocked(topic string)
}

type noopSink struct{}

func (noopSink) TopicBatchAccepted(string, int64) {}
func (noopSink) TopicSendBlocked(string)          {}

// NewPublisher starts a Publisher for topic with the given channel depth
// (spec.md section 4.3 / synconfig.Config.TopicBufferBatches). depth <= 0
// selects a floor of 1 so Send always has somewhere to block against.
func NewPublisher(t *catalog.Topic, depth int, logger *slog.Logger) *Publisher {
	if depth <= 0 {
		depth = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		topic:   t,
		logger:  logger,
		metrics: noopSink{},
		ch:      make(chan arrow.Record, depth),
		done:    make(chan struct{}),
	}
	go p.drain()
	return p
}

// SetMetrics attaches a MetricsSink. A nil sink restores the no-op default.
func (p *Publisher) SetMetrics(m MetricsSink) {
	if m == nil {
		m = noopSink{}
	}
	p.metrics = m
}

func (p *Publisher) drain() {
	defer close(p.done)
	for rec := range p.ch {
		p.topic.Log.Append(rec)
	}
}

// Send enqueues a batch, blocking until buffer space is available or ctx is
// canceled. It never drops the batch: a full buffer means the caller waits,
// exactly the backpressure spec.md calls for.
func (p *Publisher) Send(ctx context.Context, rec arrow.Record) error {
	select {
	case p.ch <- rec:
		p.accepted.Add(1)
		p.metrics.TopicBatchAccepted(p.topic.Ref().String(), rec.NumRows())
		return nil
	default:
	}

	p.metrics.TopicSendBlocked(p.topic.Ref().String())
	select {
	case p.ch <- rec:
		p.accepted.Add(1)
		p.metrics.TopicBatchAccepted(p.topic.Ref().String(), rec.NumRows())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Accepted reports the number of batches accepted so far (exposed for
// internal/synmetrics).
func (p *Publisher) Accepted() int64 { return p.accepted.Load() }

// Close stops accepting new batches and waits for the drain goroutine to
// commit everything already buffered. Idempotent.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.closeMu.Unlock()

	<-p.done
}
