// Package synmetrics exposes the engine's Prometheus metrics, grounded on
// the pack's alert-history service handlers (its PrometheusAlertsMetrics
// collector): a struct of promauto-registered counters/gauges/histograms
// with nil-safe recording methods, so a *Metrics can be left nil in tests
// or tools that don't care about observability.
package synmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ticket tracker, topic publisher, and DDL activity across
// the engine. All metrics are prefixed "synapse_" to keep the namespace
// unambiguous alongside other services on a shared registry.
type Metrics struct {
	ticketsIssued   prometheus.Counter
	ticketsRedeemed prometheus.Counter
	ticketsExpired  prometheus.Counter
	ticketsPending  prometheus.Gauge

	queryDuration *prometheus.HistogramVec

	topicBatchesAccepted *prometheus.CounterVec
	topicRowsAccepted    *prometheus.CounterVec
	topicSendBlocked     *prometheus.CounterVec

	ddlOpsTotal *prometheus.CounterVec
}

// New registers and returns the engine's metrics collector against reg. A
// nil reg uses the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ticketsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "synapse_tickets_issued_total",
			Help: "Total DoGet tickets minted by the ticket tracker.",
		}),
		ticketsRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Name: "synapse_tickets_redeemed_total",
			Help: "Total tickets successfully redeemed via Take.",
		}),
		ticketsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "synapse_tickets_expired_total",
			Help: "Total tickets that expired before being redeemed.",
		}),
		ticketsPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "synapse_tickets_pending",
			Help: "Current number of unredeemed tickets held by the tracker.",
		}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "synapse_query_duration_seconds",
			Help:    "Planning duration for GetFlightInfo requests, by outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}), // ok, error

		topicBatchesAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_topic_batches_accepted_total",
			Help: "Total record batches accepted by a topic's publisher.",
		}, []string{"topic"}),
		topicRowsAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_topic_rows_accepted_total",
			Help: "Total rows accepted by a topic's publisher.",
		}, []string{"topic"}),
		topicSendBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_topic_send_blocked_total",
			Help: "Total Send calls that had to block on a full topic buffer.",
		}, []string{"topic"}),

		ddlOpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_ddl_operations_total",
			Help: "Total DDL operations by kind and outcome.",
		}, []string{"op", "outcome"}), // op: create_catalog|create_schema|create_table|create_topic|create_view
	}
}

// TicketIssued records a ticket minted by Put.
func (m *Metrics) TicketIssued() {
	if m == nil {
		return
	}
	m.ticketsIssued.Inc()
	m.ticketsPending.Inc()
}

// TicketRedeemed records a successful Take.
func (m *Metrics) TicketRedeemed() {
	if m == nil {
		return
	}
	m.ticketsRedeemed.Inc()
	m.ticketsPending.Dec()
}

// TicketExpired records a ticket dropped after expiry, by the sweep loop or
// by a Take that found it expired.
func (m *Metrics) TicketExpired() {
	if m == nil {
		return
	}
	m.ticketsExpired.Inc()
	m.ticketsPending.Dec()
}

// QueryPlanned records how long planning a statement took and whether it
// succeeded.
func (m *Metrics) QueryPlanned(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.queryDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// TopicBatchAccepted records one batch accepted by topic's publisher.
func (m *Metrics) TopicBatchAccepted(topic string, rows int64) {
	if m == nil {
		return
	}
	m.topicBatchesAccepted.WithLabelValues(topic).Inc()
	m.topicRowsAccepted.WithLabelValues(topic).Add(float64(rows))
}

// TopicSendBlocked records a Send call that had to wait for buffer space.
func (m *Metrics) TopicSendBlocked(topic string) {
	if m == nil {
		return
	}
	m.topicSendBlocked.WithLabelValues(topic).Inc()
}

// DDLOperation records a DDL RPC outcome.
func (m *Metrics) DDLOperation(op string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.ddlOpsTotal.WithLabelValues(op, outcome).Inc()
}
