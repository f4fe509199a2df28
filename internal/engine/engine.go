// Package engine ties together the catalog, session config, ticket tracker,
// and SQL backend into the per-connection Context RPC handlers operate on,
// plus the Engine resources (background goroutines) a Context starts and
// shuts down exactly once.
package engine

import (
	"context"
	"sync"

	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/planexec"
	"github.com/synapseql/synapse/internal/synconfig"
	"github.com/synapseql/synapse/internal/synerr"
	"github.com/synapseql/synapse/internal/synmetrics"
	"github.com/synapseql/synapse/internal/ticket"
)

// Engine holds the resources a running Context owns: the ticket tracker and
// its background sweep. Start/Shutdown are the only two operations; there
// is nothing else to a Engine's lifetime.
type Engine struct {
	Tickets *ticket.Tracker
	Metrics *synmetrics.Metrics
}

// Start brings up a new Engine's background resources. metrics may be nil,
// in which case the Engine records nothing (synmetrics methods are
// nil-safe).
func Start(cfg synconfig.Config, metrics *synmetrics.Metrics) (*Engine, error) {
	tr := ticket.New(cfg.TicketTTL)
	tr.SetMetrics(metrics)
	return &Engine{Tickets: tr, Metrics: metrics}, nil
}

// Shutdown tears down the Engine's background resources. Safe to call once;
// Context guards against a second call (see Context.Shutdown).
func (e *Engine) Shutdown(ctx context.Context) error {
	e.Tickets.Close()
	return nil
}

// Context is the per-connection handle RPC handlers hang operations off of:
// a session Config, a reference to the shared Cluster, the SQL Backend, and
// the Engine resources behind a mutex-guarded nilable slot so Shutdown is
// idempotent and a Context can be observed as "shut down" by every holder at
// once. This mirrors the source's `Arc<Mutex<Option<Engine>>>` slot, which
// Go's atomic.Pointer can't express directly since Shutdown must also run
// the Engine's async teardown while holding exclusivity.
type Context struct {
	state   *synconfig.State
	cluster *catalog.Cluster
	backend planexec.Backend

	mu     sync.Mutex
	engine *Engine
}

// New starts a fresh Context: a new Engine, a fresh session Config, and a
// shared reference to cluster and backend. metrics may be nil.
func New(cluster *catalog.Cluster, backend planexec.Backend, initial synconfig.Config, metrics *synmetrics.Metrics) (*Context, error) {
	eng, err := Start(initial, metrics)
	if err != nil {
		return nil, err
	}
	return &Context{
		state:   synconfig.NewState(initial),
		cluster: cluster,
		backend: backend,
		engine:  eng,
	}, nil
}

func (c *Context) Cluster() *catalog.Cluster  { return c.cluster }
func (c *Context) Config() synconfig.Config   { return c.state.Config() }
func (c *Context) WithConfig(cfg synconfig.Config) { c.state.WithConfig(cfg) }

func (c *Context) DefaultCatalog() id.Id { return c.state.DefaultCatalog() }
func (c *Context) DefaultSchema() id.Id  { return c.state.DefaultSchema() }

// Resolve fills ref's catalog/schema from the session's current defaults.
func (c *Context) Resolve(ref id.TableRef) id.ResolvedRef { return c.state.Resolve(ref) }

// UseCatalog switches the session's default catalog after confirming it
// exists, spec.md section 4.7's "USE CATALOG" semantics.
func (c *Context) UseCatalog(name id.Id) error {
	if _, ok := c.cluster.Catalog(name); !ok {
		return synerr.CatalogNotFound(string(name))
	}
	cfg := c.state.Config().IntoBuilder().DefaultCatalog(name.Static()).Build()
	c.state.WithConfig(cfg)
	return nil
}

// UseSchema switches the session's default schema after confirming it
// exists under the current default catalog.
func (c *Context) UseSchema(name id.Id) error {
	cat, ok := c.cluster.Catalog(c.DefaultCatalog())
	if !ok {
		return synerr.CatalogNotFound(string(c.DefaultCatalog()))
	}
	if _, ok := cat.Schema(name); !ok {
		return synerr.SchemaNotFound(string(name))
	}
	cfg := c.state.Config().IntoBuilder().DefaultSchema(name.Static()).Build()
	c.state.WithConfig(cfg)
	return nil
}

// Plan resolves and plans a SQL statement against the session's current
// defaults.
func (c *Context) Plan(ctx context.Context, sql string) (*planexec.Plan, error) {
	return c.backend.Plan(ctx, c.state.Config(), sql)
}

// Tickets returns the Context's ticket tracker, or an error if the Context
// has already been shut down.
func (c *Context) Tickets() (*ticket.Tracker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return nil, synerr.New(synerr.KindServerError, "context is shut down")
	}
	return c.engine.Tickets, nil
}

// Metrics returns the Context's metrics collector, or nil if the Context
// has already been shut down or none was configured.
func (c *Context) Metrics() *synmetrics.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return nil
	}
	return c.engine.Metrics
}

// Shutdown tears down the Context's Engine exactly once; a second call is a
// no-op, mirroring `std::mem::take` under a lock in the source.
func (c *Context) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	eng := c.engine
	c.engine = nil
	c.mu.Unlock()

	if eng == nil {
		return nil
	}
	return eng.Shutdown(ctx)
}
