package synconfig

import (
	"sync/atomic"

	"github.com/synapseql/synapse/internal/id"
)

// State holds a session's Config behind an atomic pointer swap so readers
// never observe a torn value (spec.md invariant: "a session is never
// observed with a partially updated Config; swap is atomic").
type State struct {
	cfg atomic.Pointer[Config]
}

func NewState(initial Config) *State {
	s := &State{}
	s.cfg.Store(&initial)
	return s
}

// Config returns the current Config. The returned value is a copy; mutating
// it has no effect on the session.
func (s *State) Config() Config {
	return *s.cfg.Load()
}

// WithConfig atomically replaces the session's Config.
func (s *State) WithConfig(next Config) {
	s.cfg.Store(&next)
}

func (s *State) DefaultCatalog() id.Id { return s.Config().DefaultCatalog }
func (s *State) DefaultSchema() id.Id  { return s.Config().DefaultSchema }

// Resolve fills ref's catalog/schema from the session defaults.
func (s *State) Resolve(ref id.TableRef) id.ResolvedRef {
	cfg := s.Config()
	return id.Resolve(ref, cfg.DefaultCatalog, cfg.DefaultSchema)
}

// ResolveSchema fills ref's catalog from the session default.
func (s *State) ResolveSchema(ref id.SchemaRef) id.ResolvedSchemaRef {
	cfg := s.Config()
	return id.ResolveSchema(ref, cfg.DefaultCatalog)
}
