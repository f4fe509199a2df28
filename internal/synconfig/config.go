// Package synconfig holds the session-scoped Config record: default
// catalog/schema, SQL dialect, and the engine knobs that travel with a
// session across RPCs. Config values are immutable; updates always produce
// a new Config (see state.go for how a session swaps to one atomically).
package synconfig

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/synapseql/synapse/internal/id"
)

// Config is a session's configuration record. Every field has a JSON tag
// because Config crosses the wire as UTF-8 JSON bytes (spec.md section 6).
type Config struct {
	DefaultCatalog id.Id `json:"default_catalog"`
	DefaultSchema  id.Id `json:"default_schema"`

	// SQLParserDialect names a SQL dialect, e.g. "generic", "postgres",
	// "mysql". It is stored and returned with the Config; the planexec
	// MemoryBackend does not read it and always parses its one fixed subset.
	SQLParserDialect string `json:"sql_parser_dialect"`

	// TicketTTL bounds how long an unconsumed ticket survives before
	// administrative eviction (spec.md section 3, default one hour).
	TicketTTL time.Duration `json:"ticket_ttl"`

	// TopicBufferBatches bounds a topic's publisher channel / append-log
	// staging depth before send() blocks for backpressure.
	TopicBufferBatches int `json:"topic_buffer_batches"`
}

// Default returns the engine's baseline Config.
func Default() Config {
	return Config{
		DefaultCatalog:     "default",
		DefaultSchema:      "public",
		SQLParserDialect:   "generic",
		TicketTTL:          time.Hour,
		TopicBufferBatches: 64,
	}
}

// Builder constructs a new Config by cloning a base and applying overrides,
// mirroring the source's `config.into_builder().default_catalog(x).build()`
// pattern without mutating the original.
type Builder struct {
	cfg Config
}

func (c Config) IntoBuilder() Builder {
	return Builder{cfg: c}
}

func (b Builder) DefaultCatalog(v id.Id) Builder {
	b.cfg.DefaultCatalog = v
	return b
}

func (b Builder) DefaultSchema(v id.Id) Builder {
	b.cfg.DefaultSchema = v
	return b
}

func (b Builder) SQLParserDialect(v string) Builder {
	b.cfg.SQLParserDialect = v
	return b
}

func (b Builder) TicketTTL(v time.Duration) Builder {
	b.cfg.TicketTTL = v
	return b
}

func (b Builder) TopicBufferBatches(v int) Builder {
	b.cfg.TopicBufferBatches = v
	return b
}

func (b Builder) Build() Config { return b.cfg }

// MarshalBytes serializes Config as canonical JSON for the wire.
func (c Config) MarshalBytes() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalBytes parses Config from wire bytes, rejecting unknown keys so a
// client/server skew is reported as a structured error instead of silently
// dropping fields (spec.md section 6).
func UnmarshalBytes(data []byte) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
