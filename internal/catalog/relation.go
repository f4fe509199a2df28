package catalog

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/id"
)

// Relation is the tagged union of table-like objects a Schema can hold:
// Table, Topic, or View. It is the idiomatic-Go substitute for the source's
// enum Table-like variant.
type Relation interface {
	Ref() id.ResolvedRef
	ArrowSchema() *arrow.Schema
	relationTag()
}

// TableInfo carries variant-specific metadata for an ordinary table.
type TableInfo struct {
	// Comment is a free-form description; storage layout is out of scope.
	Comment string
}

// TopicInfo carries variant-specific metadata for a topic.
type TopicInfo struct {
	Comment string
	// BufferBatches bounds the topic's append log / publisher channel depth.
	// Zero selects the cluster default (see synconfig.Config.TopicBufferBatches).
	BufferBatches int
}

// ViewInfo carries variant-specific metadata for a view.
type ViewInfo struct {
	Query string // the SQL expression the view materializes on read
}

// Table is an ordinary relation with no streaming behavior.
type Table struct {
	ref    id.ResolvedRef
	schema *arrow.Schema
	Info   TableInfo

	// Rows backs the in-memory reference executor (internal/planexec). A
	// real deployment would source this from the storage layer instead;
	// that layer is out of scope per spec.md section 1.
	Rows []arrow.Record
}

func NewTable(ref id.ResolvedRef, schema *arrow.Schema, info TableInfo) *Table {
	return &Table{ref: ref, schema: schema, Info: info}
}

func (t *Table) Ref() id.ResolvedRef        { return t.ref }
func (t *Table) ArrowSchema() *arrow.Schema { return t.schema }
func (*Table) relationTag()                 {}

// View is a named SQL expression materialized on read.
type View struct {
	ref    id.ResolvedRef
	schema *arrow.Schema
	Info   ViewInfo
}

func NewView(ref id.ResolvedRef, schema *arrow.Schema, info ViewInfo) *View {
	return &View{ref: ref, schema: schema, Info: info}
}

func (v *View) Ref() id.ResolvedRef        { return v.ref }
func (v *View) ArrowSchema() *arrow.Schema { return v.schema }
func (*View) relationTag()                 {}

// AppendLog is the durable buffer a Topic's publisher commits batches into,
// and that reads (SELECT ... FROM topic) scan. It is an in-memory stand-in
// for the on-disk append log the real storage layer would provide.
type AppendLog struct {
	mu      sync.Mutex
	records []arrow.Record
}

func NewAppendLog() *AppendLog { return &AppendLog{} }

func (l *AppendLog) Append(recs ...arrow.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, recs...)
}

func (l *AppendLog) Snapshot() []arrow.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]arrow.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Topic is an append-only table with a streaming publisher interface.
type Topic struct {
	ref    id.ResolvedRef
	schema *arrow.Schema
	Info   TopicInfo
	Log    *AppendLog
}

func NewTopic(ref id.ResolvedRef, schema *arrow.Schema, info TopicInfo) *Topic {
	return &Topic{ref: ref, schema: schema, Info: info, Log: NewAppendLog()}
}

func (t *Topic) Ref() id.ResolvedRef        { return t.ref }
func (t *Topic) ArrowSchema() *arrow.Schema { return t.schema }
func (*Topic) relationTag()                 {}
