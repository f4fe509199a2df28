package planexec

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synconfig"
	"github.com/synapseql/synapse/internal/synerr"
)

// Plan is the planner's output: a fully resolved, ready-to-run statement.
// Two statements with equal Schema/Ordered/NumRows/ByteSize are not
// necessarily equal plans; Open is what actually runs it.
type Plan struct {
	Schema   *arrow.Schema
	Ordered  bool
	NumRows  *uint64
	ByteSize *uint64

	Open func(ctx context.Context) (RecordStream, error)
}

// Backend combines the SQL parser, planner, and execution engine that
// spec.md section 1 treats as an external collaborator. Plan parses and
// resolves sql against cfg's default catalog/schema, returning a Plan ready
// to be hung off a ticket; execution happens later, when the ticket's
// redeemer calls Plan.Open.
type Backend interface {
	Plan(ctx context.Context, cfg synconfig.Config, sql string) (*Plan, error)
}

// MemoryBackend is a reference Backend that operates over an in-memory
// catalog.Cluster. It understands a small fixed subset of SQL: enough to
// drive the scenarios in spec.md section 8; a production deployment would
// substitute a real SQL engine here without changing any caller.
type MemoryBackend struct {
	Cluster *catalog.Cluster
}

func NewMemoryBackend(cl *catalog.Cluster) *MemoryBackend {
	return &MemoryBackend{Cluster: cl}
}

var (
	selectStarRe = regexp.MustCompile(`(?is)^\s*select\s+(\*|count\(\*\)|[a-zA-Z0-9_,\s]+)\s+from\s+([a-zA-Z0-9_.]+)\s*;?\s*$`)
)

// Plan parses a tiny SQL dialect:
//
//	SELECT * FROM [catalog.][schema.]relation
//	SELECT col[, col...] FROM [catalog.][schema.]relation
//	SELECT COUNT(*) FROM [catalog.][schema.]relation
//
// Any other input is reported as a Plan error, mirroring how a real parser
// would reject unsupported syntax rather than guess at intent. The column
// list of the second form is accepted but not applied: the plan's schema
// and rows carry every column of the relation, and the listed names are
// not checked against it.
func (b *MemoryBackend) Plan(ctx context.Context, cfg synconfig.Config, sql string) (*Plan, error) {
	m := selectStarRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, synerr.Plan(fmt.Sprintf("unsupported statement: %s", sql), nil)
	}
	projection := strings.TrimSpace(m[1])
	refText := m[2]

	ref := id.Resolve(parseTableRef(refText), cfg.DefaultCatalog, cfg.DefaultSchema)

	rel, ok := b.Cluster.Relation(ref)
	if !ok {
		return nil, synerr.TableNotFound(ref.String())
	}

	rows, err := materialize(rel)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(projection, "count(*)") {
		return planCount(rel.ArrowSchema(), rows), nil
	}

	numRows := uint64(0)
	for _, r := range rows {
		numRows += uint64(r.NumRows())
	}

	schema := rel.ArrowSchema()
	return &Plan{
		Schema:  schema,
		Ordered: true,
		NumRows: &numRows,
		Open: func(ctx context.Context) (RecordStream, error) {
			return NewSliceStream(rows), nil
		},
	}, nil
}

func materialize(rel catalog.Relation) ([]arrow.Record, error) {
	switch v := rel.(type) {
	case *catalog.Table:
		return v.Rows, nil
	case *catalog.Topic:
		return v.Log.Snapshot(), nil
	case *catalog.View:
		// View materialization (running Info.Query) would recurse through
		// Plan; out of scope for the reference executor, which only needs
		// to prove the streaming contract, not a real optimizer.
		return nil, synerr.Unimplemented("view materialization")
	default:
		return nil, synerr.Plan(fmt.Sprintf("unsupported relation kind for %T", rel), nil)
	}
}

func parseTableRef(text string) id.TableRef {
	parts := strings.Split(text, ".")
	switch len(parts) {
	case 1:
		return id.TableRef{Table: id.Id(parts[0])}
	case 2:
		return id.TableRef{Schema: id.Id(parts[0]), Table: id.Id(parts[1])}
	default:
		return id.TableRef{Catalog: id.Id(parts[0]), Schema: id.Id(parts[1]), Table: id.Id(parts[2])}
	}
}
