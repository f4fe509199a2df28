package planexec

import (
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synconfig"
)

func setup(t *testing.T) (*catalog.Cluster, synconfig.Config) {
	t.Helper()
	cl := catalog.NewCluster()
	if _, err := cl.CreateCatalog("default", false); err != nil {
		t.Fatal(err)
	}
	cat, _ := cl.Catalog("default")
	if _, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: "default", Schema: "public"}, false); err != nil {
		t.Fatal(err)
	}
	_ = cat
	return cl, synconfig.Default()
}

func int32Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int32}}, nil)
}

func oneRowRecord(t *testing.T, schema *arrow.Schema, val int32) arrow.Record {
	t.Helper()
	bldr := array.NewInt32Builder(memory.DefaultAllocator)
	defer bldr.Release()
	bldr.Append(val)
	return array.NewRecord(schema, []arrow.Array{bldr.NewArray()}, 1)
}

func drain(t *testing.T, s RecordStream) []arrow.Record {
	t.Helper()
	var out []arrow.Record
	for {
		rec, err := s.Next(context.Background())
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, rec)
	}
}

func TestPlanSelectStarOnEmptyTableYieldsZeroRows(t *testing.T) {
	cl, cfg := setup(t)
	ref := id.ResolvedRef{Catalog: "default", Schema: "public", Table: "events"}
	if _, err := cl.CreateTable(ref, catalog.TableInfo{}, int32Schema(), false, false); err != nil {
		t.Fatal(err)
	}

	b := NewMemoryBackend(cl)
	plan, err := b.Plan(context.Background(), cfg, "SELECT * FROM events")
	if err != nil {
		t.Fatal(err)
	}
	if plan.NumRows == nil || *plan.NumRows != 0 {
		t.Fatalf("expected 0 rows, got %v", plan.NumRows)
	}

	stream, err := plan.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := drain(t, stream); len(got) != 0 {
		t.Fatalf("expected no batches, got %d", len(got))
	}
}

func TestPlanSelectStarStreamsExistingRows(t *testing.T) {
	cl, cfg := setup(t)
	ref := id.ResolvedRef{Catalog: "default", Schema: "public", Table: "events"}
	tbl, err := cl.CreateTable(ref, catalog.TableInfo{}, int32Schema(), false, false)
	if err != nil {
		t.Fatal(err)
	}
	tbl.Rows = []arrow.Record{oneRowRecord(t, int32Schema(), 7)}

	b := NewMemoryBackend(cl)
	plan, err := b.Plan(context.Background(), cfg, "SELECT * FROM events")
	if err != nil {
		t.Fatal(err)
	}
	stream, err := plan.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := drain(t, stream)
	if len(got) != 1 || got[0].NumRows() != 1 {
		t.Fatalf("expected one batch of one row, got %v", got)
	}
}

func TestPlanCountAggregatesRows(t *testing.T) {
	cl, cfg := setup(t)
	ref := id.ResolvedRef{Catalog: "default", Schema: "public", Table: "events"}
	tbl, err := cl.CreateTable(ref, catalog.TableInfo{}, int32Schema(), false, false)
	if err != nil {
		t.Fatal(err)
	}
	tbl.Rows = []arrow.Record{oneRowRecord(t, int32Schema(), 1), oneRowRecord(t, int32Schema(), 2)}

	b := NewMemoryBackend(cl)
	plan, err := b.Plan(context.Background(), cfg, "SELECT COUNT(*) FROM events")
	if err != nil {
		t.Fatal(err)
	}
	stream, err := plan.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := drain(t, stream)
	if len(got) != 1 {
		t.Fatalf("expected one batch, got %d", len(got))
	}
	col := got[0].Column(0).(*array.Int64)
	if col.Value(0) != 2 {
		t.Fatalf("expected count 2, got %d", col.Value(0))
	}
}

func TestPlanUnknownTableIsTableNotFound(t *testing.T) {
	cl, cfg := setup(t)
	b := NewMemoryBackend(cl)
	if _, err := b.Plan(context.Background(), cfg, "SELECT * FROM missing"); err == nil {
		t.Fatal("expected an error for a missing table")
	}
}

func TestPlanRejectsUnsupportedStatement(t *testing.T) {
	cl, cfg := setup(t)
	b := NewMemoryBackend(cl)
	if _, err := b.Plan(context.Background(), cfg, "DELETE FROM events"); err == nil {
		t.Fatal("expected an error for an unsupported statement")
	}
}
