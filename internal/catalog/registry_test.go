package catalog

import (
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synerr"
)

func intSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int32}}, nil)
}

func TestCreateCatalogIfNotExistsReturnsSameIdentity(t *testing.T) {
	cl := NewCluster()
	first, err := cl.CreateCatalog("c", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cl.CreateCatalog("c", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("if_not_exists returned a different *Catalog identity")
	}
}

func TestCreateCatalogWithoutFlagsOnExistingIsAlreadyExists(t *testing.T) {
	cl := NewCluster()
	if _, err := cl.CreateCatalog("c", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := cl.CreateCatalog("c", false)
	if !synerr.Is(err, synerr.KindAlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
}

func TestCreateSchemaMissingCatalogIsCatalogNotFound(t *testing.T) {
	cl := NewCluster()
	_, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: "missing", Schema: "s"}, false)
	if !synerr.Is(err, synerr.KindCatalogNotFound) {
		t.Fatalf("expected CatalogNotFound, got %v", err)
	}
}

func TestCreateTableMissingSchemaIsSchemaNotFound(t *testing.T) {
	cl := NewCluster()
	if _, err := cl.CreateCatalog("c", false); err != nil {
		t.Fatal(err)
	}
	ref := id.ResolvedRef{Catalog: "c", Schema: "missing", Table: "t"}
	_, err := cl.CreateTable(ref, TableInfo{}, intSchema(), false, false)
	if !synerr.Is(err, synerr.KindSchemaNotFound) {
		t.Fatalf("expected SchemaNotFound, got %v", err)
	}
}

func TestCreateTableOrReplaceAndIfNotExistsIsInvalidArgument(t *testing.T) {
	cl := NewCluster()
	mustBootstrap(t, cl, "c", "s")
	ref := id.ResolvedRef{Catalog: "c", Schema: "s", Table: "t"}
	_, err := cl.CreateTable(ref, TableInfo{}, intSchema(), true, true)
	if !synerr.Is(err, synerr.KindInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestCreateTableOrReplaceConcurrencyNeverObservesAbsence(t *testing.T) {
	cl := NewCluster()
	mustBootstrap(t, cl, "c", "s")
	ref := id.ResolvedRef{Catalog: "c", Schema: "s", Table: "x"}
	if _, err := cl.CreateTable(ref, TableInfo{Comment: "initial"}, intSchema(), false, false); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	var sawAbsence bool
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, ok := cl.Table(ref); !ok {
				mu.Lock()
				sawAbsence = true
				mu.Unlock()
			}
		}
	}()

	var replacers sync.WaitGroup
	for i := 0; i < 2; i++ {
		replacers.Add(1)
		go func(n int) {
			defer replacers.Done()
			_, _ = cl.CreateTable(ref, TableInfo{Comment: "replace"}, intSchema(), false, true)
			_ = n
		}(i)
	}
	replacers.Wait()
	close(stop)
	wg.Wait()

	if sawAbsence {
		t.Fatalf("a concurrent lookup observed absence during or_replace")
	}
	final, ok := cl.Table(ref)
	if !ok {
		t.Fatalf("table missing after concurrent or_replace")
	}
	if final.Info.Comment != "initial" && final.Info.Comment != "replace" {
		t.Fatalf("table holds neither pre- nor post-replace info: %+v", final.Info)
	}
}

func mustBootstrap(t *testing.T, cl *Cluster, cat, sch string) {
	t.Helper()
	if _, err := cl.CreateCatalog(id.Id(cat), false); err != nil {
		t.Fatal(err)
	}
	if _, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: id.Id(cat), Schema: id.Id(sch)}, false); err != nil {
		t.Fatal(err)
	}
}
