package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/synapseql/synapse/internal/catalog"
	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/planexec"
	"github.com/synapseql/synapse/internal/synconfig"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	cl := catalog.NewCluster()
	if _, err := cl.CreateCatalog("default", false); err != nil {
		t.Fatal(err)
	}
	if _, err := cl.CreateSchema(id.ResolvedSchemaRef{Catalog: "default", Schema: "public"}, false); err != nil {
		t.Fatal(err)
	}
	backend := planexec.NewMemoryBackend(cl)
	ctx, err := New(cl, backend, synconfig.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func TestUseCatalogRejectsUnknown(t *testing.T) {
	ctx := newTestContext(t)
	if err := ctx.UseCatalog("nope"); err == nil {
		t.Fatal("expected an error switching to an unknown catalog")
	}
	if ctx.DefaultCatalog() != "default" {
		t.Fatalf("default catalog should be unchanged, got %q", ctx.DefaultCatalog())
	}
}

func TestUseCatalogAndSchemaSwitchDefaults(t *testing.T) {
	ctx := newTestContext(t)
	if _, err := ctx.Cluster().CreateCatalog("analytics", false); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Cluster().CreateSchema(id.ResolvedSchemaRef{Catalog: "analytics", Schema: "raw"}, false); err != nil {
		t.Fatal(err)
	}

	if err := ctx.UseCatalog("analytics"); err != nil {
		t.Fatal(err)
	}
	if err := ctx.UseSchema("raw"); err != nil {
		t.Fatal(err)
	}
	if ctx.DefaultCatalog() != "analytics" || ctx.DefaultSchema() != "raw" {
		t.Fatalf("expected defaults to switch, got %s.%s", ctx.DefaultCatalog(), ctx.DefaultSchema())
	}
}

func TestShutdownIsIdempotentUnderConcurrency(t *testing.T) {
	ctx := newTestContext(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Shutdown(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if _, err := ctx.Tickets(); err == nil {
		t.Fatal("expected Tickets() to fail after shutdown")
	}
}

func TestTicketsUnavailableAfterShutdown(t *testing.T) {
	ctx := newTestContext(t)
	if _, err := ctx.Tickets(); err != nil {
		t.Fatalf("expected tickets to be available before shutdown: %v", err)
	}
	if err := ctx.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Tickets(); err == nil {
		t.Fatal("expected an error after shutdown")
	}
}
