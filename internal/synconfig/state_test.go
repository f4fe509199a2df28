package synconfig

import (
	"sync"
	"testing"

	"github.com/synapseql/synapse/internal/id"
)

func TestWithConfigIsAtomic(t *testing.T) {
	s := NewState(Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cfg := s.Config().IntoBuilder().DefaultCatalog(id.Id("c")).DefaultSchema(id.Id("s")).Build()
			s.WithConfig(cfg)
		}(i)
	}
	wg.Wait()

	cfg := s.Config()
	if cfg.DefaultCatalog != "c" || cfg.DefaultSchema != "s" {
		t.Fatalf("expected a fully-applied config, got %+v (never a torn mix)", cfg)
	}
}

func TestResolveFillsFromDefaults(t *testing.T) {
	s := NewState(Default())
	got := s.Resolve(id.TableRef{Table: "t"})
	want := id.ResolvedRef{Catalog: "default", Schema: "public", Table: "t"}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}
