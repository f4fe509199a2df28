package synconfig

import "testing"

func TestBuilderDoesNotMutateBase(t *testing.T) {
	base := Default()
	next := base.IntoBuilder().DefaultCatalog("other").Build()

	if base.DefaultCatalog != "default" {
		t.Fatalf("base was mutated: %+v", base)
	}
	if next.DefaultCatalog != "other" {
		t.Fatalf("builder did not apply override: %+v", next)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	data, err := cfg.MarshalBytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestUnmarshalRejectsUnknownKeys(t *testing.T) {
	_, err := UnmarshalBytes([]byte(`{"default_catalog":"c","bogus_field":1}`))
	if err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}
