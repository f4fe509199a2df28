package id

import "testing"

func TestResolveFillsAbsentComponents(t *testing.T) {
	ref := TableRef{Table: "t"}
	got := Resolve(ref, "c", "s")
	want := ResolvedRef{Catalog: "c", Schema: "s", Table: "t"}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveKeepsExplicitComponents(t *testing.T) {
	ref := TableRef{Catalog: "other", Schema: "s2", Table: "t"}
	got := Resolve(ref, "c", "s")
	want := ResolvedRef{Catalog: "other", Schema: "s2", Table: "t"}
	if got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveSchema(t *testing.T) {
	got := ResolveSchema(SchemaRef{Schema: "s"}, "c")
	want := ResolvedSchemaRef{Catalog: "c", Schema: "s"}
	if got != want {
		t.Fatalf("ResolveSchema() = %+v, want %+v", got, want)
	}
}

func TestResolvedRefString(t *testing.T) {
	r := ResolvedRef{Catalog: "c", Schema: "s", Table: "t"}
	if got, want := r.String(), "c.s.t"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
