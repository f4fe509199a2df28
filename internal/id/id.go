// Package id defines the namespace identifiers and references used to
// address catalogs, schemas, and tables in the cluster tree.
package id

import "strings"

// Id names a catalog, schema, or table. Go values are always copied, never
// aliased, across a DDL boundary, so there is no owned/borrowed distinction
// to track at the type level the way the original implementation needed.
type Id string

// Static returns id unchanged. It exists so call sites that mirror the
// original "to_owned" conversion at a DDL boundary keep reading the same way
// in Go, even though the conversion is a no-op here.
func (id Id) Static() Id { return id }

func (id Id) String() string { return string(id) }

// TableRef is a possibly-relative reference to a table-like object: catalog
// and schema may be empty, in which case they are filled from session
// defaults by Resolve.
type TableRef struct {
	Catalog Id // empty if unset
	Schema  Id // empty if unset
	Table   Id
}

// SchemaRef is a possibly-relative reference to a schema.
type SchemaRef struct {
	Catalog Id // empty if unset
	Schema  Id
}

// ResolvedRef is a TableRef with every component present.
type ResolvedRef struct {
	Catalog Id
	Schema  Id
	Table   Id
}

// ResolvedSchemaRef is a SchemaRef with every component present.
type ResolvedSchemaRef struct {
	Catalog Id
	Schema  Id
}

// Resolve fills in the catalog and schema of ref from the given defaults
// when they are absent, per spec: "fills catalog from default_catalog,
// schema from default_schema when absent".
func Resolve(ref TableRef, defaultCatalog, defaultSchema Id) ResolvedRef {
	catalog := ref.Catalog
	if catalog == "" {
		catalog = defaultCatalog
	}
	schema := ref.Schema
	if schema == "" {
		schema = defaultSchema
	}
	return ResolvedRef{Catalog: catalog, Schema: schema, Table: ref.Table}
}

// ResolveSchema fills in the catalog of ref from defaultCatalog when absent.
func ResolveSchema(ref SchemaRef, defaultCatalog Id) ResolvedSchemaRef {
	catalog := ref.Catalog
	if catalog == "" {
		catalog = defaultCatalog
	}
	return ResolvedSchemaRef{Catalog: catalog, Schema: ref.Schema}
}

func (r ResolvedRef) String() string {
	return strings.Join([]string{string(r.Catalog), string(r.Schema), string(r.Table)}, ".")
}

func (r ResolvedSchemaRef) String() string {
	return strings.Join([]string{string(r.Catalog), string(r.Schema)}, ".")
}

// SchemaRef projects a ResolvedRef down to its schema-level reference.
func (r ResolvedRef) SchemaRef() ResolvedSchemaRef {
	return ResolvedSchemaRef{Catalog: r.Catalog, Schema: r.Schema}
}
