package catalog

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synerr"
)

// createChild implements the shared DDL rule from spec.md section 4.2 for a
// single parent's child map: or_replace and if_not_exists are mutually
// exclusive; if_not_exists on an existing key returns the existing value
// unchanged; or_replace swaps the map wholesale so readers never observe a
// partially-updated entry; otherwise a second insert is AlreadyExists.
//
// children is replaced, not mutated in place, on every insert: this is the
// copy-on-write publication spec.md section 9 calls for, and it is what
// makes a concurrent lookup (taken under RLock) always see either the old
// or the new full map, never a torn one.
func createChild[V any](
	mu *sync.RWMutex,
	children *map[string]V,
	key string,
	ifNotExists, orReplace bool,
	subject string,
	build func() (V, error),
) (V, error) {
	var zero V
	if ifNotExists && orReplace {
		return zero, synerr.InvalidArgument("if_not_exists and or_replace are mutually exclusive")
	}

	mu.Lock()
	defer mu.Unlock()

	if existing, ok := (*children)[key]; ok {
		switch {
		case ifNotExists:
			return existing, nil
		case orReplace:
			// fall through to build+replace below
		default:
			return zero, synerr.AlreadyExists(subject)
		}
	}

	built, err := build()
	if err != nil {
		return zero, err
	}

	next := make(map[string]V, len(*children)+1)
	for k, v := range *children {
		next[k] = v
	}
	next[key] = built
	*children = next

	return built, nil
}

// Schema is a mapping Id -> Relation (Table, Topic, or View). Shared,
// mutated only through registry operations.
type Schema struct {
	name id.Id

	mu    sync.RWMutex
	items map[string]Relation
}

func newSchema(name id.Id) *Schema {
	return &Schema{name: name, items: make(map[string]Relation)}
}

func (s *Schema) Name() id.Id { return s.name }

// Relation looks up a table-like object by name.
func (s *Schema) Relation(name id.Id) (Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[string(name)]
	return r, ok
}

func (s *Schema) createRelation(ref id.ResolvedRef, ifNotExists, orReplace bool, build func() (Relation, error)) (Relation, error) {
	return createChild(&s.mu, &s.items, string(ref.Table), ifNotExists, orReplace, ref.String(), build)
}

// RelationNames lists every relation name in the schema, for metadata
// verbs like Flight SQL's GetTables.
func (s *Schema) RelationNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.items))
	for n := range s.items {
		names = append(names, n)
	}
	return names
}

// Catalog is a mapping Id -> Schema.
type Catalog struct {
	name id.Id

	mu      sync.RWMutex
	schemas map[string]*Schema
}

func newCatalog(name id.Id) *Catalog {
	return &Catalog{name: name, schemas: make(map[string]*Schema)}
}

func (c *Catalog) Name() id.Id { return c.name }

func (c *Catalog) Schema(name id.Id) (*Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.schemas[string(name)]
	return s, ok
}

func (c *Catalog) SchemaNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.schemas))
	for n := range c.schemas {
		names = append(names, n)
	}
	return names
}

func (c *Catalog) createSchema(name id.Id, ifNotExists bool) (*Schema, error) {
	return createChild(&c.mu, &c.schemas, string(name), ifNotExists, false, string(name), func() (*Schema, error) {
		return newSchema(name), nil
	})
}

// Cluster is a mapping Id -> Catalog, shared across all sessions and
// outliving them.
type Cluster struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

func NewCluster() *Cluster {
	return &Cluster{catalogs: make(map[string]*Catalog)}
}

func (cl *Cluster) Catalog(name id.Id) (*Catalog, bool) {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	c, ok := cl.catalogs[string(name)]
	return c, ok
}

func (cl *Cluster) CatalogNames() []string {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	names := make([]string, 0, len(cl.catalogs))
	for n := range cl.catalogs {
		names = append(names, n)
	}
	return names
}

func (cl *Cluster) CreateCatalog(name id.Id, ifNotExists bool) (*Catalog, error) {
	return createChild(&cl.mu, &cl.catalogs, string(name), ifNotExists, false, string(name), func() (*Catalog, error) {
		return newCatalog(name), nil
	})
}

func (cl *Cluster) CreateSchema(ref id.ResolvedSchemaRef, ifNotExists bool) (*Schema, error) {
	cat, ok := cl.Catalog(ref.Catalog)
	if !ok {
		return nil, synerr.CatalogNotFound(string(ref.Catalog))
	}
	return cat.createSchema(ref.Schema, ifNotExists)
}

func (cl *Cluster) resolveSchema(ref id.ResolvedRef) (*Schema, error) {
	cat, ok := cl.Catalog(ref.Catalog)
	if !ok {
		return nil, synerr.CatalogNotFound(string(ref.Catalog))
	}
	sch, ok := cat.Schema(ref.Schema)
	if !ok {
		return nil, synerr.SchemaNotFound(string(ref.Schema))
	}
	return sch, nil
}

func (cl *Cluster) CreateTable(ref id.ResolvedRef, info TableInfo, schema *arrow.Schema, ifNotExists, orReplace bool) (*Table, error) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, err
	}
	rel, err := sch.createRelation(ref, ifNotExists, orReplace, func() (Relation, error) {
		return NewTable(ref, schema, info), nil
	})
	if err != nil {
		return nil, err
	}
	return rel.(*Table), nil
}

func (cl *Cluster) CreateTopic(ref id.ResolvedRef, info TopicInfo, schema *arrow.Schema, ifNotExists, orReplace bool) (*Topic, error) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, err
	}
	rel, err := sch.createRelation(ref, ifNotExists, orReplace, func() (Relation, error) {
		return NewTopic(ref, schema, info), nil
	})
	if err != nil {
		return nil, err
	}
	return rel.(*Topic), nil
}

func (cl *Cluster) CreateView(ref id.ResolvedRef, info ViewInfo, schema *arrow.Schema, ifNotExists, orReplace bool) (*View, error) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, err
	}
	rel, err := sch.createRelation(ref, ifNotExists, orReplace, func() (Relation, error) {
		return NewView(ref, schema, info), nil
	})
	if err != nil {
		return nil, err
	}
	return rel.(*View), nil
}

// Table looks up a table by resolved reference, returning (nil, false) if
// any part of the path is missing or the object isn't a Table.
func (cl *Cluster) Table(ref id.ResolvedRef) (*Table, bool) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, false
	}
	rel, ok := sch.Relation(ref.Table)
	if !ok {
		return nil, false
	}
	t, ok := rel.(*Table)
	return t, ok
}

// Topic looks up a topic by resolved reference.
func (cl *Cluster) Topic(ref id.ResolvedRef) (*Topic, bool) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, false
	}
	rel, ok := sch.Relation(ref.Table)
	if !ok {
		return nil, false
	}
	t, ok := rel.(*Topic)
	return t, ok
}

// Relation looks up any table-like object by resolved reference, regardless
// of variant; used by the executor and by GetTables metadata.
func (cl *Cluster) Relation(ref id.ResolvedRef) (Relation, bool) {
	sch, err := cl.resolveSchema(ref)
	if err != nil {
		return nil, false
	}
	return sch.Relation(ref.Table)
}
