package synapsectl

import (
	"strings"

	enginev1 "github.com/synapseql/synapse/gen/proto/engine/v1"
)

// parseRef splits a dotted reference into its catalog/schema/table parts.
// Fewer than three parts leaves the missing leading parts empty, which the
// Engine Service fills from the session's default catalog/schema.
//
//	"events"                -> {Table: "events"}
//	"public.events"         -> {Schema: "public", Table: "events"}
//	"default.public.events" -> {Catalog: "default", Schema: "public", Table: "events"}
func parseRef(s string) *enginev1.TableRef {
	parts := strings.Split(s, ".")
	ref := &enginev1.TableRef{}
	switch len(parts) {
	case 1:
		ref.Table = parts[0]
	case 2:
		ref.Schema, ref.Table = parts[0], parts[1]
	default:
		ref.Catalog, ref.Schema, ref.Table = parts[0], parts[1], strings.Join(parts[2:], ".")
	}
	return ref
}
