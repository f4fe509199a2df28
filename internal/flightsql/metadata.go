package flightsql

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// schemaCatalogs, schemaDBSchemas, schemaTables, and schemaSQLInfo are the
// fixed result schemas for the Flight SQL metadata verbs, matching the
// field names and order the source's CommandGetCatalogs/CommandGetDbSchemas/
// CommandGetTables/.into_builder() calls produce.
func schemaCatalogs() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "catalog_name", Type: arrow.BinaryTypes.String},
	}, nil)
}

func schemaDBSchemas() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "catalog_name", Type: arrow.BinaryTypes.String},
		{Name: "db_schema_name", Type: arrow.BinaryTypes.String},
	}, nil)
}

func schemaTables() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "catalog_name", Type: arrow.BinaryTypes.String},
		{Name: "db_schema_name", Type: arrow.BinaryTypes.String},
		{Name: "table_name", Type: arrow.BinaryTypes.String},
		{Name: "table_type", Type: arrow.BinaryTypes.String},
	}, nil)
}

func schemaSQLInfo() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "info_name", Type: arrow.BinaryTypes.String},
		{Name: "value", Type: arrow.BinaryTypes.String},
	}, nil)
}

// sqlInfo is one static SQL_INFO row: a Flight SQL protocol info code (the
// values of the standard SqlInfo enum — FlightSqlServerName = 0,
// FlightSqlServerVersion = 1, FlightSqlServerArrowVersion = 2) alongside
// its human-readable name and value.
type sqlInfo struct {
	code  uint32
	name  string
	value string
}

// sqlInfoDefaults mirrors the source's static SQL_INFO list: server name,
// server version, and the Arrow format version it speaks.
func sqlInfoDefaults() []sqlInfo {
	return []sqlInfo{
		{0, "FlightSqlServerName", serverName},
		{1, "FlightSqlServerVersion", Version},
		{2, "FlightSqlServerArrowVersion", "1.3"},
	}
}

// metadataFlightInfo builds the single-ticketed-endpoint FlightInfo the
// metadata verbs (GetCatalogs/GetDbSchemas/GetTables/GetSqlInfo) return.
// Unlike GetFlightInfoStatement, the ticket here is the descriptor's own
// command payload re-encoded, not a tracker handle: a metadata query can be
// redeemed any number of times and carries no server-side state (spec.md
// section 4.4), so there is nothing for the ticket tracker to own.
func metadataFlightInfo(desc *flight.FlightDescriptor, schema *arrow.Schema) (*flight.FlightInfo, error) {
	return &flight.FlightInfo{
		FlightDescriptor: desc,
		Schema:           flight.SerializeSchema(schema, memory.DefaultAllocator),
		Endpoint: []*flight.FlightEndpoint{{
			Ticket: &flight.Ticket{Ticket: desc.GetCmd()},
		}},
		TotalRecords: -1,
		TotalBytes:   -1,
	}, nil
}
