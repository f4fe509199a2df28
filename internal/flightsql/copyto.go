package flightsql

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/flight/flightsql"

	"github.com/synapseql/synapse/internal/id"
	"github.com/synapseql/synapse/internal/synerr"
	"github.com/synapseql/synapse/internal/topic"
)

// DoPutCommandStatementIngest implements synapse's one supported bulk-load
// path onto a topic: this is the verb arrow-go's DoPut dispatch actually
// hands a record-batch reader to (CommandStatementIngest, the structured
// bulk-ingest command, unlike CommandStatementUpdate's bare SQL-text form
// which carries no batches). It takes over the role the source's
// do_put_statement_update's "COPY this TO <relation>" arm played: stream
// the incoming batches straight into the named topic's publisher.
func (s *Server) DoPutCommandStatementIngest(ctx context.Context, cmd flightsql.StatementIngest, reader flight.MessageReader) (int64, error) {
	ec, err := s.contexts.Context(ctx)
	if err != nil {
		return 0, synerr.ToStatus(err)
	}

	ref := ec.Resolve(targetRef(cmd))
	t, ok := ec.Cluster().Topic(ref)
	if !ok {
		return 0, synerr.ToStatus(synerr.TableNotFound(ref.String()))
	}

	depth := t.Info.BufferBatches
	if depth <= 0 {
		depth = ec.Config().TopicBufferBatches
	}
	pub := topic.NewPublisher(t, depth, nil)
	pub.SetMetrics(ec.Metrics())
	defer pub.Close()

	var rows int64
	for reader.Next() {
		rec := reader.Record()
		if err := pub.Send(ctx, rec); err != nil {
			return rows, synerr.ToStatus(synerr.StreamError("publish failed", err))
		}
		rows += rec.NumRows()
	}
	if err := reader.Err(); err != nil {
		return rows, synerr.ToStatus(synerr.StreamError("failed to read incoming batch", err))
	}
	return rows, nil
}

// ingestTarget is the slice of flightsql.StatementIngest that targetRef
// needs. Declaring it locally (rather than taking flightsql.StatementIngest
// directly) keeps targetRef testable without depending on that type's
// internal shape, since Go interface satisfaction is structural.
type ingestTarget interface {
	GetCatalog() string
	GetSchema() string
	GetTable() string
}

// targetRef builds the destination table reference straight from the
// ingest command's own catalog/schema/table fields — structured identity
// the protocol hands us directly, unlike the old "COPY this TO x.y.z" text
// parse this replaces.
func targetRef(cmd ingestTarget) id.TableRef {
	return id.TableRef{
		Catalog: id.Id(cmd.GetCatalog()),
		Schema:  id.Id(cmd.GetSchema()),
		Table:   id.Id(cmd.GetTable()),
	}
}
