package planexec

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var countSchema = arrow.NewSchema([]arrow.Field{
	{Name: "count", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// planCount builds the single-row, single-batch Plan for "SELECT COUNT(*)".
// It always reports its own NumRows (1) since, unlike a table scan, the
// answer is computed eagerly rather than streamed lazily.
func planCount(_ *arrow.Schema, rows []arrow.Record) *Plan {
	var total int64
	for _, r := range rows {
		total += r.NumRows()
	}
	one := uint64(1)

	return &Plan{
		Schema:  countSchema,
		Ordered: true,
		NumRows: &one,
		Open: func(ctx context.Context) (RecordStream, error) {
			bldr := array.NewInt64Builder(memory.DefaultAllocator)
			defer bldr.Release()
			bldr.Append(total)
			rec := array.NewRecord(countSchema, []arrow.Array{bldr.NewArray()}, 1)
			return NewSliceStream([]arrow.Record{rec}), nil
		},
	}
}
