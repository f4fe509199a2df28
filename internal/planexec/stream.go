// Package planexec stands in for the SQL parser, logical-plan optimizer,
// and physical execution runtime that spec.md section 1 calls out as
// external collaborators "assumed available". It defines the narrow
// interfaces the rest of the engine needs from them, plus a small in-memory
// reference implementation sufficient to drive the end-to-end scenarios in
// spec.md section 8.
package planexec

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
)

// RecordStream is the schema()+next() stream-of-batch abstraction spec.md
// section 9 calls for in place of a language-specific async iterator.
// Cancellation is by abandoning the stream (the caller stops calling Next);
// implementations must release resources promptly once ctx is done.
type RecordStream interface {
	// Next returns the next record batch, or (nil, io.EOF) when exhausted.
	Next(ctx context.Context) (arrow.Record, error)
}

// ErrDone is returned by Next to signal a clean end of stream. It is an
// alias of io.EOF so callers can use the standard sentinel.
var ErrDone = io.EOF

// sliceStream streams a fixed slice of already-materialized records. It is
// the backbone of the in-memory reference executor below.
type sliceStream struct {
	records []arrow.Record
	pos     int
}

func NewSliceStream(records []arrow.Record) RecordStream {
	return &sliceStream{records: records}
}

func (s *sliceStream) Next(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if s.pos >= len(s.records) {
		return nil, ErrDone
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}
