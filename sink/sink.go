// Package sink provides record sinks that write typed graph records to
// files, databases and message streams.
package sink

import (
	"context"

	"github.com/biostreams/kgmeta/record"
)

// Sink consumes graph records. WriteNode calls always precede WriteEdge
// calls for a well-formed stream; Finalize flushes any buffered state and
// releases resources. Close releases resources without committing
// buffered state and is called instead of Finalize when the stream
// fails.
type Sink interface {
	WriteNode(ctx context.Context, n *record.Node) error
	WriteEdge(ctx context.Context, e *record.Edge) error
	Finalize(ctx context.Context) error
	Close(ctx context.Context) error
}

// Write dispatches one record to the matching sink method.
func Write(ctx context.Context, s Sink, rec record.Record) error {
	switch r := rec.(type) {
	case *record.Node:
		return s.WriteNode(ctx, r)
	case *record.Edge:
		return s.WriteEdge(ctx, r)
	default:
		return nil
	}
}
