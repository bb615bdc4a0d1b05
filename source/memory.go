package source

import (
	"context"

	"github.com/biostreams/kgmeta/record"
)

// Memory streams records from in-memory slices. It is used by tests and
// by callers that already hold a materialized record set.
type Memory struct {
	*Base
	nodes []*record.Node
	edges []*record.Edge
}

// NewMemory returns a source over the given records.
func NewMemory(base *Base, nodes []*record.Node, edges []*record.Edge) *Memory {
	if base == nil {
		base = NewBase()
	}
	return &Memory{Base: base, nodes: nodes, edges: edges}
}

// Read implements Source.
func (s *Memory) Read(ctx context.Context, yield func(record.Record) bool) error {
	for _, n := range s.nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		admitted, err := s.prepare(n)
		if err != nil {
			return err
		}
		if admitted && !yield(n) {
			return nil
		}
	}
	for _, e := range s.edges {
		if err := ctx.Err(); err != nil {
			return err
		}
		admitted, err := s.prepare(e)
		if err != nil {
			return err
		}
		if admitted && !yield(e) {
			return nil
		}
	}
	return nil
}
