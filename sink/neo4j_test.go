package sink

import (
	"context"
	"fmt"
	"testing"

	"github.com/biostreams/kgmeta/record"
)

// statementRecorder captures every batch statement in execution order.
type statementRecorder struct {
	statements []string
	rowCounts  []int
}

func (r *statementRecorder) exec(_ context.Context, cypher string, rows []map[string]any) error {
	r.statements = append(r.statements, cypher)
	r.rowCounts = append(r.rowCounts, len(rows))
	return nil
}

func newRecordedNeo4j(batchSize int) (*Neo4j, *statementRecorder) {
	recorder := &statementRecorder{}
	s := &Neo4j{batchSize: batchSize}
	s.exec = recorder.exec
	return s, recorder
}

func TestNeo4jNodesFlushBeforeEdges(t *testing.T) {
	s, recorder := newRecordedNeo4j(2)
	ctx := context.Background()

	// Three nodes: one full batch flushes, one node stays buffered when
	// the stream moves on to edges.
	for i := 0; i < 3; i++ {
		node := &record.Node{ID: fmt.Sprintf("X:%d", i)}
		if err := s.WriteNode(ctx, node); err != nil {
			t.Fatalf("WriteNode error = %v", err)
		}
	}
	if len(s.nodeBatch) != 1 {
		t.Fatalf("buffered nodes = %d, want 1", len(s.nodeBatch))
	}

	for i := 0; i < 2; i++ {
		edge := &record.Edge{Subject: "X:0", Object: fmt.Sprintf("X:%d", i+1), Key: fmt.Sprintf("e%d", i)}
		if err := s.WriteEdge(ctx, edge); err != nil {
			t.Fatalf("WriteEdge error = %v", err)
		}
	}

	want := []string{mergeNodesCypher, mergeNodesCypher, mergeEdgesCypher}
	if len(recorder.statements) != len(want) {
		t.Fatalf("statements = %d, want %d", len(recorder.statements), len(want))
	}
	for i, cypher := range want {
		if recorder.statements[i] != cypher {
			t.Errorf("statement %d = %q, want %q", i, recorder.statements[i], cypher)
		}
	}
	// The straggler node reaches the database before any edge batch.
	if recorder.rowCounts[1] != 1 {
		t.Errorf("second node batch rows = %d, want 1", recorder.rowCounts[1])
	}
	if len(s.nodeBatch) != 0 || len(s.edgeBatch) != 0 {
		t.Errorf("batches not drained: nodes=%d edges=%d", len(s.nodeBatch), len(s.edgeBatch))
	}
}

func TestNeo4jEdgeFlushWithoutBufferedNodes(t *testing.T) {
	s, recorder := newRecordedNeo4j(1)
	ctx := context.Background()

	if err := s.WriteNode(ctx, &record.Node{ID: "X:1"}); err != nil {
		t.Fatalf("WriteNode error = %v", err)
	}
	if err := s.WriteEdge(ctx, &record.Edge{Subject: "X:1", Object: "X:1", Key: "e1"}); err != nil {
		t.Fatalf("WriteEdge error = %v", err)
	}

	// No spurious empty node batch precedes the edge batch.
	want := []string{mergeNodesCypher, mergeEdgesCypher}
	if len(recorder.statements) != len(want) {
		t.Fatalf("statements = %v, want %v", recorder.statements, want)
	}
	for i, cypher := range want {
		if recorder.statements[i] != cypher {
			t.Errorf("statement %d = %q, want %q", i, recorder.statements[i], cypher)
		}
	}
}
