package sink

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/biostreams/kgmeta/record"
)

// defaultNeo4jBatchSize bounds the number of rows sent per UNWIND batch.
const defaultNeo4jBatchSize = 1000

// Neo4jConfig configures a Neo4j sink.
type Neo4jConfig struct {
	URI       string
	Username  string
	Password  string
	Database  string
	BatchSize int
}

// Neo4j loads node and edge records into a Neo4j database using batched
// UNWIND…MERGE statements, so re-running a load is idempotent per node id
// and edge key.
type Neo4j struct {
	driver    neo4j.DriverWithContext
	database  string
	batchSize int
	nodeBatch []map[string]any
	edgeBatch []map[string]any

	// exec runs one batch statement; tests substitute a recorder.
	exec func(ctx context.Context, cypher string, rows []map[string]any) error
}

// NewNeo4j connects to Neo4j and verifies connectivity.
func NewNeo4j(ctx context.Context, cfg Neo4jConfig) (*Neo4j, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultNeo4jBatchSize
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("sink: init neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("sink: verify neo4j connectivity: %w", err)
	}
	s := &Neo4j{
		driver:    driver,
		database:  cfg.Database,
		batchSize: cfg.BatchSize,
	}
	s.exec = s.run
	return s, nil
}

// WriteNode implements Sink.
func (s *Neo4j) WriteNode(ctx context.Context, n *record.Node) error {
	s.nodeBatch = append(s.nodeBatch, map[string]any{
		"id":          n.ID,
		"category":    n.Categories,
		"name":        n.Name,
		"provided_by": n.ProvidedBy,
	})
	if len(s.nodeBatch) >= s.batchSize {
		return s.flushNodes(ctx)
	}
	return nil
}

// WriteEdge implements Sink.
func (s *Neo4j) WriteEdge(ctx context.Context, e *record.Edge) error {
	s.edgeBatch = append(s.edgeBatch, map[string]any{
		"key":       e.Key,
		"subject":   e.Subject,
		"object":    e.Object,
		"predicate": e.Predicate,
		"relation":  e.Relation,
		"sources":   e.Provenance(),
	})
	if len(s.edgeBatch) >= s.batchSize {
		return s.flushEdges(ctx)
	}
	return nil
}

const mergeNodesCypher = `
UNWIND $rows AS row
MERGE (n:NamedThing {id: row.id})
SET n.category = row.category,
    n.name = row.name,
    n.provided_by = row.provided_by`

const mergeEdgesCypher = `
UNWIND $rows AS row
MATCH (s:NamedThing {id: row.subject})
MATCH (o:NamedThing {id: row.object})
MERGE (s)-[r:RELATED_TO {key: row.key}]->(o)
SET r.predicate = row.predicate,
    r.relation = row.relation,
    r.sources = row.sources`

func (s *Neo4j) flushNodes(ctx context.Context) error {
	if len(s.nodeBatch) == 0 {
		return nil
	}
	if err := s.exec(ctx, mergeNodesCypher, s.nodeBatch); err != nil {
		return fmt.Errorf("sink: merge node batch: %w", err)
	}
	s.nodeBatch = s.nodeBatch[:0]
	return nil
}

func (s *Neo4j) flushEdges(ctx context.Context) error {
	if len(s.edgeBatch) == 0 {
		return nil
	}
	// The edge MATCH drops rows whose endpoints are not merged yet, so
	// every buffered node must reach the database first.
	if err := s.flushNodes(ctx); err != nil {
		return err
	}
	if err := s.exec(ctx, mergeEdgesCypher, s.edgeBatch); err != nil {
		return fmt.Errorf("sink: merge edge batch: %w", err)
	}
	s.edgeBatch = s.edgeBatch[:0]
	return nil
}

func (s *Neo4j) run(ctx context.Context, cypher string, rows []map[string]any) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, cypher, map[string]any{"rows": rows})
	})
	return err
}

// Close discards buffered batches and closes the driver.
func (s *Neo4j) Close(ctx context.Context) error {
	s.nodeBatch = nil
	s.edgeBatch = nil
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// Finalize flushes the remaining batches and closes the driver.
func (s *Neo4j) Finalize(ctx context.Context) error {
	if err := s.flushNodes(ctx); err != nil {
		return err
	}
	if err := s.flushEdges(ctx); err != nil {
		return err
	}
	return s.driver.Close(ctx)
}
