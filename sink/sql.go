package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biostreams/kgmeta/record"
)

// listDelimiter joins list-valued properties into one TEXT column.
const listDelimiter = "|"

// Default column layouts for the denormalized node and edge tables, core
// columns first.
var (
	defaultNodeColumns = []string{"id", "category", "name", "description", "provided_by"}
	defaultEdgeColumns = []string{"id", "subject", "predicate", "object", "relation", "knowledge_source"}
)

// SQLConfig configures a SQL sink.
type SQLConfig struct {
	DSN       string
	NodeTable string
	EdgeTable string
	// DropExisting drops and recreates the target tables.
	DropExisting bool
}

// SQL writes node and edge records into Postgres, buffering rows and
// bulk-loading them with COPY on Finalize.
type SQL struct {
	pool      *pgxpool.Pool
	nodeTable string
	edgeTable string
	nodeRows  [][]any
	edgeRows  [][]any
}

// NewSQL connects to Postgres and prepares the target tables.
func NewSQL(ctx context.Context, cfg SQLConfig) (*SQL, error) {
	if cfg.NodeTable == "" {
		cfg.NodeTable = "nodes"
	}
	if cfg.EdgeTable == "" {
		cfg.EdgeTable = "edges"
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sink: connect to postgres: %w", err)
	}
	s := &SQL{
		pool:      pool,
		nodeTable: cfg.NodeTable,
		edgeTable: cfg.EdgeTable,
	}
	if err := s.createTables(ctx, cfg.DropExisting); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) createTables(ctx context.Context, drop bool) error {
	for table, columns := range map[string][]string{
		s.nodeTable: defaultNodeColumns,
		s.edgeTable: defaultEdgeColumns,
	} {
		if drop {
			if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				return fmt.Errorf("sink: drop table %s: %w", table, err)
			}
		}
		defs := make([]string, len(columns))
		for i, c := range columns {
			defs[i] = c + " TEXT"
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("sink: create table %s: %w", table, err)
		}
	}
	return nil
}

// WriteNode implements Sink.
func (s *SQL) WriteNode(_ context.Context, n *record.Node) error {
	s.nodeRows = append(s.nodeRows, []any{
		n.ID,
		strings.Join(n.Categories, listDelimiter),
		n.Name,
		n.Description,
		strings.Join(n.ProvidedBy, listDelimiter),
	})
	return nil
}

// WriteEdge implements Sink.
func (s *SQL) WriteEdge(_ context.Context, e *record.Edge) error {
	s.edgeRows = append(s.edgeRows, []any{
		e.Key,
		e.Subject,
		e.Predicate,
		e.Object,
		e.Relation,
		strings.Join(e.Provenance(), listDelimiter),
	})
	return nil
}

// Close discards buffered rows and closes the pool.
func (s *SQL) Close(_ context.Context) error {
	s.nodeRows = nil
	s.edgeRows = nil
	s.pool.Close()
	return nil
}

// Finalize bulk-loads the buffered rows and closes the pool.
func (s *SQL) Finalize(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.copyRows(ctx, s.nodeTable, defaultNodeColumns, s.nodeRows); err != nil {
		return err
	}
	if err := s.copyRows(ctx, s.edgeTable, defaultEdgeColumns, s.edgeRows); err != nil {
		return err
	}
	s.nodeRows = nil
	s.edgeRows = nil
	return nil
}

func (s *SQL) copyRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("sink: copy into %s: %w", table, err)
	}
	return nil
}
