package source

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biostreams/kgmeta/record"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeGzipFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func collect(t *testing.T, s Source) ([]*record.Node, []*record.Edge) {
	t.Helper()
	var nodes []*record.Node
	var edges []*record.Edge
	err := s.Read(context.Background(), func(rec record.Record) bool {
		switch r := rec.(type) {
		case *record.Node:
			nodes = append(nodes, r)
		case *record.Edge:
			edges = append(edges, r)
		}
		return true
	})
	require.NoError(t, err)
	return nodes, edges
}

func TestJSONLinesRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph_nodes.jsonl"),
		`{"id":"X:1","category":["biolink:Gene"],"provided_by":"Monarch Initiative"}
{"id":"X:2","category":"biolink:Disease"}
`)
	writeFile(t, filepath.Join(dir, "graph_edges.jsonl"),
		`{"subject":"X:1","object":"X:2","id":"e1","predicate":"biolink:related_to"}
`)

	base := NewBase(WithDefaultProvenance("test-graph"))
	require.NoError(t, base.SetProvenance(record.PropertyProvidedBy, ProvenanceSetting{Normalize: true}))

	src, err := NewJSONLines(base, filepath.Join(dir, "*.jsonl"))
	require.NoError(t, err)
	defer src.Close()

	nodes, edges := collect(t, src)
	require.Len(t, nodes, 2)
	require.Len(t, edges, 1)

	// Nodes always stream before edges, and provenance is normalized
	// on the way through.
	assert.Equal(t, "X:1", nodes[0].ID)
	assert.Equal(t, []string{"monarch-initiative"}, nodes[0].ProvidedBy)
	assert.Equal(t, []string{"biolink:Disease"}, nodes[1].Categories)
	assert.Equal(t, "e1", edges[0].Key)

	assert.Equal(t, []string{"Monarch Initiative"}, src.InforesCatalog().Sources("monarch-initiative"))
}

func TestJSONLinesGzip(t *testing.T) {
	dir := t.TempDir()
	writeGzipFile(t, filepath.Join(dir, "graph_nodes.jsonl.gz"),
		`{"id":"X:1","category":["biolink:Gene"]}
`)

	src, err := NewJSONLines(nil, filepath.Join(dir, "*_nodes.jsonl.gz"))
	require.NoError(t, err)

	nodes, _ := collect(t, src)
	require.Len(t, nodes, 1)
	assert.Equal(t, "X:1", nodes[0].ID)
}

func TestJSONLinesClassification(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph.jsonl"), `{"id":"X:1"}`)

	_, err := NewJSONLines(nil, filepath.Join(dir, "graph.jsonl"))
	assert.Error(t, err)

	_, err = NewJSONLines(nil, filepath.Join(dir, "no-such-*.jsonl"))
	assert.Error(t, err)
}

func TestJSONLinesClassifiesOnBaseName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my_nodes_data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, filepath.Join(dir, "graph_edges.jsonl"),
		`{"subject":"X:1","object":"X:2"}
`)

	// The directory name must not leak into the node/edge decision.
	src, err := NewJSONLines(nil, filepath.Join(dir, "*.jsonl"))
	require.NoError(t, err)

	nodes, edges := collect(t, src)
	assert.Empty(t, nodes)
	require.Len(t, edges, 1)
	assert.Equal(t, "X:1", edges[0].Subject)
}

func TestJSONLinesInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph_nodes.jsonl"), `{"category":["biolink:Gene"]}
`)

	src, err := NewJSONLines(nil, filepath.Join(dir, "graph_nodes.jsonl"))
	require.NoError(t, err)

	err = src.Read(context.Background(), func(record.Record) bool { return true })
	assert.Error(t, err)
}

func TestJSONLinesYieldStops(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph_nodes.jsonl"),
		`{"id":"X:1"}
{"id":"X:2"}
`)

	src, err := NewJSONLines(nil, filepath.Join(dir, "graph_nodes.jsonl"))
	require.NoError(t, err)

	seen := 0
	err = src.Read(context.Background(), func(record.Record) bool {
		seen++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}
