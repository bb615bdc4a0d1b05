package sink

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/biostreams/kgmeta/record"
)

// JSONLines writes node and edge records to <basename>_nodes.jsonl and
// <basename>_edges.jsonl. A basename ending in ".gz" produces
// gzip-compressed output.
type JSONLines struct {
	nodeFile *os.File
	edgeFile *os.File
	nodes    *jsonlWriter
	edges    *jsonlWriter
}

// jsonlWriter stacks the buffered and optional gzip layers over one file.
type jsonlWriter struct {
	buf *bufio.Writer
	gz  *gzip.Writer
	enc *json.Encoder
}

func newJSONLWriter(f *os.File, compress bool) *jsonlWriter {
	w := &jsonlWriter{}
	if compress {
		w.gz = gzip.NewWriter(f)
		w.buf = bufio.NewWriter(w.gz)
	} else {
		w.buf = bufio.NewWriter(f)
	}
	w.enc = json.NewEncoder(w.buf)
	return w
}

func (w *jsonlWriter) close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

// NewJSONLines creates the node and edge output files for basename.
func NewJSONLines(basename string) (*JSONLines, error) {
	compress := strings.HasSuffix(basename, ".gz")
	stem := strings.TrimSuffix(basename, ".gz")
	suffix := ".jsonl"
	if compress {
		suffix = ".jsonl.gz"
	}
	nodeFile, err := os.Create(stem + "_nodes" + suffix)
	if err != nil {
		return nil, fmt.Errorf("sink: create node file: %w", err)
	}
	edgeFile, err := os.Create(stem + "_edges" + suffix)
	if err != nil {
		nodeFile.Close()
		return nil, fmt.Errorf("sink: create edge file: %w", err)
	}
	return &JSONLines{
		nodeFile: nodeFile,
		edgeFile: edgeFile,
		nodes:    newJSONLWriter(nodeFile, compress),
		edges:    newJSONLWriter(edgeFile, compress),
	}, nil
}

// WriteNode implements Sink.
func (s *JSONLines) WriteNode(_ context.Context, n *record.Node) error {
	return s.nodes.enc.Encode(n)
}

// WriteEdge implements Sink.
func (s *JSONLines) WriteEdge(_ context.Context, e *record.Edge) error {
	return s.edges.enc.Encode(e)
}

// Close closes both output files without flushing buffered lines.
func (s *JSONLines) Close(_ context.Context) error {
	var firstErr error
	for _, step := range []func() error{s.nodeFile.Close, s.edgeFile.Close} {
		if err := step(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("sink: close jsonlines: %w", firstErr)
	}
	return nil
}

// Finalize flushes and closes both output files.
func (s *JSONLines) Finalize(_ context.Context) error {
	var firstErr error
	for _, step := range []func() error{
		s.nodes.close, s.nodeFile.Close,
		s.edges.close, s.edgeFile.Close,
	} {
		if err := step(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("sink: finalize jsonlines: %w", firstErr)
	}
	return nil
}
