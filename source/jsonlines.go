package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/biostreams/kgmeta/record"
)

// scanBufferSize bounds a single JSON Lines record. Some aggregated
// knowledge sources ship edges with very large property bags.
const scanBufferSize = 16 * 1024 * 1024

// JSONLines streams KGX JSON Lines archives. Input paths may be
// doublestar glob patterns; files whose base name contains "_nodes" are
// read first as node records, then files containing "_edges" as edge
// records. Files ending in ".gz" are decompressed transparently.
type JSONLines struct {
	*Base
	nodePaths []string
	edgePaths []string
}

// NewJSONLines expands the given patterns and classifies the matched
// files. It fails when a pattern matches nothing or a file cannot be
// classified as nodes or edges.
func NewJSONLines(base *Base, patterns ...string) (*JSONLines, error) {
	if base == nil {
		base = NewBase()
	}
	s := &JSONLines{Base: base}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("source: bad input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("source: input pattern %q matched no files", pattern)
		}
		for _, path := range matches {
			switch base := filepath.Base(path); {
			case strings.Contains(base, "_nodes"):
				s.nodePaths = append(s.nodePaths, path)
			case strings.Contains(base, "_edges"):
				s.edgePaths = append(s.edgePaths, path)
			default:
				return nil, fmt.Errorf("source: cannot classify %q as nodes or edges", path)
			}
		}
	}
	sort.Strings(s.nodePaths)
	sort.Strings(s.edgePaths)
	return s, nil
}

// Read implements Source: all node files first, then all edge files.
func (s *JSONLines) Read(ctx context.Context, yield func(record.Record) bool) error {
	for _, path := range s.nodePaths {
		if err := s.readFile(ctx, path, record.KindNode, yield); err != nil {
			return err
		}
	}
	for _, path := range s.edgePaths {
		if err := s.readFile(ctx, path, record.KindEdge, yield); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONLines) readFile(ctx context.Context, path string, kind record.Kind, yield func(record.Record) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("source: open gzip %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	s.logger.Debug("reading records", "path", path, "kind", kind.String())

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := s.decode(kind, []byte(line))
		if err != nil {
			return fmt.Errorf("source: %s line %d: %w", path, lineNo, err)
		}
		admitted, err := s.prepare(rec)
		if err != nil {
			return fmt.Errorf("source: %s line %d: %w", path, lineNo, err)
		}
		if !admitted {
			continue
		}
		if !yield(rec) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("source: scan %s: %w", path, err)
	}
	return nil
}

func (s *JSONLines) decode(kind record.Kind, line []byte) (record.Record, error) {
	switch kind {
	case record.KindNode:
		var n record.Node
		if err := json.Unmarshal(line, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		var e record.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, err
		}
		return &e, nil
	}
}
