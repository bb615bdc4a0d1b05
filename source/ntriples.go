package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biostreams/kgmeta/curie"
	"github.com/biostreams/kgmeta/record"
)

// defaultCategory is assigned to bare concept nodes materialized from
// N-Triples terms, which carry no category of their own.
const defaultCategory = "biolink:NamedThing"

// NTriples streams an N-Triples file. Each statement with an IRI object
// yields the subject node, the object node and one edge; statements with
// literal objects describe node properties and are skipped. Node records
// are yielded once per distinct term and always before any edge that
// references them.
type NTriples struct {
	*Base
	path string
	seen map[string]struct{}
}

// NewNTriples returns a source reading the N-Triples file at path.
// Files ending in ".gz" are decompressed transparently.
func NewNTriples(base *Base, path string) (*NTriples, error) {
	if base == nil {
		base = NewBase()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &NTriples{
		Base: base,
		path: path,
		seen: make(map[string]struct{}),
	}, nil
}

// Read implements Source.
func (s *NTriples) Read(ctx context.Context, yield func(record.Record) bool) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("source: open %s: %w", s.path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("source: open gzip %s: %w", s.path, err)
		}
		defer gz.Close()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subject, predicate, object, isLiteral, err := parseStatement(line)
		if err != nil {
			return fmt.Errorf("source: %s line %d: %w", s.path, lineNo, err)
		}
		if isLiteral {
			// Literal objects carry node properties, not edges.
			s.logger.Debug("skipping literal statement", "line", lineNo)
			continue
		}
		subject = curie.Shrink(subject, s.prefixes)
		predicate = curie.Shrink(predicate, s.prefixes)
		object = curie.Shrink(object, s.prefixes)

		more, err := s.yieldNode(subject, yield)
		if err != nil || !more {
			return err
		}
		more, err = s.yieldNode(object, yield)
		if err != nil || !more {
			return err
		}
		edge := &record.Edge{
			Subject:   subject,
			Object:    object,
			Key:       curie.EdgeKey(subject, predicate, object),
			Predicate: predicate,
			Relation:  predicate,
		}
		admitted, err := s.prepare(edge)
		if err != nil {
			return err
		}
		if admitted && !yield(edge) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("source: scan %s: %w", s.path, err)
	}
	return nil
}

// yieldNode materializes a bare concept node once per distinct term.
func (s *NTriples) yieldNode(id string, yield func(record.Record) bool) (bool, error) {
	if _, ok := s.seen[id]; ok {
		return true, nil
	}
	s.seen[id] = struct{}{}
	node := &record.Node{
		ID:         id,
		Categories: []string{defaultCategory},
	}
	admitted, err := s.prepare(node)
	if err != nil {
		return false, err
	}
	if !admitted {
		return true, nil
	}
	return yield(node), nil
}

// parseStatement splits one N-Triples statement into its three terms.
// Objects may be IRIs, blank nodes or literals; subjects and predicates
// must be IRIs or blank nodes.
func parseStatement(line string) (subject, predicate, object string, isLiteral bool, err error) {
	rest := line
	subject, rest, err = parseTerm(rest)
	if err != nil {
		return "", "", "", false, err
	}
	predicate, rest, err = parseTerm(rest)
	if err != nil {
		return "", "", "", false, err
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		return subject, predicate, "", true, nil
	}
	object, rest, err = parseTerm(rest)
	if err != nil {
		return "", "", "", false, err
	}
	rest = strings.TrimSpace(rest)
	if rest != "." {
		return "", "", "", false, fmt.Errorf("trailing garbage %q", rest)
	}
	return subject, predicate, object, false, nil
}

// parseTerm consumes one IRI or blank node term from the front of s.
func parseTerm(s string) (term, rest string, err error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "<"):
		end := strings.Index(s, ">")
		if end < 0 {
			return "", "", fmt.Errorf("unterminated IRI in %q", s)
		}
		return s[1:end], s[end+1:], nil
	case strings.HasPrefix(s, "_:"):
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		return s[:end], s[end:], nil
	default:
		return "", "", fmt.Errorf("unexpected term in %q", s)
	}
}
