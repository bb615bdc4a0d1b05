// Package summary implements the streaming meta knowledge graph
// aggregation engine.
//
// A MetaKnowledgeGraph consumes one forward pass of node records followed
// by edge records, cataloging node categories and aggregating
// (subject category, predicate, object category) association triples,
// then finalizes into an exportable Summary. Data anomalies (duplicate
// node identifiers, missing categories, edges with unknown endpoints) are
// reported as warnings and never halt the stream.
package summary

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/biostreams/kgmeta/catalog"
	"github.com/biostreams/kgmeta/curie"
	"github.com/biostreams/kgmeta/record"
)

// UnknownIdentifier buckets nodes without categories, records without
// provenance, and edges without predicate or relation values.
const UnknownIdentifier = "unknown"

// ErrFinalized is returned when records are observed after Finalize.
var ErrFinalized = errors.New("summary: meta knowledge graph already finalized")

// engine lifecycle states; there is no transition back to accepting
// without constructing a new engine.
type state int

const (
	stateAccepting state = iota
	stateFinalizing
	stateFinalized
)

// Monitor is a read-only hook given a peek at each record before it is
// aggregated. Implementations must not mutate the record and should be
// cheap so as not to distort stream throughput.
type Monitor interface {
	Observe(kind record.Kind, rec record.Record)
}

// categoryAggregate accumulates per-category node statistics.
type categoryAggregate struct {
	prefixes      map[string]struct{}
	count         int
	countBySource map[string]int
}

func newCategoryAggregate() *categoryAggregate {
	return &categoryAggregate{
		prefixes:      make(map[string]struct{}),
		countBySource: map[string]int{UnknownIdentifier: 0},
	}
}

// observe counts one node occurrence under this category.
func (a *categoryAggregate) observe(nodeID string, sources []string, warnf func(string, ...any)) {
	a.count++
	prefix := curie.Prefix(nodeID)
	if prefix == "" {
		warnf("node id %q has no CURIE prefix", nodeID)
	} else {
		a.prefixes[prefix] = struct{}{}
	}
	if len(sources) == 0 {
		a.countBySource[UnknownIdentifier]++
		return
	}
	for _, s := range sources {
		a.countBySource[s]++
	}
}

// tripleKey is the exact (subject category, predicate, object category)
// identity of one association; no merging across near-duplicate
// categories happens here.
type tripleKey struct {
	subject   string
	predicate string
	object    string
}

// associationAggregate accumulates per-triple edge statistics. It is
// created lazily on the first occurrence of its key and mutated in place.
type associationAggregate struct {
	relations     map[string]struct{}
	count         int
	countBySource map[string]int
}

func newAssociationAggregate() *associationAggregate {
	return &associationAggregate{
		relations:     make(map[string]struct{}),
		countBySource: map[string]int{UnknownIdentifier: 0},
	}
}

// MetaKnowledgeGraph aggregates a stream of node and edge records into a
// category/predicate summary of the graph. It exclusively owns its
// category catalog and association map for the duration of one pass and
// is not safe for concurrent use.
type MetaKnowledgeGraph struct {
	name     string
	monitor  Monitor
	logger   *slog.Logger
	warnings io.Writer

	categories   *catalog.Catalog
	nodeCatalog  map[string][]int
	nodeStats    map[string]*categoryAggregate
	associations map[tripleKey]*associationAggregate
	predicates   map[string]int
	edgeCount    int
	warningCount int

	state   state
	summary *Summary
}

// Option configures a MetaKnowledgeGraph.
type Option func(*MetaKnowledgeGraph)

// WithMonitor installs a read-only record monitor invoked by Inspect
// before aggregation.
func WithMonitor(m Monitor) Option {
	return func(g *MetaKnowledgeGraph) { g.monitor = m }
}

// WithLogger sets the structured logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *MetaKnowledgeGraph) { g.logger = logger }
}

// WithWarningWriter redirects per-record warning diagnostics, one line
// per event. The default sink is standard error.
func WithWarningWriter(w io.Writer) Option {
	return func(g *MetaKnowledgeGraph) { g.warnings = w }
}

// New returns an engine for a single summarization pass over the graph
// with the given name.
func New(name string, opts ...Option) *MetaKnowledgeGraph {
	g := &MetaKnowledgeGraph{
		name:         name,
		logger:       slog.Default(),
		warnings:     os.Stderr,
		categories:   catalog.New(),
		nodeCatalog:  make(map[string][]int),
		nodeStats:    make(map[string]*categoryAggregate),
		associations: make(map[tripleKey]*associationAggregate),
		predicates:   make(map[string]int),
	}
	// The synthetic unknown category occupies index 0 for the life of
	// the pass; it is dropped from the summary if it never accumulates
	// a count.
	g.categories.Register(UnknownIdentifier)
	g.nodeStats[UnknownIdentifier] = newCategoryAggregate()
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// warnf emits one warning diagnostic line.
func (g *MetaKnowledgeGraph) warnf(format string, args ...any) {
	g.warningCount++
	fmt.Fprintf(g.warnings, format+"\n", args...)
}

// Inspect forwards the record to the optional monitor and then aggregates
// it. It satisfies the stream inspector contract used by the transformer.
func (g *MetaKnowledgeGraph) Inspect(rec record.Record) error {
	if g.monitor != nil {
		g.monitor.Observe(rec.Kind(), rec)
	}
	switch r := rec.(type) {
	case *record.Node:
		return g.ObserveNode(r.ID, r.Categories, r.ProvidedBy)
	case *record.Edge:
		return g.ObserveEdge(r.Subject, r.Object, r.Key, r.Predicate, r.Relation, r.Provenance())
	default:
		return fmt.Errorf("summary: unexpected record kind %s", rec.Kind())
	}
}

// ObserveNode registers one node record. Duplicate identifiers and nodes
// without categories are warned about and excluded from per-category
// analysis; a single category value may carry multiple pipe-delimited
// CURIEs, each analysed independently.
func (g *MetaKnowledgeGraph) ObserveNode(id string, categories []string, sources []string) error {
	if g.state != stateAccepting {
		return ErrFinalized
	}
	if _, ok := g.nodeCatalog[id]; ok {
		g.warnf("duplicate node identifier %q encountered in input node data, ignoring", id)
		return nil
	}
	g.nodeCatalog[id] = nil

	if len(categories) == 0 {
		g.nodeStats[UnknownIdentifier].observe(id, sources, g.warnf)
		g.warnf("node %q is missing its category value, counting it as %q", id, UnknownIdentifier)
		return nil
	}

	for _, value := range categories {
		for _, category := range strings.Split(value, "|") {
			aggregate, ok := g.nodeStats[category]
			if !ok {
				aggregate = newCategoryAggregate()
				g.nodeStats[category] = aggregate
			}
			index := g.categories.Register(category)
			if !containsIndex(g.nodeCatalog[id], index) {
				g.nodeCatalog[id] = append(g.nodeCatalog[id], index)
			}
			aggregate.observe(id, sources, g.warnf)
		}
	}
	return nil
}

// ObserveEdge aggregates one edge record over the cartesian product of
// its subject and object category sets: an edge whose subject has m
// categories and object has n categories contributes to m×n distinct
// association triples. Edges referencing nodes absent from the node
// catalog are warned about and rolled back from the totals.
//
// Empty predicate or relation values degrade to the "unknown" identifier
// rather than aborting the stream, consistent with the missing-provenance
// policy.
func (g *MetaKnowledgeGraph) ObserveEdge(subject, object, key, predicate, relation string, sources []string) error {
	if g.state != stateAccepting {
		return ErrFinalized
	}
	if predicate == "" {
		g.warnf("edge %q has no predicate, counting it as %q", key, UnknownIdentifier)
		predicate = UnknownIdentifier
	}
	if relation == "" {
		relation = UnknownIdentifier
	}

	g.edgeCount++
	g.predicates[predicate]++

	subjectIndices, ok := g.nodeCatalog[subject]
	if !ok {
		g.edgeCount--
		g.predicates[predicate]--
		g.warnf("edge subject node %q not found in node catalog, ignoring", subject)
		return nil
	}

	for _, subjectIndex := range subjectIndices {
		subjectCategory, err := g.categories.Identifier(subjectIndex)
		if err != nil {
			return err
		}
		// The object is re-checked inside the subject loop: a missing
		// object aborts processing of the edge entirely, even mid-loop.
		objectIndices, ok := g.nodeCatalog[object]
		if !ok {
			g.edgeCount--
			g.predicates[predicate]--
			g.warnf("edge object node %q not found in node catalog, ignoring", object)
			return nil
		}
		for _, objectIndex := range objectIndices {
			objectCategory, err := g.categories.Identifier(objectIndex)
			if err != nil {
				return err
			}
			k := tripleKey{subject: subjectCategory, predicate: predicate, object: objectCategory}
			aggregate, ok := g.associations[k]
			if !ok {
				aggregate = newAssociationAggregate()
				g.associations[k] = aggregate
			}
			aggregate.relations[relation] = struct{}{}
			aggregate.count++
			if len(sources) == 0 {
				aggregate.countBySource[UnknownIdentifier]++
			} else {
				for _, s := range sources {
					aggregate.countBySource[s]++
				}
			}
		}
	}
	return nil
}

func containsIndex(indices []int, index int) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
