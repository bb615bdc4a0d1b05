package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// CategoryStats is the exported per-category slice of a Summary.
type CategoryStats struct {
	IDPrefixes    []string       `json:"id_prefixes" yaml:"id_prefixes"`
	Count         int            `json:"count" yaml:"count"`
	CountBySource map[string]int `json:"count_by_source" yaml:"count_by_source"`
}

// EdgeStats is the exported per-association-triple slice of a Summary.
type EdgeStats struct {
	Subject       string         `json:"subject" yaml:"subject"`
	Predicate     string         `json:"predicate" yaml:"predicate"`
	Object        string         `json:"object" yaml:"object"`
	Relations     []string       `json:"relations" yaml:"relations"`
	Count         int            `json:"count" yaml:"count"`
	CountBySource map[string]int `json:"count_by_source" yaml:"count_by_source"`
}

// Summary is the terminal, read-mostly snapshot of one summarization
// pass. It is built once by Finalize and never mutated afterward.
type Summary struct {
	Name  string                   `json:"name" yaml:"name"`
	Nodes map[string]CategoryStats `json:"nodes" yaml:"nodes"`
	Edges []EdgeStats              `json:"edges" yaml:"edges"`

	TotalNodes int `json:"-" yaml:"-"`
	TotalEdges int `json:"-" yaml:"-"`
}

// Finalize builds the exportable summary. The first call freezes the
// engine: subsequent calls return the same cached summary, and any
// observation after finalization fails with ErrFinalized. The synthetic
// unknown category is excluded when it accumulated no count.
func (g *MetaKnowledgeGraph) Finalize() *Summary {
	if g.state == stateFinalized {
		return g.summary
	}
	g.state = stateFinalizing

	nodes := make(map[string]CategoryStats, len(g.nodeStats))
	for category, aggregate := range g.nodeStats {
		if category == UnknownIdentifier && aggregate.count == 0 {
			continue
		}
		nodes[category] = CategoryStats{
			IDPrefixes:    sortedKeys(aggregate.prefixes),
			Count:         aggregate.count,
			CountBySource: copyCounts(aggregate.countBySource),
		}
	}

	edges := make([]EdgeStats, 0, len(g.associations))
	for key, aggregate := range g.associations {
		edges = append(edges, EdgeStats{
			Subject:       key.subject,
			Predicate:     key.predicate,
			Object:        key.object,
			Relations:     sortedKeys(aggregate.relations),
			Count:         aggregate.count,
			CountBySource: copyCounts(aggregate.countBySource),
		})
	}
	// Deterministic order keeps serialized summaries reproducible.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Subject != edges[j].Subject {
			return edges[i].Subject < edges[j].Subject
		}
		if edges[i].Predicate != edges[j].Predicate {
			return edges[i].Predicate < edges[j].Predicate
		}
		return edges[i].Object < edges[j].Object
	})

	g.summary = &Summary{
		Name:       g.name,
		Nodes:      nodes,
		Edges:      edges,
		TotalNodes: len(g.nodeCatalog),
		TotalEdges: g.edgeCount,
	}
	g.state = stateFinalized
	g.logger.Info("meta knowledge graph finalized",
		"name", g.name,
		"nodes", g.summary.TotalNodes,
		"edges", g.summary.TotalEdges,
		"categories", len(nodes),
		"associations", len(edges))
	return g.summary
}

// WriteJSON serializes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(s)
}

// WriteYAML serializes the summary as YAML.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s)
}

// Save writes the summary in the given format, "json" or "yaml".
func (s *Summary) Save(w io.Writer, format string) error {
	switch format {
	case "", "json":
		return s.WriteJSON(w)
	case "yaml", "yml":
		return s.WriteYAML(w)
	default:
		return fmt.Errorf("summary: unsupported format %q", format)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
