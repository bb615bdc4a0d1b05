package infores

import "github.com/biostreams/kgmeta/catalog"

// Processor normalizes the provenance fields of records flowing through a
// source. Every canonical identifier it produces is recorded, together
// with the raw source name it came from, in the catalog shared by the
// owning source.
type Processor struct {
	rule              *Rule
	catalog           *catalog.InforesCatalog
	defaultProvenance string
}

// NewProcessor returns a processor applying the given rewrite rule (nil
// for standard coercion only). Absent source values resolve to
// defaultProvenance.
func NewProcessor(rule *Rule, cat *catalog.InforesCatalog, defaultProvenance string) *Processor {
	if cat == nil {
		cat = catalog.NewInforesCatalog()
	}
	return &Processor{
		rule:              rule,
		catalog:           cat,
		defaultProvenance: defaultProvenance,
	}
}

// Catalog returns the canonical→raw mapping accumulated so far.
func (p *Processor) Catalog() *catalog.InforesCatalog {
	return p.catalog
}

// ProcessList normalizes a list-valued provenance field. An empty or nil
// input yields a single-element list holding the default provenance; raw
// names that normalize to the empty string are dropped.
func (p *Processor) ProcessList(sources []string) []string {
	if len(sources) == 0 {
		return []string{p.defaultProvenance}
	}
	results := make([]string, 0, len(sources))
	for _, source := range sources {
		id := Normalize(source, p.rule)
		if id == "" {
			continue
		}
		p.catalog.Add(id, source)
		results = append(results, id)
	}
	return results
}

// ProcessScalar normalizes a scalar provenance field. An empty input
// yields the default provenance.
func (p *Processor) ProcessScalar(source string) string {
	if source == "" {
		return p.defaultProvenance
	}
	id := Normalize(source, p.rule)
	if id == "" {
		return ""
	}
	p.catalog.Add(id, source)
	return id
}
