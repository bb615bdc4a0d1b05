package source

import (
	"fmt"
	"log/slog"

	"github.com/biostreams/kgmeta/catalog"
	"github.com/biostreams/kgmeta/filter"
	"github.com/biostreams/kgmeta/infores"
	"github.com/biostreams/kgmeta/record"
)

// ProvenanceSetting configures how one provenance property is treated on
// records flowing through a source. Exactly one of Normalize, Suppress or
// Default should be set; the zero value leaves the property untouched.
type ProvenanceSetting struct {
	// Normalize coerces every raw source name into a canonical infores
	// identifier, optionally rewritten first by Rule.
	Normalize bool
	// Rule is the optional rewrite applied before coercion.
	Rule *infores.Rule
	// Suppress leaves present values untouched and absent values absent.
	Suppress bool
	// Default fills absent values with a fixed provenance identifier.
	Default string
}

// Base carries the behavior shared by every record source: graph-level
// provenance defaults, infores normalization, IRI prefix compaction and
// record filtering. Concrete sources embed it.
type Base struct {
	logger            *slog.Logger
	filters           *filter.Filters
	inforesCatalog    *catalog.InforesCatalog
	defaultProvenance string
	prefixes          map[string]string

	settings   map[string]ProvenanceSetting
	processors map[string]*infores.Processor
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) BaseOption {
	return func(b *Base) { b.logger = logger }
}

// WithFilters installs a record filter set.
func WithFilters(f *filter.Filters) BaseOption {
	return func(b *Base) { b.filters = f }
}

// WithDefaultProvenance sets the provenance value used when a record
// carries none and no per-property default applies.
func WithDefaultProvenance(value string) BaseOption {
	return func(b *Base) { b.defaultProvenance = value }
}

// WithPrefixMap sets the prefix→IRI-namespace map used to compact full
// IRIs into CURIEs.
func WithPrefixMap(prefixes map[string]string) BaseOption {
	return func(b *Base) { b.prefixes = prefixes }
}

// NewBase returns a Base with the given options applied.
func NewBase(opts ...BaseOption) *Base {
	b := &Base{
		logger:         slog.Default(),
		inforesCatalog: catalog.NewInforesCatalog(),
		settings:       make(map[string]ProvenanceSetting),
		processors:     make(map[string]*infores.Processor),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetProvenance configures the treatment of one provenance property.
func (b *Base) SetProvenance(property string, setting ProvenanceSetting) error {
	if !record.IsProvenanceProperty(property) {
		return fmt.Errorf("source: unrecognized provenance property %q", property)
	}
	b.settings[property] = setting
	if setting.Normalize {
		b.processors[property] = infores.NewProcessor(setting.Rule, b.inforesCatalog, b.defaultProvenance)
	}
	return nil
}

// Filters returns the installed filter set, or nil.
func (b *Base) Filters() *filter.Filters { return b.filters }

// InforesCatalog returns the canonical→raw mapping accumulated while
// normalizing provenance fields.
func (b *Base) InforesCatalog() *catalog.InforesCatalog { return b.inforesCatalog }

// Close is a no-op for sources without underlying resources.
func (b *Base) Close() error { return nil }

// ApplyNodeProvenance normalizes the node's provided_by property.
func (b *Base) ApplyNodeProvenance(n *record.Node) {
	n.ProvidedBy = b.apply(record.PropertyProvidedBy, n.ProvidedBy)
}

// ApplyEdgeProvenance normalizes every provenance property present on the
// edge; when none is present, each configured property other than
// provided_by is filled from its setting.
func (b *Base) ApplyEdgeProvenance(e *record.Edge) {
	found := false
	for _, property := range record.ProvenanceProperties {
		if sources := e.SourcesFor(property); len(sources) > 0 {
			e.SetSourcesFor(property, b.apply(property, sources))
			found = true
		}
	}
	if found {
		return
	}
	for property := range b.settings {
		if property == record.PropertyProvidedBy {
			continue
		}
		e.SetSourcesFor(property, b.apply(property, nil))
	}
}

// apply resolves one provenance property value against its setting.
func (b *Base) apply(property string, sources []string) []string {
	setting, ok := b.settings[property]
	if !ok {
		if len(sources) > 0 {
			return sources
		}
		if b.defaultProvenance == "" {
			return nil
		}
		return []string{b.defaultProvenance}
	}
	switch {
	case setting.Normalize:
		return b.processors[property].ProcessList(sources)
	case setting.Suppress:
		return sources
	case setting.Default != "":
		if len(sources) > 0 {
			return sources
		}
		return []string{setting.Default}
	default:
		return sources
	}
}

// Admit evaluates the installed filters against the record. A source with
// no filters admits everything.
func (b *Base) Admit(rec record.Record) bool {
	if b.filters == nil {
		return true
	}
	switch r := rec.(type) {
	case *record.Node:
		return b.filters.AdmitsNode(r)
	case *record.Edge:
		return b.filters.AdmitsEdge(r)
	default:
		return false
	}
}

// prepare validates, normalizes and filters one record, reporting whether
// it should be yielded downstream.
func (b *Base) prepare(rec record.Record) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	switch r := rec.(type) {
	case *record.Node:
		b.ApplyNodeProvenance(r)
	case *record.Edge:
		b.ApplyEdgeProvenance(r)
	}
	return b.Admit(rec), nil
}
