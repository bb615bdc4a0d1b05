// Package config provides configuration loading and management for kgmeta.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/biostreams/kgmeta/filter"
	"github.com/biostreams/kgmeta/infores"
	"github.com/biostreams/kgmeta/record"
	"github.com/biostreams/kgmeta/source"
)

// Config represents the complete kgmeta configuration.
type Config struct {
	Graph      GraphConfig                `yaml:"graph"`
	Provenance map[string]ProvenanceValue `yaml:"provenance"`
	Filters    FiltersConfig              `yaml:"filters"`
	Source     SourceConfig               `yaml:"source"`
	Sink       SinkConfig                 `yaml:"sink"`
	Metrics    MetricsConfig              `yaml:"metrics"`
}

// GraphConfig names the graph and sets stream-wide defaults.
type GraphConfig struct {
	// Name is assigned to the generated summary.
	Name string `yaml:"name"`
	// DefaultProvenance is used when a record carries no provenance and
	// no per-property default applies.
	DefaultProvenance string `yaml:"default_provenance"`
	// Prefixes maps CURIE prefixes to IRI namespaces for compacting
	// full IRIs read from RDF inputs.
	Prefixes map[string]string `yaml:"prefixes"`
}

// ProvenanceValue configures the treatment of one provenance property.
// In YAML it may be a boolean (true = normalize to infores identifiers,
// false = suppress), a string (fixed default value), or a list of up to
// three strings (rewrite pattern, substitution, prefix).
type ProvenanceValue struct {
	Normalize bool
	Suppress  bool
	Default   string
	Rewrite   []string
}

// UnmarshalYAML implements yaml.Unmarshaler for the three accepted shapes.
func (v *ProvenanceValue) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		v.Normalize = b
		v.Suppress = !b
		return nil
	}
	var s string
	if err := node.Decode(&s); err == nil {
		v.Default = s
		return nil
	}
	var parts []string
	if err := node.Decode(&parts); err == nil {
		if len(parts) > 3 {
			return fmt.Errorf("config: provenance rewrite takes at most [pattern, substitution, prefix], got %d elements", len(parts))
		}
		v.Normalize = true
		v.Rewrite = parts
		return nil
	}
	return fmt.Errorf("config: provenance value must be a boolean, string or list")
}

// Setting converts the configured value into a source provenance setting.
func (v ProvenanceValue) Setting() (source.ProvenanceSetting, error) {
	switch {
	case v.Normalize:
		setting := source.ProvenanceSetting{Normalize: true}
		if len(v.Rewrite) > 0 {
			rule, err := infores.ParseRule(v.Rewrite)
			if err != nil {
				return source.ProvenanceSetting{}, err
			}
			setting.Rule = rule
		}
		return setting, nil
	case v.Suppress:
		return source.ProvenanceSetting{Suppress: true}, nil
	default:
		return source.ProvenanceSetting{Default: v.Default}, nil
	}
}

// FilterValue is a filter value: a scalar string or a list of admissible
// values.
type FilterValue struct {
	Scalar string
	Set    []string
}

// UnmarshalYAML accepts a string or a list of strings.
func (v *FilterValue) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		v.Scalar = s
		return nil
	}
	var list []string
	if err := node.Decode(&list); err == nil {
		v.Set = list
		return nil
	}
	return fmt.Errorf("config: filter value must be a string or list of strings")
}

// Value converts to a filter value.
func (v FilterValue) Value() filter.Value {
	if v.Set != nil {
		return filter.SetValue(v.Set...)
	}
	return filter.ScalarValue(v.Scalar)
}

// FiltersConfig restricts the streamed view of the graph.
type FiltersConfig struct {
	Node map[string]FilterValue `yaml:"node"`
	Edge map[string]FilterValue `yaml:"edge"`
}

// Build constructs the filter set, failing fast on wrongly shaped values.
func (f FiltersConfig) Build() (*filter.Filters, error) {
	if len(f.Node) == 0 && len(f.Edge) == 0 {
		return nil, nil
	}
	filters := filter.New()
	for key, value := range f.Node {
		if err := filters.SetNodeFilter(key, value.Value()); err != nil {
			return nil, err
		}
	}
	for key, value := range f.Edge {
		if err := filters.SetEdgeFilter(key, value.Value()); err != nil {
			return nil, err
		}
	}
	return filters, nil
}

// Source and sink format identifiers.
const (
	FormatJSONLines = "jsonlines"
	FormatNTriples  = "ntriples"
	FormatNATS      = "nats"
	FormatSQL       = "sql"
	FormatNeo4j     = "neo4j"
)

// SourceConfig selects and parameterizes the record source.
type SourceConfig struct {
	Format string `yaml:"format"`
	// Inputs are file paths or doublestar glob patterns.
	Inputs []string `yaml:"inputs"`
	// URL and Subject configure the NATS source.
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SinkConfig selects and parameterizes the record sink. An empty format
// disables record output.
type SinkConfig struct {
	Format string `yaml:"format"`
	// Path is the output basename for file sinks.
	Path string `yaml:"path"`
	// URL and Subject configure the NATS sink.
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	// DSN and table names configure the SQL sink.
	DSN          string `yaml:"dsn"`
	NodeTable    string `yaml:"node_table"`
	EdgeTable    string `yaml:"edge_table"`
	DropExisting bool   `yaml:"drop_existing"`
	// Neo4j connection settings.
	URI       string `yaml:"uri"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	BatchSize int    `yaml:"batch_size"`
}

// MetricsConfig exposes pipeline metrics when Addr is set.
type MetricsConfig struct {
	// Addr is the listen address for the Prometheus endpoint,
	// e.g. ":9090". Empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			Name:              "graph",
			DefaultProvenance: "graph",
		},
		Source: SourceConfig{
			Format: FormatJSONLines,
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Graph.Name == "" {
		return fmt.Errorf("graph.name is required")
	}
	switch c.Source.Format {
	case FormatJSONLines, FormatNTriples:
		if len(c.Source.Inputs) == 0 {
			return fmt.Errorf("source.inputs is required for format %q", c.Source.Format)
		}
	case FormatNATS:
		if c.Source.Subject == "" {
			return fmt.Errorf("source.subject is required for format %q", c.Source.Format)
		}
	default:
		return fmt.Errorf("unknown source.format %q", c.Source.Format)
	}
	switch c.Sink.Format {
	case "", FormatJSONLines, FormatNATS, FormatSQL, FormatNeo4j:
	default:
		return fmt.Errorf("unknown sink.format %q", c.Sink.Format)
	}
	for property, value := range c.Provenance {
		if !record.IsProvenanceProperty(property) {
			return fmt.Errorf("unrecognized provenance property %q", property)
		}
		if _, err := value.Setting(); err != nil {
			return fmt.Errorf("provenance.%s: %w", property, err)
		}
	}
	if _, err := c.Filters.Build(); err != nil {
		return err
	}
	return nil
}

// Merge overlays non-zero values from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Graph.Name != "" {
		c.Graph.Name = other.Graph.Name
	}
	if other.Graph.DefaultProvenance != "" {
		c.Graph.DefaultProvenance = other.Graph.DefaultProvenance
	}
	if len(other.Graph.Prefixes) > 0 {
		c.Graph.Prefixes = other.Graph.Prefixes
	}
	if len(other.Provenance) > 0 {
		c.Provenance = other.Provenance
	}
	if len(other.Filters.Node) > 0 || len(other.Filters.Edge) > 0 {
		c.Filters = other.Filters
	}
	if other.Source.Format != "" {
		c.Source = other.Source
	}
	if other.Sink.Format != "" {
		c.Sink = other.Sink
	}
	if other.Metrics.Addr != "" {
		c.Metrics = other.Metrics
	}
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
