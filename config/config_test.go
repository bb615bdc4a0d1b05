package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/biostreams/kgmeta/filter"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Graph.Name != "graph" {
		t.Errorf("expected default graph name graph, got %s", cfg.Graph.Name)
	}
	if cfg.Graph.DefaultProvenance != "graph" {
		t.Errorf("expected default provenance graph, got %s", cfg.Graph.DefaultProvenance)
	}
	if cfg.Source.Format != FormatJSONLines {
		t.Errorf("expected default source format jsonlines, got %s", cfg.Source.Format)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func(c *Config) {
		c.Source.Inputs = []string{"graph_nodes.jsonl"}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid jsonlines config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing graph name",
			modify:  func(c *Config) { c.Graph.Name = "" },
			wantErr: true,
		},
		{
			name:    "jsonlines without inputs",
			modify:  func(c *Config) { c.Source.Inputs = nil },
			wantErr: true,
		},
		{
			name:    "unknown source format",
			modify:  func(c *Config) { c.Source.Format = "csv" },
			wantErr: true,
		},
		{
			name: "nats source without subject",
			modify: func(c *Config) {
				c.Source.Format = FormatNATS
				c.Source.Subject = ""
			},
			wantErr: true,
		},
		{
			name: "nats source with subject",
			modify: func(c *Config) {
				c.Source.Format = FormatNATS
				c.Source.Subject = "kg.records"
			},
			wantErr: false,
		},
		{
			name:    "unknown sink format",
			modify:  func(c *Config) { c.Sink.Format = "parquet" },
			wantErr: true,
		},
		{
			name: "unrecognized provenance property",
			modify: func(c *Config) {
				c.Provenance = map[string]ProvenanceValue{"predicate": {Normalize: true}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			valid(cfg)
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "kgmeta.yaml")

	content := `
graph:
  name: "monarch"
  default_provenance: "infores:monarch"
  prefixes:
    ex: "http://example.org/"
provenance:
  knowledge_source: true
  aggregator_knowledge_source: ["Initiative", "", "infores"]
  provided_by: "infores:fallback"
  supporting_data_source: false
filters:
  node:
    category: ["biolink:Gene"]
  edge:
    predicate: "biolink:related_to"
source:
  format: jsonlines
  inputs:
    - "data/*_nodes.jsonl"
    - "data/*_edges.jsonl"
sink:
  format: neo4j
  uri: "neo4j://localhost:7687"
  username: "neo4j"
  password: "secret"
metrics:
  addr: ":9464"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Graph.Name != "monarch" {
		t.Errorf("graph name = %s", cfg.Graph.Name)
	}
	if cfg.Graph.Prefixes["ex"] != "http://example.org/" {
		t.Errorf("prefixes = %v", cfg.Graph.Prefixes)
	}

	ks := cfg.Provenance["knowledge_source"]
	if !ks.Normalize || ks.Suppress {
		t.Errorf("knowledge_source = %+v, want normalize", ks)
	}
	aks := cfg.Provenance["aggregator_knowledge_source"]
	if !aks.Normalize || len(aks.Rewrite) != 3 {
		t.Errorf("aggregator_knowledge_source = %+v, want rewrite rule", aks)
	}
	pb := cfg.Provenance["provided_by"]
	if pb.Default != "infores:fallback" {
		t.Errorf("provided_by = %+v, want fixed default", pb)
	}
	sds := cfg.Provenance["supporting_data_source"]
	if !sds.Suppress || sds.Normalize {
		t.Errorf("supporting_data_source = %+v, want suppress", sds)
	}

	if len(cfg.Source.Inputs) != 2 {
		t.Errorf("source inputs = %v", cfg.Source.Inputs)
	}
	if cfg.Sink.URI != "neo4j://localhost:7687" {
		t.Errorf("sink uri = %s", cfg.Sink.URI)
	}
	if cfg.Metrics.Addr != ":9464" {
		t.Errorf("metrics addr = %s", cfg.Metrics.Addr)
	}
}

func TestProvenanceValueSetting(t *testing.T) {
	normalize := ProvenanceValue{Normalize: true, Rewrite: []string{"Initiative", "", "infores"}}
	setting, err := normalize.Setting()
	if err != nil {
		t.Fatalf("Setting() error = %v", err)
	}
	if !setting.Normalize || setting.Rule == nil {
		t.Errorf("setting = %+v", setting)
	}

	bad := ProvenanceValue{Normalize: true, Rewrite: []string{"["}}
	if _, err := bad.Setting(); err == nil {
		t.Error("Setting() accepted an invalid rewrite pattern")
	}

	suppress := ProvenanceValue{Suppress: true}
	setting, err = suppress.Setting()
	if err != nil {
		t.Fatalf("Setting() error = %v", err)
	}
	if !setting.Suppress {
		t.Errorf("setting = %+v", setting)
	}
}

func TestFiltersConfigBuild(t *testing.T) {
	fc := FiltersConfig{
		Node: map[string]FilterValue{
			"category": {Set: []string{"biolink:Gene"}},
		},
		Edge: map[string]FilterValue{
			"predicate": {Scalar: "biolink:related_to"},
		},
	}

	filters, err := fc.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if filters == nil || filters.Empty() {
		t.Fatal("Build() produced no filters")
	}
	if _, ok := filters.NodeFilter(filter.FieldCategory); !ok {
		t.Error("node category filter not installed")
	}

	// Scalar category filters are rejected at build time.
	bad := FiltersConfig{
		Node: map[string]FilterValue{
			"category": {Scalar: "biolink:Gene"},
		},
	}
	if _, err := bad.Build(); err == nil {
		t.Error("Build() accepted a scalar category filter")
	}

	empty := FiltersConfig{}
	filters, err = empty.Build()
	if err != nil || filters != nil {
		t.Errorf("empty Build() = %v, %v", filters, err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{
		Graph: GraphConfig{Name: "override"},
		Source: SourceConfig{
			Format: FormatNTriples,
			Inputs: []string{"graph.nt"},
		},
	}
	base.Merge(overlay)

	if base.Graph.Name != "override" {
		t.Errorf("graph name = %s", base.Graph.Name)
	}
	// Untouched fields keep their defaults.
	if base.Graph.DefaultProvenance != "graph" {
		t.Errorf("default provenance = %s", base.Graph.DefaultProvenance)
	}
	if base.Source.Format != FormatNTriples {
		t.Errorf("source format = %s", base.Source.Format)
	}

	base.Merge(nil)
	if base.Graph.Name != "override" {
		t.Error("Merge(nil) mutated config")
	}
}

func TestLoaderLayering(t *testing.T) {
	tmpDir := t.TempDir()
	projectPath := filepath.Join(tmpDir, ProjectConfigFile)
	content := `
graph:
  name: "layered"
source:
  format: jsonlines
  inputs: ["graph_nodes.jsonl"]
`
	if err := os.WriteFile(projectPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Graph.Name != "layered" {
		t.Errorf("graph name = %s, want layered", cfg.Graph.Name)
	}
	// Defaults survive underneath the project layer.
	if cfg.Graph.DefaultProvenance != "graph" {
		t.Errorf("default provenance = %s", cfg.Graph.DefaultProvenance)
	}
}
