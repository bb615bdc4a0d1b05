package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/biostreams/kgmeta/catalog"
	"github.com/biostreams/kgmeta/summary"
	"github.com/biostreams/kgmeta/transform"
)

func summarizeCmd(configPath *string) *cobra.Command {
	var (
		output        string
		format        string
		inforesReport string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Aggregate a record stream into a meta knowledge graph summary",
		Long: `Summarize consumes the configured record stream in a single pass and
writes a meta knowledge graph summary: per-category node statistics and
per-association edge statistics, both broken down by provenance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(*configPath, output, format, inforesReport)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "meta-knowledge-graph.json", "Summary output path")
	cmd.Flags().StringVar(&format, "format", "", "Summary format (json, yaml); inferred from output path when empty")
	cmd.Flags().StringVar(&inforesReport, "infores-report", "", "Optional path for the canonical-to-raw provenance mapping report")

	return cmd
}

func runSummarize(configPath, output, format, inforesReport string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if format == "" {
		format = "json"
		if strings.HasSuffix(output, ".yaml") || strings.HasSuffix(output, ".yml") {
			format = "yaml"
		}
	}

	src, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}
	defer src.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snk, err := buildSink(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build sink: %w", err)
	}

	graph := summary.New(cfg.Graph.Name, summary.WithLogger(slog.Default()))

	opts := []transform.Option{
		transform.WithLogger(slog.Default()),
		transform.WithInspector(graph),
	}
	if snk != nil {
		opts = append(opts, transform.WithSink(snk))
	}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, transform.WithMetrics(transform.NewMetrics(reg)))
		serveMetrics(cfg.Metrics.Addr, reg)
	}

	if err := transform.New(src, opts...).Process(ctx); err != nil {
		return err
	}

	result := graph.Finalize()
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()
	if err := result.Save(file, format); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if inforesReport != "" {
		if err := writeInforesReport(inforesReport, src.InforesCatalog()); err != nil {
			return err
		}
	}

	slog.Info("Summary written",
		"path", output,
		"nodes", graph.NodeCount(),
		"edges", graph.EdgeCount(),
		"categories", graph.CategoryCount(),
		"warnings", graph.WarningCount())
	return nil
}

// writeInforesReport dumps the canonical-to-raw provenance mapping as
// YAML, canonical identifiers sorted.
func writeInforesReport(path string, cat *catalog.InforesCatalog) error {
	entries := cat.Entries()
	identifiers := make([]string, 0, len(entries))
	for id := range entries {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	doc := yaml.Node{Kind: yaml.MappingNode}
	for _, id := range identifiers {
		var values yaml.Node
		if err := values.Encode(entries[id]); err != nil {
			return fmt.Errorf("encode infores report: %w", err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: id},
			&values)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create infores report: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("write infores report: %w", err)
	}
	return nil
}
