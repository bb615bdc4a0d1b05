package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biostreams/kgmeta/config"
	"github.com/biostreams/kgmeta/sink"
	"github.com/biostreams/kgmeta/source"
)

// buildBase assembles the shared source behavior from config: filters,
// provenance settings, prefix map and the graph-level default.
func buildBase(cfg *config.Config) (*source.Base, error) {
	filters, err := cfg.Filters.Build()
	if err != nil {
		return nil, err
	}

	opts := []source.BaseOption{
		source.WithLogger(slog.Default()),
		source.WithDefaultProvenance(cfg.Graph.DefaultProvenance),
	}
	if filters != nil {
		opts = append(opts, source.WithFilters(filters))
	}
	if len(cfg.Graph.Prefixes) > 0 {
		opts = append(opts, source.WithPrefixMap(cfg.Graph.Prefixes))
	}

	base := source.NewBase(opts...)
	for property, value := range cfg.Provenance {
		setting, err := value.Setting()
		if err != nil {
			return nil, fmt.Errorf("provenance.%s: %w", property, err)
		}
		if err := base.SetProvenance(property, setting); err != nil {
			return nil, err
		}
	}
	return base, nil
}

// buildSource constructs the configured record source.
func buildSource(cfg *config.Config) (source.Source, error) {
	base, err := buildBase(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Source.Format {
	case config.FormatJSONLines:
		return source.NewJSONLines(base, cfg.Source.Inputs...)
	case config.FormatNTriples:
		if len(cfg.Source.Inputs) != 1 {
			return nil, fmt.Errorf("ntriples source takes exactly one input, got %d", len(cfg.Source.Inputs))
		}
		return source.NewNTriples(base, cfg.Source.Inputs[0])
	case config.FormatNATS:
		return source.NewNATS(base, cfg.Source.URL, cfg.Source.Subject)
	default:
		return nil, fmt.Errorf("unknown source format %q", cfg.Source.Format)
	}
}

// buildSink constructs the configured record sink, or nil when no sink
// is configured.
func buildSink(ctx context.Context, cfg *config.Config) (sink.Sink, error) {
	switch cfg.Sink.Format {
	case "":
		return nil, nil
	case config.FormatJSONLines:
		return sink.NewJSONLines(cfg.Sink.Path)
	case config.FormatNATS:
		return sink.NewNATS(cfg.Sink.URL, cfg.Sink.Subject)
	case config.FormatSQL:
		return sink.NewSQL(ctx, sink.SQLConfig{
			DSN:          cfg.Sink.DSN,
			NodeTable:    cfg.Sink.NodeTable,
			EdgeTable:    cfg.Sink.EdgeTable,
			DropExisting: cfg.Sink.DropExisting,
		})
	case config.FormatNeo4j:
		return sink.NewNeo4j(ctx, sink.Neo4jConfig{
			URI:       cfg.Sink.URI,
			Username:  cfg.Sink.Username,
			Password:  cfg.Sink.Password,
			Database:  cfg.Sink.Database,
			BatchSize: cfg.Sink.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown sink format %q", cfg.Sink.Format)
	}
}

// serveMetrics exposes the registry on the configured address. The
// listener runs until the process exits.
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Metrics endpoint failed", "addr", addr, "error", err)
		}
	}()
	slog.Info("Serving metrics", "addr", addr)
}
