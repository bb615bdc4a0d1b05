package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/biostreams/kgmeta/transform"
)

func transformCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Relay a record stream from the configured source to the configured sink",
		Long: `Transform pumps the configured record stream into the configured sink,
applying provenance normalization and record filters on the way. The
sink is required; use summarize to aggregate without writing records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(*configPath)
		},
	}
	return cmd
}

func runTransform(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Sink.Format == "" {
		return fmt.Errorf("transform requires sink.format to be configured")
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

	opts := []transform.Option{
		transform.WithLogger(slog.Default()),
		transform.WithSink(snk),
	}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, transform.WithMetrics(transform.NewMetrics(reg)))
		serveMetrics(cfg.Metrics.Addr, reg)
	}

	return transform.New(src, opts...).Process(ctx)
}
