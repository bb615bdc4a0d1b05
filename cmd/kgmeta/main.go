// Package main provides the kgmeta binary entry point.
// Kgmeta streams biomedical knowledge graph records from files or NATS,
// normalizes their provenance, and aggregates them into a meta knowledge
// graph summary.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biostreams/kgmeta/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "kgmeta"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "kgmeta",
		Short: "Meta knowledge graph summarizer",
		Long: `Kgmeta consumes streams of knowledge graph nodes and edges,
normalizes their provenance into canonical infores identifiers, and
aggregates them into a meta knowledge graph: node statistics per
category and edge statistics per (subject category, predicate, object
category) association.

Sources include JSON Lines files, N-Triples files and NATS subjects;
records can additionally be relayed to JSON Lines, SQL, Neo4j or NATS
sinks.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(summarizeCmd(&configPath))
	cmd.AddCommand(transformCmd(&configPath))
	cmd.AddCommand(validateCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig resolves the effective configuration: an explicit --config
// file when given, otherwise the layered user and project config files.
func loadConfig(configPath string) (*config.Config, error) {
	loader := config.NewLoader(slog.Default())

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = loader.LoadPath(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
