package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/biostreams/kgmeta/transform"
	"github.com/biostreams/kgmeta/validate"
)

func validateCmd(configPath *string) *cobra.Command {
	var prefixes []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a record stream for missing properties and malformed identifiers",
		Long: `Validate consumes the configured record stream and reports records with
missing required properties, nodes without categories, and identifiers
that are not well-formed CURIEs. The command exits non-zero when any
error-level finding is recorded; warnings alone do not fail it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(*configPath, prefixes)
		},
	}

	cmd.Flags().StringSliceVar(&prefixes, "prefixes", nil, "Known CURIE prefixes; identifiers outside the set are reported")

	return cmd
}

func runValidate(configPath string, prefixes []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	src, err := buildSource(cfg)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}
	defer src.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []validate.Option
	if len(prefixes) > 0 {
		opts = append(opts, validate.WithPrefixes(prefixes...))
	}
	validator := validate.New(opts...)

	pump := transform.New(src,
		transform.WithLogger(slog.Default()),
		transform.WithInspector(validator),
	)
	if err := pump.Process(ctx); err != nil {
		return err
	}

	for _, line := range validator.Report() {
		fmt.Fprintln(os.Stdout, line)
	}

	errors := validator.ErrorCount(validate.LevelError)
	warnings := validator.ErrorCount(validate.LevelWarning)
	slog.Info("Validation complete", "errors", errors, "warnings", warnings)
	if errors > 0 {
		return fmt.Errorf("validation found %d error(s)", errors)
	}
	return nil
}
