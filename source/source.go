// Package source provides record sources that stream typed graph records
// from files, message streams and in-memory slices.
//
// Every source owns the provenance normalization and record filtering
// applied to the stream: records handed to the yield function already
// carry canonical infores identifiers and have passed the configured
// filters. Nodes are always streamed before edges; no backfill path
// exists for edges referencing nodes that were never yielded.
package source

import (
	"context"

	"github.com/biostreams/kgmeta/catalog"
	"github.com/biostreams/kgmeta/record"
)

// Source streams graph records in a single forward pass.
type Source interface {
	// Read streams all records, nodes first, then edges, delivering each
	// admitted record to yield. Reading stops early when yield returns
	// false or ctx is cancelled.
	Read(ctx context.Context, yield func(record.Record) bool) error

	// InforesCatalog returns the canonical→raw source-name mapping
	// accumulated while normalizing provenance fields.
	InforesCatalog() *catalog.InforesCatalog

	// Close releases any resources held by the source.
	Close() error
}
