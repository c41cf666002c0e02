package ticketpdf

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// DefaultArchivePrefix names archives when no prefix is configured.
const DefaultArchivePrefix = "tickets"

// Consolidator merges a batch's pages into one archive, compresses it, and
// drains the batch's staged artifacts.
type Consolidator struct {
	merger     Merger
	compressor Compressor
	staging    *StagingDirectory
	outDir     string
	prefix     string
	logger     zerolog.Logger
}

// NewConsolidator creates a Consolidator writing archives to outDir.
func NewConsolidator(merger Merger, compressor Compressor, staging *StagingDirectory, outDir, prefix string, logger zerolog.Logger) *Consolidator {
	if prefix == "" {
		prefix = DefaultArchivePrefix
	}
	return &Consolidator{
		merger:     merger,
		compressor: compressor,
		staging:    staging,
		outDir:     outDir,
		prefix:     prefix,
		logger:     logger,
	}
}

// ArchiveName returns the uncompressed archive file name for r.
func (c *Consolidator) ArchiveName(r Range) string {
	return fmt.Sprintf("%s-%d-%d.pdf", c.prefix, r.First, r.Last)
}

// Consolidate merges pages in ordinal order into the archive for r and
// compresses it. Only after both succeed are the pages and chunks purged.
// On failure the partial archive is removed and staged files are kept.
func (c *Consolidator) Consolidate(ctx context.Context, r Range, pages []RenderedPage, chunks []ChunkFile) (BatchArchive, error) {
	if len(pages) == 0 {
		return BatchArchive{}, fmt.Errorf("%w: batch %s has no pages", ErrConsolidation, r)
	}

	ordered := slices.Clone(pages)
	slices.SortFunc(ordered, func(a, b RenderedPage) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	inputs := make([]string, len(ordered))
	for i, p := range ordered {
		inputs[i] = p.Path
	}

	if err := os.MkdirAll(c.outDir, 0o750); err != nil {
		return BatchArchive{}, fmt.Errorf("%w: creating output directory: %v", ErrConsolidation, err)
	}

	merged := filepath.Join(c.outDir, c.ArchiveName(r))
	if err := c.merger.Merge(ctx, inputs, merged); err != nil {
		c.discard(merged)
		return BatchArchive{}, fmt.Errorf("%w: merging batch %s: %w", ErrConsolidation, r, err)
	}

	pageCount := len(inputs)
	if counter, ok := c.merger.(PageCounter); ok {
		n, err := counter.PageCount(merged)
		if err != nil {
			c.discard(merged)
			return BatchArchive{}, fmt.Errorf("%w: reading merged archive: %w", ErrConsolidation, err)
		}
		if n < len(inputs) {
			c.discard(merged)
			return BatchArchive{}, fmt.Errorf("%w: merged archive has %d pages, want at least %d", ErrConsolidation, n, len(inputs))
		}
		pageCount = n
	}

	archive, err := c.compressor.Compress(ctx, merged)
	if err != nil {
		c.discard(merged)
		return BatchArchive{}, fmt.Errorf("%w: compressing batch %s: %w", ErrConsolidation, r, err)
	}

	info, err := os.Stat(archive)
	if err != nil {
		return BatchArchive{}, fmt.Errorf("%w: %v", ErrConsolidation, err)
	}

	staged := make([]string, 0, len(inputs)+len(chunks))
	staged = append(staged, inputs...)
	for _, ch := range chunks {
		staged = append(staged, ch.Path)
	}
	c.staging.Purge(staged)

	c.logger.Info().
		Str("archive", archive).
		Stringer("range", r).
		Int("pages", pageCount).
		Int64("bytes", info.Size()).
		Msg("batch consolidated")

	return BatchArchive{Range: r, Path: archive, Size: info.Size(), Pages: pageCount}, nil
}

// discard removes a partial archive, logging rather than returning failures.
func (c *Consolidator) discard(path string) {
	if _, err := fileutil.RemoveIfExists(path); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("could not remove partial archive")
	}
}
