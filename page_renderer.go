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

// PageRenderer turns staged chunks into one PDF page file each.
type PageRenderer struct {
	renderer Renderer
	tmpl     *PageTemplate
	settings PageSettings
	workers  int
	logger   zerolog.Logger
}

// NewPageRenderer creates a PageRenderer using at most workers concurrent
// sessions (1 when workers < 1, capped at MaxRenderWorkers).
func NewPageRenderer(r Renderer, tmpl *PageTemplate, settings PageSettings, workers int, logger zerolog.Logger) *PageRenderer {
	return &PageRenderer{
		renderer: r,
		tmpl:     tmpl,
		settings: settings,
		workers:  min(max(workers, MinWorkers), MaxRenderWorkers),
		logger:   logger,
	}
}

// RenderAll renders chunks into dir as page-<ordinal>.pdf and returns the
// pages in ordinal order. onPage, if set, is called once per finished page
// with the number of tickets it holds.
//
// On failure no page list is returned. The failing page's file is removed;
// pages already finished stay on disk for diagnosis.
func (p *PageRenderer) RenderAll(ctx context.Context, chunks []ChunkFile, dir string, onPage func(tickets int)) ([]RenderedPage, error) {
	ordered := slices.Clone(chunks)
	slices.SortFunc(ordered, func(a, b ChunkFile) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})

	pages := make([]RenderedPage, len(ordered))
	err := runIndexed(ctx, len(ordered), p.workers, func(ctx context.Context, i int) error {
		page, err := p.renderOne(ctx, ordered[i], dir)
		if err != nil {
			return err
		}
		pages[i] = page
		if onPage != nil {
			onPage(page.Count)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// renderOne renders a single chunk through its own session.
func (p *PageRenderer) renderOne(ctx context.Context, chunk ChunkFile, dir string) (page RenderedPage, err error) {
	content, err := os.ReadFile(chunk.Path)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("%w: reading chunk %d: %v", ErrStagingIO, chunk.Ordinal, err)
	}

	path := filepath.Join(dir, pageFileName(chunk.Ordinal))
	defer func() {
		if err != nil {
			if _, rmErr := fileutil.RemoveIfExists(path); rmErr != nil {
				p.logger.Warn().Err(rmErr).Str("path", path).Msg("could not remove partial page")
			}
		}
	}()

	sess, err := p.renderer.OpenSession(ctx)
	if err != nil {
		return RenderedPage{}, renderError(chunk, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			p.logger.Debug().Err(cerr).Int("page", chunk.Ordinal).Msg("closing render session")
		}
	}()

	if err := sess.SetContent(ctx, p.tmpl.Compose(string(content))); err != nil {
		return RenderedPage{}, renderError(chunk, err)
	}
	if err := sess.ExportPDF(ctx, path, p.settings); err != nil {
		return RenderedPage{}, renderError(chunk, err)
	}

	p.logger.Debug().
		Int("page", chunk.Ordinal).
		Int("first", chunk.FirstID).
		Int("last", chunk.LastID).
		Msg("page rendered")

	return RenderedPage{Ordinal: chunk.Ordinal, Count: chunk.Count, Path: path}, nil
}

func renderError(chunk ChunkFile, err error) error {
	return fmt.Errorf("%w: page %d (tickets %d-%d): %w", ErrRender, chunk.Ordinal, chunk.FirstID, chunk.LastID, err)
}
