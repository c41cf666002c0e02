package ticketpdf

// Notes:
// - Pages are stored by chunk ordinal, so concurrent completion order never
//   leaks into the returned slice
// - A failing page's partial file is removed; finished pages stay

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// stageChunks writes n chunks of size tickets each and returns them.
func stageChunks(t *testing.T, s *StagingDirectory, n, size int) []ChunkFile {
	t.Helper()

	w, err := NewChunkWriter(s, size)
	if err != nil {
		t.Fatalf("NewChunkWriter() error = %v", err)
	}
	var chunks []ChunkFile
	id := 1
	for range n {
		for range size {
			if err := w.Append(item(id)); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
			id++
		}
		c, err := w.Flush()
		if err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func newTestPageRenderer(t *testing.T, r Renderer, workers int) *PageRenderer {
	t.Helper()

	tmpl, err := NewPageTemplate(testPageTemplate, "", "", DefaultPageSettings())
	if err != nil {
		t.Fatalf("NewPageTemplate() error = %v", err)
	}
	return NewPageRenderer(r, tmpl, DefaultPageSettings(), workers, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// TestPageRenderer_RenderAll
// ---------------------------------------------------------------------------

func TestPageRenderer_RenderAllOrdered(t *testing.T) {
	t.Parallel()

	s := newTestStaging(t)
	chunks := stageChunks(t, s, 6, 3)
	// Shuffle input; output must follow ordinals.
	chunks[0], chunks[5] = chunks[5], chunks[0]
	chunks[1], chunks[3] = chunks[3], chunks[1]

	r := &fakeRenderer{}
	var rendered atomic.Int32
	pages, err := newTestPageRenderer(t, r, 4).RenderAll(context.Background(), chunks, s.Path(), func(n int) {
		rendered.Add(int32(n))
	})
	if err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	var ordinals []int
	var ids []int
	for _, p := range pages {
		ordinals = append(ordinals, p.Ordinal)
		if filepath.Base(p.Path) != "page-"+strconv.Itoa(p.Ordinal)+".pdf" {
			t.Errorf("page %d path = %s", p.Ordinal, p.Path)
		}
		data, err := os.ReadFile(p.Path)
		if err != nil {
			t.Fatalf("reading page: %v", err)
		}
		ids = append(ids, ticketIDs(t, data)...)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6}, ordinals); diff != "" {
		t.Errorf("ordinals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seq(1, 18), ids); diff != "" {
		t.Errorf("ticket order mismatch (-want +got):\n%s", diff)
	}
	if rendered.Load() != 18 {
		t.Errorf("onPage total = %d, want 18", rendered.Load())
	}
	if r.opened.Load() != 6 || r.closed.Load() != 6 {
		t.Errorf("sessions opened/closed = %d/%d, want 6/6", r.opened.Load(), r.closed.Load())
	}
}

func TestNewPageRenderer_WorkerBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{0, 1}, {-2, 1}, {3, 3}, {100, MaxRenderWorkers},
	}
	for _, tt := range tests {
		if got := newTestPageRenderer(t, &fakeRenderer{}, tt.in).workers; got != tt.want {
			t.Errorf("workers(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPageRenderer_Failures
// ---------------------------------------------------------------------------

func TestPageRenderer_ExportFailureRemovesPartialPage(t *testing.T) {
	t.Parallel()

	s := newTestStaging(t)
	chunks := stageChunks(t, s, 3, 2)
	r := &fakeRenderer{failOn: 2}

	pages, err := newTestPageRenderer(t, r, 1).RenderAll(context.Background(), chunks, s.Path(), nil)
	if !errors.Is(err, ErrRender) || !errors.Is(err, errInjected) {
		t.Fatalf("RenderAll() error = %v, want ErrRender wrapping the cause", err)
	}
	if pages != nil {
		t.Errorf("pages = %v, want nil on failure", pages)
	}

	if _, err := os.Stat(filepath.Join(s.Path(), "page-1.pdf")); err != nil {
		t.Errorf("page-1.pdf should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "page-2.pdf")); !os.IsNotExist(err) {
		t.Error("partial page-2.pdf should be removed")
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "page-3.pdf")); !os.IsNotExist(err) {
		t.Error("page-3.pdf should not be rendered after the failure")
	}
	if r.opened.Load() != r.closed.Load() {
		t.Errorf("sessions leaked: opened %d, closed %d", r.opened.Load(), r.closed.Load())
	}
}

func TestPageRenderer_MissingChunk(t *testing.T) {
	t.Parallel()

	s := newTestStaging(t)
	chunks := stageChunks(t, s, 2, 2)
	if err := os.Remove(chunks[1].Path); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := newTestPageRenderer(t, &fakeRenderer{}, 1).RenderAll(context.Background(), chunks, s.Path(), nil)
	if !errors.Is(err, ErrStagingIO) {
		t.Errorf("RenderAll() error = %v, want ErrStagingIO", err)
	}
}

func TestPageRenderer_OpenSessionFailure(t *testing.T) {
	t.Parallel()

	s := newTestStaging(t)
	chunks := stageChunks(t, s, 1, 2)

	_, err := newTestPageRenderer(t, &fakeRenderer{openErr: ErrBrowserConnect}, 1).
		RenderAll(context.Background(), chunks, s.Path(), nil)
	if !errors.Is(err, ErrRender) || !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("RenderAll() error = %v, want ErrRender and ErrBrowserConnect", err)
	}
}
