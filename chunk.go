package ticketpdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// ChunkWriter buffers up to capacity consecutive tickets and flushes them as
// one staged file. One writer serves one batch; ordinals restart per writer.
// Not safe for concurrent use.
type ChunkWriter struct {
	dir      string
	capacity int
	items    []RenderedItem
	lastID   int // last id accepted, across flushes
	ordinal  int // ordinal of the last flushed chunk
}

// NewChunkWriter creates a writer flushing into staging.
func NewChunkWriter(staging *StagingDirectory, capacity int) (*ChunkWriter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: chunk capacity must be positive, got %d", ErrInvalidLayout, capacity)
	}
	return &ChunkWriter{
		dir:      staging.Path(),
		capacity: capacity,
		items:    make([]RenderedItem, 0, capacity),
	}, nil
}

// Len returns the number of buffered items.
func (w *ChunkWriter) Len() int {
	return len(w.items)
}

// Full reports whether the buffer reached capacity.
func (w *ChunkWriter) Full() bool {
	return len(w.items) == w.capacity
}

// Append adds item to the buffer. Items must arrive in ascending id order
// with no gaps, and the buffer must be flushed once full.
func (w *ChunkWriter) Append(item RenderedItem) error {
	if w.Full() {
		return fmt.Errorf("%w: capacity %d", ErrChunkFull, w.capacity)
	}
	if w.lastID != 0 && item.ID != w.lastID+1 {
		return fmt.Errorf("%w: got %d after %d", ErrChunkOrder, item.ID, w.lastID)
	}
	w.items = append(w.items, item)
	w.lastID = item.ID
	return nil
}

// Flush writes the buffered markup in insertion order to chunk-<lastID>.html
// and clears the buffer. A short buffer is flushed as is.
func (w *ChunkWriter) Flush() (ChunkFile, error) {
	if len(w.items) == 0 {
		return ChunkFile{}, ErrEmptyChunk
	}

	size := 0
	for _, it := range w.items {
		size += len(it.Markup) + 1
	}
	var b strings.Builder
	b.Grow(size)
	for _, it := range w.items {
		b.WriteString(it.Markup)
		b.WriteByte('\n')
	}

	first, last := w.items[0].ID, w.items[len(w.items)-1].ID
	path := filepath.Join(w.dir, chunkFileName(last))
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o600); err != nil {
		return ChunkFile{}, fmt.Errorf("%w: writing chunk %d: %v", ErrStagingIO, last, err)
	}

	w.ordinal++
	chunk := ChunkFile{
		Ordinal: w.ordinal,
		FirstID: first,
		LastID:  last,
		Count:   len(w.items),
		Path:    path,
	}
	w.items = w.items[:0]
	return chunk, nil
}
