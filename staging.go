package ticketpdf

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// Staged artifact naming. The trailing number of a chunk file is the last
// ticket id it holds; a page file carries its chunk ordinal.
const (
	chunkPrefix = "chunk-"
	chunkSuffix = ".html"
	pagePrefix  = "page-"
	pageSuffix  = ".pdf"
)

func chunkFileName(lastID int) string {
	return chunkPrefix + strconv.Itoa(lastID) + chunkSuffix
}

func pageFileName(ordinal int) string {
	return pagePrefix + strconv.Itoa(ordinal) + pageSuffix
}

// parseChunkID extracts the trailing id from a chunk file name.
func parseChunkID(name string) (int, bool) {
	if !strings.HasPrefix(name, chunkPrefix) || !strings.HasSuffix(name, chunkSuffix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, chunkPrefix), chunkSuffix))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// StagingDirectory is a private scratch directory holding the chunk and page
// files of the batch being processed. Only one batch uses it at a time.
type StagingDirectory struct {
	path   string
	logger zerolog.Logger

	mu       sync.Mutex
	failures int
	closed   bool
}

// NewStagingDirectory creates a fresh directory under parent (os temp dir
// when empty).
func NewStagingDirectory(parent string, logger zerolog.Logger) (*StagingDirectory, error) {
	dir, err := os.MkdirTemp(parent, "ticketpdf-")
	if err != nil {
		return nil, fmt.Errorf("%w: creating staging directory: %v", ErrStagingIO, err)
	}
	logger.Debug().Str("dir", dir).Msg("staging directory created")
	return &StagingDirectory{path: dir, logger: logger}, nil
}

// Path returns the directory path.
func (s *StagingDirectory) Path() string {
	return s.path
}

// List returns the staged chunk files sorted by the numeric value of their
// trailing id. Ordinals are assigned from that order, starting at 1.
func (s *StagingDirectory) List() ([]ChunkFile, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: listing staging directory: %v", ErrStagingIO, err)
	}

	var chunks []ChunkFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := parseChunkID(e.Name())
		if !ok {
			continue
		}
		chunks = append(chunks, ChunkFile{LastID: id, Path: filepath.Join(s.path, e.Name())})
	}

	slices.SortFunc(chunks, func(a, b ChunkFile) int {
		return cmp.Compare(a.LastID, b.LastID)
	})
	for i := range chunks {
		chunks[i].Ordinal = i + 1
	}
	return chunks, nil
}

// Entries returns the paths of every artifact in the directory.
func (s *StagingDirectory) Entries() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: listing staging directory: %v", ErrStagingIO, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(s.path, e.Name()))
	}
	return paths, nil
}

// Purge deletes the given artifacts best-effort. Missing files are ignored;
// other failures are logged and counted but never returned, so cleanup cannot
// fail an otherwise successful batch. It returns the number of failures.
func (s *StagingDirectory) Purge(paths []string) int {
	failed := 0
	for _, p := range paths {
		if _, err := fileutil.RemoveIfExists(p); err != nil {
			failed++
			s.logger.Warn().Err(err).Str("path", p).Msg("could not remove staged artifact")
		}
	}

	if failed > 0 {
		s.mu.Lock()
		s.failures += failed
		s.mu.Unlock()
	}
	return failed
}

// PurgeFailures returns the total number of failed deletions so far.
func (s *StagingDirectory) PurgeFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// Close removes the directory and everything left in it.
func (s *StagingDirectory) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("%w: removing staging directory: %v", ErrStagingIO, err)
	}
	s.logger.Debug().Str("dir", s.path).Msg("staging directory removed")
	return nil
}
