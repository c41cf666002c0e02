package ticketpdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
	"github.com/alnah/go-ticketpdf/internal/yamlutil"
)

// CheckpointFile is the checkpoint's name inside the output directory.
const CheckpointFile = ".ticketpdf-state.yaml"

const checkpointVersion = 1

// Checkpoint records which batches a run has fully consolidated, so a
// restarted run can skip them.
type Checkpoint struct {
	Version   int              `yaml:"version"`
	RunID     string           `yaml:"runId"`
	Total     int              `yaml:"total"`
	BatchSize int              `yaml:"batchSize"`
	PageSize  int              `yaml:"pageSize"`
	UpdatedAt string           `yaml:"updatedAt"`
	Completed []CompletedBatch `yaml:"completed"`

	path string
}

// CompletedBatch is one consolidated range and its archive.
type CompletedBatch struct {
	First   int    `yaml:"first"`
	Last    int    `yaml:"last"`
	Archive string `yaml:"archive"`
}

// LoadCheckpoint reads the checkpoint in dir. A missing file yields an empty
// checkpoint for layout. An existing one must match layout.
func LoadCheckpoint(dir string, layout Layout) (*Checkpoint, error) {
	path := filepath.Join(dir, CheckpointFile)
	fresh := &Checkpoint{
		Version:   checkpointVersion,
		Total:     layout.Total,
		BatchSize: layout.BatchSize,
		PageSize:  layout.PageSize,
		path:      path,
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path built from configured output dir
	if errors.Is(err, os.ErrNotExist) {
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCheckpoint, path, err)
	}

	var cp Checkpoint
	if err := yamlutil.UnmarshalStrict(data, &cp); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCheckpoint, path, err)
	}
	cp.path = path

	if cp.Version != checkpointVersion {
		return nil, fmt.Errorf("%w: %w: version %d, want %d", ErrCheckpoint, ErrCheckpointMismatch, cp.Version, checkpointVersion)
	}
	if cp.Total != layout.Total || cp.BatchSize != layout.BatchSize || cp.PageSize != layout.PageSize {
		return nil, fmt.Errorf("%w: %w: recorded total=%d batch=%d page=%d, configured total=%d batch=%d page=%d",
			ErrCheckpoint, ErrCheckpointMismatch, cp.Total, cp.BatchSize, cp.PageSize, layout.Total, layout.BatchSize, layout.PageSize)
	}
	return &cp, nil
}

// Path returns the checkpoint file path.
func (c *Checkpoint) Path() string {
	return c.path
}

// Lookup returns the recorded archive for r.
func (c *Checkpoint) Lookup(r Range) (string, bool) {
	for _, b := range c.Completed {
		if b.First == r.First && b.Last == r.Last {
			return b.Archive, true
		}
	}
	return "", false
}

// MarkComplete records r as consolidated into archive, replacing any earlier
// record of the same range.
func (c *Checkpoint) MarkComplete(r Range, archive string) {
	for i, b := range c.Completed {
		if b.First == r.First && b.Last == r.Last {
			c.Completed[i].Archive = archive
			return
		}
	}
	c.Completed = append(c.Completed, CompletedBatch{First: r.First, Last: r.Last, Archive: archive})
}

// Save writes the checkpoint atomically.
func (c *Checkpoint) Save(runID string, now time.Time) error {
	c.RunID = runID
	c.UpdatedAt = now.UTC().Format(time.RFC3339)

	data, err := yamlutil.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrCheckpoint, err)
	}
	if err := fileutil.WriteFileAtomic(c.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrCheckpoint, c.path, err)
	}
	return nil
}
