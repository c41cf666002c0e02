package ticketpdf

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alnah/go-ticketpdf/internal/assets"
	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// State is the scheduler's position in a run.
type State int

// Run states. A run moves Idle -> (Generating -> Rendering -> Consolidating)
// per batch -> Done, and may enter Failed from any state.
const (
	StateIdle State = iota
	StateGenerating
	StateRendering
	StateConsolidating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateRendering:
		return "rendering"
	case StateConsolidating:
		return "consolidating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Batches yields the contiguous ranges of 1..total in order, each of
// batchSize tickets except possibly the last. Ranges are computed lazily, so
// memory does not grow with the number of batches. It yields nothing for
// non-positive inputs.
func Batches(total, batchSize int) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		if total < 1 || batchSize < 1 {
			return
		}
		for first := 1; first <= total; first += batchSize {
			if !yield(Range{First: first, Last: min(first+batchSize-1, total)}) {
				return
			}
		}
	}
}

// Partition collects Batches into a slice. It allocates one Range per batch;
// Run iterates Batches instead.
func Partition(total, batchSize int) []Range {
	return slices.Collect(Batches(total, batchSize))
}

// Scheduler drives tickets 1..Total through generation, rendering and
// consolidation, one batch at a time. Create with NewScheduler, call Run,
// and Close when done.
type Scheduler struct {
	layout       Layout
	cfg          schedulerConfig
	logger       zerolog.Logger
	factory      *ItemFactory
	renderer     Renderer
	pages        *PageRenderer
	consolidator *Consolidator
	staging      *StagingDirectory
	genWorkers   int

	mu       sync.Mutex
	state    State
	progress *progressTracker
	running  bool
	closed   bool
}

// NewScheduler validates layout, loads assets and wires the pipeline. The
// browser is not started until the first page is rendered.
func NewScheduler(layout Layout, opts ...Option) (*Scheduler, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultSchedulerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.page.Validate(); err != nil {
		return nil, err
	}
	if err := fileutil.ValidateName(cfg.archivePrefix); err != nil {
		return nil, fmt.Errorf("archive prefix: %w", err)
	}

	loader, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	set, err := assets.LoadTicketSet(loader)
	if err != nil {
		return nil, fmt.Errorf("loading ticket assets: %w", err)
	}

	tmpl, err := NewPageTemplate(set.PageTemplate, set.BaseCSS, set.PrintCSS, cfg.page)
	if err != nil {
		return nil, err
	}

	if cfg.generator == nil {
		cfg.generator = NewQRGenerator(cfg.codeSize)
	}
	factory, err := NewItemFactory(cfg.generator, set, cfg.item)
	if err != nil {
		return nil, err
	}

	if cfg.compressor == nil {
		if cfg.compressor, err = NewCompressor(cfg.compression); err != nil {
			return nil, err
		}
	}
	if cfg.merger == nil {
		cfg.merger = NewPDFCPUMerger()
	}
	if cfg.renderer == nil {
		if cfg.renderer, err = NewRenderer(cfg.engine, cfg.browser); err != nil {
			return nil, err
		}
	}

	staging, err := NewStagingDirectory(cfg.stagingParent, cfg.logger)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		layout:       layout,
		cfg:          cfg,
		logger:       cfg.logger,
		factory:      factory,
		renderer:     cfg.renderer,
		pages:        NewPageRenderer(cfg.renderer, tmpl, cfg.page, cfg.renderWorkers, cfg.logger),
		consolidator: NewConsolidator(cfg.merger, cfg.compressor, staging, cfg.outDir, cfg.archivePrefix, cfg.logger),
		staging:      staging,
		genWorkers:   ResolveWorkers(cfg.generateWorkers, 0),
		progress:     newProgressTracker(layout.Total, cfg.progress),
	}, nil
}

// State returns the current run state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns a snapshot of the current run's counters.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	p := s.progress
	s.mu.Unlock()
	return p.snapshot()
}

// StagingDir returns the staging directory path.
func (s *Scheduler) StagingDir() string {
	return s.staging.Path()
}

func (s *Scheduler) setState(next State, log zerolog.Logger) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev != next {
		log.Debug().Stringer("from", prev).Stringer("to", next).Msg("state change")
	}
}

// Run processes every batch in order and stops at the first failure, which
// is returned as a *BatchError. Batches finished before the failure keep
// their archives. Run may be called again after it returns.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, errors.New("ticketpdf: scheduler is closed")
	case s.running:
		s.mu.Unlock()
		return nil, errors.New("ticketpdf: run already in progress")
	}
	s.running = true
	s.state = StateIdle
	s.progress = newProgressTracker(s.layout.Total, s.cfg.progress)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := s.logger.With().Str("run", report.RunID).Logger()

	log.Info().
		Int("total", s.layout.Total).
		Int("batch_size", s.layout.BatchSize).
		Int("page_size", s.layout.PageSize).
		Msg("run started")

	var cp *Checkpoint
	if s.cfg.resume {
		var err error
		if cp, err = LoadCheckpoint(s.cfg.outDir, s.layout); err != nil {
			s.setState(StateFailed, log)
			report.Duration = time.Since(start)
			first := Range{First: 1, Last: min(s.layout.BatchSize, s.layout.Total)}
			return report, &BatchError{Stage: StageCheckpoint, Range: first, Err: err}
		}
	}

	for r := range Batches(s.layout.Total, s.layout.BatchSize) {
		batchLog := log.With().Stringer("batch", r).Logger()

		if cp != nil {
			if archive, ok := cp.Lookup(r); ok && fileutil.FileExists(archive) {
				batchLog.Info().Str("archive", archive).Msg("batch already complete, skipping")
				report.Skipped = append(report.Skipped, r)
				report.Tickets += r.Len()
				s.progress.skip(r.Len())
				continue
			}
		}

		archive, err := s.runBatch(ctx, r, batchLog)
		if err != nil {
			s.setState(StateFailed, batchLog)
			batchLog.Error().Err(err).Msg("batch failed")
			report.Duration = time.Since(start)
			return report, err
		}

		if s.cfg.publisher != nil {
			loc, err := s.cfg.publisher.Publish(ctx, archive.Path)
			if err != nil {
				s.setState(StateFailed, batchLog)
				report.Duration = time.Since(start)
				return report, &BatchError{Stage: StagePublish, Range: r, Err: wrapStage(ErrPublish, err)}
			}
			archive.Location = loc
			batchLog.Info().Str("location", loc).Msg("archive published")
		}

		if cp != nil {
			cp.MarkComplete(r, archive.Path)
			if err := cp.Save(report.RunID, s.cfg.now()); err != nil {
				s.setState(StateFailed, batchLog)
				report.Duration = time.Since(start)
				return report, &BatchError{Stage: StageCheckpoint, Range: r, Err: err}
			}
		}

		report.Archives = append(report.Archives, archive)
		report.Tickets += r.Len()
	}

	s.setState(StateDone, log)
	report.Duration = time.Since(start)
	log.Info().
		Int("archives", len(report.Archives)).
		Int("skipped", len(report.Skipped)).
		Dur("duration", report.Duration).
		Msg("run finished")
	return report, nil
}

// runBatch takes one range from an empty staging directory to an archive.
func (s *Scheduler) runBatch(ctx context.Context, r Range, log zerolog.Logger) (BatchArchive, error) {
	fail := func(stage Stage, err error) (BatchArchive, error) {
		return BatchArchive{}, &BatchError{Stage: stage, Range: r, Err: err}
	}

	if err := s.drainLeftovers(log); err != nil {
		return fail(StageStaging, err)
	}

	s.setState(StateGenerating, log)
	chunks, err := s.generate(ctx, r)
	if err != nil {
		if errors.Is(err, ErrGeneration) {
			return fail(StageGenerate, err)
		}
		return fail(StageStaging, err)
	}

	s.setState(StateRendering, log)
	pages, err := s.pages.RenderAll(ctx, chunks, s.staging.Path(), s.progress.addRendered)
	if err != nil {
		if errors.Is(err, ErrStagingIO) {
			return fail(StageStaging, err)
		}
		return fail(StageRender, wrapStage(ErrRender, err))
	}

	s.setState(StateConsolidating, log)
	archive, err := s.consolidator.Consolidate(ctx, r, pages, chunks)
	if err != nil {
		return fail(StageConsolidate, err)
	}
	return archive, nil
}

// generate fills chunks of PageSize tickets for r. Each chunk's items are
// produced concurrently, joined, and only then appended and flushed.
func (s *Scheduler) generate(ctx context.Context, r Range) ([]ChunkFile, error) {
	writer, err := NewChunkWriter(s.staging, s.layout.PageSize)
	if err != nil {
		return nil, err
	}

	chunks := make([]ChunkFile, 0, (r.Len()+s.layout.PageSize-1)/s.layout.PageSize)
	items := make([]RenderedItem, s.layout.PageSize)

	for first := r.First; first <= r.Last; first += s.layout.PageSize {
		last := min(first+s.layout.PageSize-1, r.Last)
		n := last - first + 1

		err := runIndexed(ctx, n, s.genWorkers, func(ctx context.Context, i int) error {
			item, err := s.factory.MakeItem(ctx, first+i)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
		if err != nil {
			return nil, wrapStage(ErrGeneration, err)
		}

		for _, item := range items[:n] {
			if err := writer.Append(item); err != nil {
				return nil, err
			}
		}
		chunk, err := writer.Flush()
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
		s.progress.addGenerated(n)
	}
	return chunks, nil
}

// drainLeftovers purges anything a failed earlier run left in staging, so
// no stale chunk can end up in this batch's archive.
func (s *Scheduler) drainLeftovers(log zerolog.Logger) error {
	leftovers, err := s.staging.Entries()
	if err != nil {
		return err
	}
	if len(leftovers) == 0 {
		return nil
	}

	log.Warn().Int("files", len(leftovers)).Msg("staging directory not empty, purging leftovers")
	if failed := s.staging.Purge(leftovers); failed > 0 {
		return fmt.Errorf("%w: %d leftover files could not be removed", ErrStagingIO, failed)
	}
	return nil
}

// Close removes the staging directory and shuts the renderer down.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return errors.Join(s.staging.Close(), s.renderer.Close())
}
