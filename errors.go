package ticketpdf

import (
	"errors"
	"fmt"
)

// Stage sentinels. Every pipeline failure wraps exactly one of these, so
// callers can classify errors with errors.Is.
var (
	ErrGeneration    = errors.New("ticket generation failed")
	ErrStagingIO     = errors.New("staging I/O failed")
	ErrRender        = errors.New("page rendering failed")
	ErrConsolidation = errors.New("batch consolidation failed")
	ErrPublish       = errors.New("archive publish failed")
	ErrCheckpoint    = errors.New("checkpoint failed")
)

// Chunk buffer errors.
var (
	ErrChunkFull  = errors.New("chunk buffer is full")
	ErrChunkOrder = errors.New("ticket id out of sequence")
	ErrEmptyChunk = errors.New("chunk buffer is empty")
)

// Browser errors, wrapped in ErrRender by the page renderer.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrSessionClosed  = errors.New("render session is closed")
)

// Construction and validation errors.
var (
	ErrInvalidLayout       = errors.New("invalid ticket layout")
	ErrTemplatePlaceholder = errors.New("page template missing placeholder")
	ErrItemTemplate        = errors.New("invalid item template")
	ErrInvalidAssetPath    = errors.New("invalid asset path")
	ErrInvalidEngine       = errors.New("invalid render engine")
	ErrInvalidCompression  = errors.New("invalid compression")
	ErrCheckpointMismatch  = errors.New("checkpoint does not match layout")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
)

// Stage names the pipeline step that failed.
type Stage string

// Pipeline stages.
const (
	StageStaging     Stage = "staging"
	StageGenerate    Stage = "generate"
	StageRender      Stage = "render"
	StageConsolidate Stage = "consolidate"
	StagePublish     Stage = "publish"
	StageCheckpoint  Stage = "checkpoint"
)

// BatchError reports which batch failed and at which stage. It unwraps to the
// underlying error, so errors.Is(err, ErrRender) and friends still work.
type BatchError struct {
	Stage Stage
	Range Range
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s: %s: %v", e.Range, e.Stage, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// wrapStage makes err match sentinel under errors.Is, wrapping only when it
// does not already.
func wrapStage(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
