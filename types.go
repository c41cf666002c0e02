package ticketpdf

import (
	"fmt"
	"strings"
	"time"
)

// Range is a contiguous, inclusive span of ticket ids.
type Range struct {
	First int
	Last  int
}

// Len returns the number of tickets in r.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.First, r.Last)
}

// Layout sizes a run: Total tickets, BatchSize per archive, PageSize per
// staged chunk.
type Layout struct {
	Total     int
	BatchSize int
	PageSize  int
}

// Validate checks that every dimension is positive and a chunk fits in a batch.
func (l Layout) Validate() error {
	switch {
	case l.Total < 1:
		return fmt.Errorf("%w: total must be positive, got %d", ErrInvalidLayout, l.Total)
	case l.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidLayout, l.BatchSize)
	case l.PageSize < 1:
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidLayout, l.PageSize)
	case l.PageSize > l.BatchSize:
		return fmt.Errorf("%w: page size %d exceeds batch size %d", ErrInvalidLayout, l.PageSize, l.BatchSize)
	}
	return nil
}

// RenderedItem is the markup for one ticket. It lives in memory until its
// chunk is flushed.
type RenderedItem struct {
	ID     int
	Markup string
}

// ChunkFile is one flushed group of consecutive tickets in the staging
// directory. Ordinal is the chunk's 1-based position within its batch and is
// the only ordering key the pipeline relies on.
type ChunkFile struct {
	Ordinal int
	FirstID int
	LastID  int
	Count   int
	Path    string
}

// RenderedPage is the PDF produced from the chunk with the same Ordinal.
type RenderedPage struct {
	Ordinal int
	Count   int
	Path    string
}

// BatchArchive is the durable output for one batch.
type BatchArchive struct {
	Range    Range
	Path     string
	Size     int64
	Pages    int
	Location string // set when the archive was published
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Archives []BatchArchive
	Skipped  []Range // ranges satisfied by a previous run's checkpoint
	Tickets  int
	Duration time.Duration
}

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 2.0
	DefaultMargin = 0.0
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "a4", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns A4 portrait without margins.
func DefaultPageSettings() PageSettings {
	return PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Does not mutate - uses case-insensitive comparison.
func (p PageSettings) Validate() error {
	if _, _, ok := paperInches(p.Size); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Dimensions returns paper width and height in inches, swapped for landscape.
func (p PageSettings) Dimensions() (width, height float64) {
	w, h, ok := paperInches(p.Size)
	if !ok {
		w, h, _ = paperInches(PageSizeA4)
	}
	if p.landscape() {
		return h, w
	}
	return w, h
}

// bodyClass is the class list the page template puts on <body> so the sheet
// CSS matches the paper.
func (p PageSettings) bodyClass() string {
	class := "A4"
	switch strings.ToLower(p.Size) {
	case PageSizeLetter:
		class = "letter"
	case PageSizeLegal:
		class = "legal"
	}
	if p.landscape() {
		class += " landscape"
	}
	return class
}

func (p PageSettings) landscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

func paperInches(size string) (width, height float64, ok bool) {
	switch strings.ToLower(size) {
	case PageSizeA4:
		return 8.27, 11.69, true
	case PageSizeLetter:
		return 8.5, 11, true
	case PageSizeLegal:
		return 8.5, 14, true
	}
	return 0, 0, false
}
