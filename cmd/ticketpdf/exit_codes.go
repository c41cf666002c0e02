package main

import (
	"errors"
	"os"

	ticketpdf "github.com/alnah/go-ticketpdf"
	"github.com/alnah/go-ticketpdf/internal/config"
)

// errUsage marks invalid command-line usage.
var errUsage = errors.New("invalid usage")

// Exit codes for the ticketpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // All batches archived
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags, config, or validation
	ExitIO          = 3 // Staging or checkpoint I/O, file not found, permission denied
	ExitBrowser     = 4 // Browser/render errors
	ExitConsolidate = 5 // Merge, compression, or upload errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, ticketpdf.ErrBrowserConnect) ||
		errors.Is(err, ticketpdf.ErrPageCreate) ||
		errors.Is(err, ticketpdf.ErrPageLoad) ||
		errors.Is(err, ticketpdf.ErrPDFGeneration) ||
		errors.Is(err, ticketpdf.ErrRender) {
		return ExitBrowser
	}

	// Consolidation and publish errors (exit 5)
	if errors.Is(err, ticketpdf.ErrConsolidation) ||
		errors.Is(err, ticketpdf.ErrPublish) {
		return ExitConsolidate
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, errUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ticketpdf.ErrInvalidLayout) ||
		errors.Is(err, ticketpdf.ErrInvalidPageSize) ||
		errors.Is(err, ticketpdf.ErrInvalidOrientation) ||
		errors.Is(err, ticketpdf.ErrInvalidMargin) ||
		errors.Is(err, ticketpdf.ErrInvalidEngine) ||
		errors.Is(err, ticketpdf.ErrInvalidCompression) ||
		errors.Is(err, ticketpdf.ErrInvalidAssetPath) ||
		errors.Is(err, ticketpdf.ErrTemplatePlaceholder) ||
		errors.Is(err, ticketpdf.ErrItemTemplate) ||
		errors.Is(err, ticketpdf.ErrCheckpointMismatch) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ticketpdf.ErrStagingIO) ||
		errors.Is(err, ticketpdf.ErrCheckpoint) {
		return ExitIO
	}

	return ExitGeneral
}
