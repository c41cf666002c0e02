package main

import (
	"context"
	"errors"

	ticketpdf "github.com/alnah/go-ticketpdf"
	"github.com/alnah/go-ticketpdf/internal/config"
	"github.com/alnah/go-ticketpdf/internal/hints"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, ticketpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, ticketpdf.ErrCheckpointMismatch):
		return hints.ForCheckpointMismatch(outputDirOf(err))
	case errors.Is(err, ticketpdf.ErrStagingIO):
		return hints.ForStaging()
	}
	return ""
}
