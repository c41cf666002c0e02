package ticketpdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// Merger combines PDF files, in the given order, into output.
type Merger interface {
	Merge(ctx context.Context, inputs []string, output string) error
}

// PageCounter reports the number of pages in a PDF file.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Compile-time interface checks
var (
	_ Merger      = (*PDFCPUMerger)(nil)
	_ PageCounter = (*PDFCPUMerger)(nil)
)

// PDFCPUMerger merges with pdfcpu, in process.
type PDFCPUMerger struct {
	conf *model.Configuration
}

// NewPDFCPUMerger creates a merger with pdfcpu's default configuration.
func NewPDFCPUMerger() *PDFCPUMerger {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUMerger{conf: conf}
}

// Merge writes inputs, in order, to output. A single input is copied as is.
func (m *PDFCPUMerger) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return errors.New("nothing to merge")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(inputs) == 1 {
		return fileutil.CopyFile(inputs[0], output)
	}
	if err := api.MergeCreateFile(inputs, output, false, m.conf); err != nil {
		return fmt.Errorf("pdfcpu merge: %w", err)
	}
	return nil
}

// PageCount returns the number of pages in path.
func (m *PDFCPUMerger) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
