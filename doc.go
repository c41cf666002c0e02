// Package ticketpdf generates numbered, QR-coded tickets and consolidates
// them into one compressed PDF archive per batch.
//
// # Quick Start
//
// Create a scheduler, run it, and close it when done:
//
//	sched, err := ticketpdf.NewScheduler(ticketpdf.Layout{
//	    Total:     1000,
//	    BatchSize: 500,
//	    PageSize:  10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sched.Close()
//
//	report, err := sched.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range report.Archives {
//	    fmt.Println(a.Range, a.Path)
//	}
//
// # Pipeline
//
// Tickets 1..Total are split into batches of BatchSize. Each batch runs to
// completion before the next starts:
//
//  1. Generate: PageSize tickets at a time are rendered to markup with a QR
//     code (bounded fan-out), then flushed as one chunk file to a private
//     staging directory.
//  2. Render: every chunk is wrapped in the page template and printed to one
//     PDF page file by a headless browser (go-rod by default, chromedp as an
//     alternative). Page k always comes from chunk k.
//  3. Consolidate: pages are merged in order with pdfcpu into
//     <prefix>-<first>-<last>.pdf, compressed (zstd by default), and the
//     batch's staged files are purged.
//
// A final batch or chunk shorter than its nominal size is processed like any
// other; no ticket is dropped.
//
// # Errors
//
// Any stage failure stops the run and is returned as a *BatchError naming the
// stage and range. It wraps one of ErrGeneration, ErrStagingIO, ErrRender,
// ErrConsolidation, ErrPublish or ErrCheckpoint. Archives from earlier
// batches are kept; the failing batch produces none.
//
// # Resume
//
// WithResume records finished batches in .ticketpdf-state.yaml in the output
// directory. A later run with the same layout skips them.
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod engine downloads a managed
// Chromium on first run (~/.cache/rod/browser/) unless BrowserOptions.Bin is
// set. Containers usually need BrowserOptions.NoSandbox.
package ticketpdf
