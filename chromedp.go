package ticketpdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// Compile-time interface checks
var (
	_ Renderer = (*ChromedpRenderer)(nil)
	_ Session  = (*chromedpSession)(nil)
)

// ChromedpRenderer drives Chrome over the DevTools protocol with chromedp.
// One browser is allocated lazily; each session is a new tab in it.
type ChromedpRenderer struct {
	opts BrowserOptions

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewChromedpRenderer creates a ChromedpRenderer. The browser starts on first use.
func NewChromedpRenderer(opts BrowserOptions) *ChromedpRenderer {
	return &ChromedpRenderer{opts: opts}
}

func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.opts.Bin != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.Bin))
	}
	return opts
}

// ensureBrowser allocates the browser on first call. The browser lives in a
// background context so a cancelled run context cannot kill it mid-Close.
func (r *ChromedpRenderer) ensureBrowser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil {
		return r.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), r.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserCancel = browserCancel
	return browserCtx, nil
}

// OpenSession opens a blank tab.
func (r *ChromedpRenderer) OpenSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserCtx, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return &chromedpSession{ctx: tabCtx, cancel: tabCancel, timeout: r.opts.timeout()}, nil
}

// Close stops the browser.
func (r *ChromedpRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCancel != nil {
		r.browserCancel()
		r.allocCancel()
		r.browserCtx, r.browserCancel, r.allocCancel = nil, nil, nil
	}
	return nil
}

// chromedpSession is one tab.
type chromedpSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// run executes actions in the tab, bounded by the page timeout and by ctx.
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	timeout, err := pageTimeout(ctx, s.timeout)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// SetContent replaces the tab's document.
func (s *chromedpSession) SetContent(ctx context.Context, html string) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

// ExportPDF prints the tab to path atomically.
func (s *chromedpSession) ExportPDF(ctx context.Context, path string, settings PageSettings) error {
	width, height := settings.Dimensions()
	margin := settings.Margin

	var data []byte
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(width).
			WithPaperHeight(height).
			WithMarginTop(margin).
			WithMarginRight(margin).
			WithMarginBottom(margin).
			WithMarginLeft(margin).
			Do(ctx)
		if err != nil {
			return err
		}
		data = buf
		return nil
	}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty PDF", ErrPDFGeneration)
	}

	if err := fileutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing PDF: %v", ErrPDFGeneration, err)
	}
	return nil
}

// Close closes the tab.
func (s *chromedpSession) Close() error {
	s.cancel()
	return nil
}
