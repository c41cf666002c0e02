package ticketpdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
	"github.com/alnah/go-ticketpdf/internal/process"
)

// Compile-time interface checks
var (
	_ Renderer = (*RodRenderer)(nil)
	_ Session  = (*rodSession)(nil)
)

// RodRenderer drives Chrome through go-rod. Rod downloads Chromium on first
// run when no binary is configured or found.
type RodRenderer struct {
	opts BrowserOptions

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodRenderer creates a RodRenderer. The browser starts on first use.
func NewRodRenderer(opts BrowserOptions) *RodRenderer {
	return &RodRenderer{opts: opts}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().Headless(r.opts.Headless).NoSandbox(r.opts.NoSandbox)
	if r.opts.Bin != "" {
		l = l.Bin(r.opts.Bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// OpenSession opens a blank tab.
func (r *RodRenderer) OpenSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return &rodSession{page: page, timeout: r.opts.timeout()}, nil
}

// Close shuts the browser down and kills its process group, so no Chrome
// helper survives the run.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// rodSession wraps one rod page.
type rodSession struct {
	page    *rod.Page
	timeout time.Duration
}

// SetContent replaces the tab's document and waits for it to load.
func (s *rodSession) SetContent(ctx context.Context, html string) error {
	timeout, err := pageTimeout(ctx, s.timeout)
	if err != nil {
		return err
	}

	page, release := withPageTimeout(ctx, s.page, timeout)
	defer release()

	if err := page.SetDocumentContent(html); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

// ExportPDF prints the tab to path. The file appears atomically or not at all.
func (s *rodSession) ExportPDF(ctx context.Context, path string, settings PageSettings) error {
	timeout, err := pageTimeout(ctx, s.timeout)
	if err != nil {
		return err
	}

	// The stream is read through the page context, so release after writing.
	page, release := withPageTimeout(ctx, s.page, timeout)
	defer release()

	reader, err := page.PDF(buildPDFOptions(settings))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	if err := fileutil.WriteReaderAtomic(path, reader, 0o600); err != nil {
		return fmt.Errorf("%w: writing PDF stream: %v", ErrPDFGeneration, err)
	}
	return nil
}

// withPageTimeout derives a page bound to ctx and timeout. release stops the
// timeout timer and must be called once the page is no longer used.
func withPageTimeout(ctx context.Context, p *rod.Page, timeout time.Duration) (*rod.Page, func()) {
	page := p.Context(ctx).Timeout(timeout)
	return page, func() { page.CancelTimeout() }
}

func (s *rodSession) Close() error {
	return s.page.Close()
}

// buildPDFOptions constructs proto.PagePrintToPDF for the page settings.
// Orientation is already folded into the dimensions.
func buildPDFOptions(settings PageSettings) *proto.PagePrintToPDF {
	width, height := settings.Dimensions()
	margin := settings.Margin

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
