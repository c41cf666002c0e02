package ticketpdf

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Renderer opens rendering sessions on a headless browser. Implementations
// start the browser lazily and share it across sessions.
type Renderer interface {
	OpenSession(ctx context.Context) (Session, error)
	Close() error
}

// Session is one browser tab used for exactly one document.
type Session interface {
	SetContent(ctx context.Context, html string) error
	ExportPDF(ctx context.Context, path string, page PageSettings) error
	Close() error
}

// Render engines.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// defaultTimeout bounds one page's load and print.
const defaultTimeout = 30 * time.Second

// BrowserOptions configures how the headless browser is launched.
type BrowserOptions struct {
	Bin       string        // browser executable; empty = auto-detect or download
	Headless  bool          // run without a window
	NoSandbox bool          // required in most containers
	Timeout   time.Duration // per page; zero = 30s
}

// DefaultBrowserOptions returns headless options with the default timeout.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{Headless: true, Timeout: defaultTimeout}
}

func (o BrowserOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

// NewRenderer returns the renderer for engine ("rod" when empty).
func NewRenderer(engine string, opts BrowserOptions) (Renderer, error) {
	switch strings.ToLower(engine) {
	case "", EngineRod:
		return NewRodRenderer(opts), nil
	case EngineChromedp:
		return NewChromedpRenderer(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be rod or chromedp)", ErrInvalidEngine, engine)
	}
}

// pageTimeout returns the time left for one page: the configured timeout,
// shortened by any deadline on ctx.
func pageTimeout(ctx context.Context, configured time.Duration) (time.Duration, error) {
	timeout := configured
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}
