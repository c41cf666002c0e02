package ticketpdf

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Scheduler.
type Option func(*schedulerConfig)

// schedulerConfig holds everything a Scheduler is built from. Collaborators
// left nil are replaced by production defaults in NewScheduler.
type schedulerConfig struct {
	logger          zerolog.Logger
	assetPath       string
	item            ItemOptions
	codeSize        int
	generateWorkers int
	renderWorkers   int
	engine          string
	browser         BrowserOptions
	page            PageSettings
	outDir          string
	archivePrefix   string
	compression     string
	stagingParent   string
	resume          bool
	progress        ProgressFunc

	generator  CodeGenerator
	renderer   Renderer
	merger     Merger
	compressor Compressor
	publisher  Publisher
	now        func() time.Time
}

func defaultSchedulerConfig() schedulerConfig {
	return schedulerConfig{
		logger:          zerolog.Nop(),
		codeSize:        DefaultCodeSize,
		generateWorkers: DefaultGenerateWorkers,
		renderWorkers:   1,
		engine:          EngineRod,
		browser:         DefaultBrowserOptions(),
		page:            DefaultPageSettings(),
		outDir:          ".",
		archivePrefix:   DefaultArchivePrefix,
		compression:     CompressionZstd,
		now:             time.Now,
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *schedulerConfig) { c.logger = l }
}

// WithAssetPath loads templates, styles and logos from dir, falling back to
// the embedded defaults for anything dir lacks.
func WithAssetPath(dir string) Option {
	return func(c *schedulerConfig) { c.assetPath = dir }
}

// WithItemOptions sets the caption and code payload prefix.
func WithItemOptions(o ItemOptions) Option {
	return func(c *schedulerConfig) { c.item = o }
}

// WithCodeSize sets the QR image side in pixels for the default generator.
func WithCodeSize(px int) Option {
	return func(c *schedulerConfig) { c.codeSize = px }
}

// WithGenerateWorkers bounds concurrent code generations per chunk.
// Zero or less derives the count from GOMAXPROCS.
func WithGenerateWorkers(n int) Option {
	return func(c *schedulerConfig) { c.generateWorkers = n }
}

// WithRenderWorkers sets concurrent render sessions (default 1, max 8).
func WithRenderWorkers(n int) Option {
	return func(c *schedulerConfig) { c.renderWorkers = n }
}

// WithEngine selects the browser driver: "rod" (default) or "chromedp".
func WithEngine(name string) Option {
	return func(c *schedulerConfig) { c.engine = name }
}

// WithBrowser sets how the browser is launched.
func WithBrowser(o BrowserOptions) Option {
	return func(c *schedulerConfig) { c.browser = o }
}

// WithTimeout sets the per-page render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("ticketpdf: WithTimeout duration must be positive")
	}
	return func(c *schedulerConfig) { c.browser.Timeout = d }
}

// WithPageSettings sets paper size, orientation and margin.
func WithPageSettings(p PageSettings) Option {
	return func(c *schedulerConfig) { c.page = p }
}

// WithOutputDir sets where archives (and the checkpoint) are written.
func WithOutputDir(dir string) Option {
	return func(c *schedulerConfig) { c.outDir = dir }
}

// WithArchivePrefix sets the archive file name prefix.
func WithArchivePrefix(prefix string) Option {
	return func(c *schedulerConfig) { c.archivePrefix = prefix }
}

// WithCompression selects the compressor by name: zstd, gzip, optimize, none.
func WithCompression(name string) Option {
	return func(c *schedulerConfig) { c.compression = name }
}

// WithStagingParent sets the directory the staging directory is created in.
func WithStagingParent(dir string) Option {
	return func(c *schedulerConfig) { c.stagingParent = dir }
}

// WithResume enables the checkpoint: finished batches are recorded and
// skipped on the next run.
func WithResume(enabled bool) Option {
	return func(c *schedulerConfig) { c.resume = enabled }
}

// WithProgress registers a progress listener.
func WithProgress(fn ProgressFunc) Option {
	return func(c *schedulerConfig) { c.progress = fn }
}

// WithCodeGenerator replaces the QR generator.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(c *schedulerConfig) { c.generator = g }
}

// WithRenderer replaces the browser renderer. The Scheduler closes it.
func WithRenderer(r Renderer) Option {
	return func(c *schedulerConfig) { c.renderer = r }
}

// WithMerger replaces the pdfcpu merger.
func WithMerger(m Merger) Option {
	return func(c *schedulerConfig) { c.merger = m }
}

// WithCompressor replaces the compressor chosen by WithCompression.
func WithCompressor(cmp Compressor) Option {
	return func(c *schedulerConfig) { c.compressor = cmp }
}

// WithPublisher uploads every archive after consolidation.
func WithPublisher(p Publisher) Option {
	return func(c *schedulerConfig) { c.publisher = p }
}
