package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	ticketpdf "github.com/alnah/go-ticketpdf"
	"github.com/alnah/go-ticketpdf/internal/config"
)

// run loads configuration, builds the scheduler and processes every batch.
// Archive locations are printed to env.Stdout, one per line.
// runError ties a failure to the output directory resolved from flags, env
// and config, so hints can name the real paths.
type runError struct {
	outputDir string
	err       error
}

func (e *runError) Error() string { return e.err.Error() }

func (e *runError) Unwrap() error { return e.err }

// outputDirOf returns the resolved output directory carried by err, or "".
func outputDirOf(err error) string {
	var re *runError
	if errors.As(err, &re) {
		return re.outputDir
	}
	return ""
}

func run(ctx context.Context, f *cliFlags, env *Environment, log zerolog.Logger) error {
	if f.version {
		fmt.Fprintf(env.Stdout, "ticketpdf %s\n", Version)
		return nil
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(log)

	cfg, err := loadConfig(f, envCfg)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		return &runError{outputDir: cfg.Output.Dir, err: err}
	}

	opts, err := schedulerOptions(ctx, cfg, env, log)
	if err != nil {
		return fail(err)
	}

	layout := ticketpdf.Layout{
		Total:     cfg.Tickets.Total,
		BatchSize: cfg.Tickets.BatchSize,
		PageSize:  cfg.Tickets.PageSize,
	}
	sched, err := ticketpdf.NewScheduler(layout, opts...)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := sched.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cleanup failed")
		}
	}()

	report, err := sched.Run(ctx)
	if report != nil {
		for _, a := range report.Archives {
			loc := a.Path
			if a.Location != "" {
				loc = a.Location
			}
			fmt.Fprintln(env.Stdout, loc)
		}
	}
	if err != nil {
		return fail(err)
	}

	log.Info().
		Int("tickets", report.Tickets).
		Int("archives", len(report.Archives)).
		Int("skipped", len(report.Skipped)).
		Dur("duration", report.Duration).
		Msg("done")
	return nil
}

// loadConfig resolves the configuration.
// Priority: CLI flags > env vars > config file > defaults
func loadConfig(f *cliFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	applyFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(f *cliFlags, cfg *config.Config) {
	if f.set("total") {
		cfg.Tickets.Total = f.total
	}
	if f.set("batch-size") {
		cfg.Tickets.BatchSize = f.batchSize
	}
	if f.set("page-size") {
		cfg.Tickets.PageSize = f.pageSize
	}
	if f.set("output") {
		cfg.Output.Dir = f.output
	}
	if f.set("engine") {
		cfg.Render.Engine = f.engine
	}
	if f.set("compression") {
		cfg.Output.Compression = f.compression
	}
	if f.resume {
		cfg.Output.Resume = true
	}
}

// schedulerOptions maps a validated config onto scheduler options.
func schedulerOptions(ctx context.Context, cfg *config.Config, env *Environment, log zerolog.Logger) ([]ticketpdf.Option, error) {
	timeout, err := cfg.Render.RenderTimeout()
	if err != nil {
		return nil, err
	}

	browser := ticketpdf.DefaultBrowserOptions()
	browser.Bin = cfg.Render.BrowserBin
	browser.Headless = cfg.Render.Headless
	browser.NoSandbox = cfg.Render.NoSandbox
	if timeout > 0 {
		browser.Timeout = timeout
	}

	opts := []ticketpdf.Option{
		ticketpdf.WithLogger(log),
		ticketpdf.WithAssetPath(cfg.Assets.BasePath),
		ticketpdf.WithItemOptions(ticketpdf.ItemOptions{
			Caption:       cfg.Tickets.Caption,
			PayloadPrefix: cfg.Tickets.PayloadPrefix,
		}),
		ticketpdf.WithCodeSize(cfg.Tickets.CodeSize),
		ticketpdf.WithGenerateWorkers(cfg.Generate.Workers),
		ticketpdf.WithRenderWorkers(cfg.Render.Workers),
		ticketpdf.WithEngine(cfg.Render.Engine),
		ticketpdf.WithBrowser(browser),
		ticketpdf.WithPageSettings(pageSettings(cfg.Render)),
		ticketpdf.WithOutputDir(cfg.Output.Dir),
		ticketpdf.WithArchivePrefix(cfg.Output.Prefix),
		ticketpdf.WithCompression(cfg.Output.Compression),
		ticketpdf.WithStagingParent(cfg.Output.StagingDir),
		ticketpdf.WithResume(cfg.Output.Resume),
		ticketpdf.WithProgress(progressLogger(log)),
	}

	if env.Renderer != nil {
		opts = append(opts, ticketpdf.WithRenderer(env.Renderer))
	}
	if env.Merger != nil {
		opts = append(opts, ticketpdf.WithMerger(env.Merger))
	}

	switch {
	case env.Publisher != nil:
		opts = append(opts, ticketpdf.WithPublisher(env.Publisher))
	case cfg.Publish.Enabled:
		pub, err := ticketpdf.NewS3Publisher(ctx, ticketpdf.S3Options{
			Bucket:       cfg.Publish.Bucket,
			Endpoint:     cfg.Publish.Endpoint,
			Region:       cfg.Publish.Region,
			AccessKey:    cfg.Publish.AccessKey,
			SecretKey:    cfg.Publish.SecretKey,
			KeyPrefix:    cfg.Publish.KeyPrefix,
			UsePathStyle: cfg.Publish.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, ticketpdf.WithPublisher(pub))
	}

	return opts, nil
}

// pageSettings fills unset render fields with library defaults.
func pageSettings(r config.RenderConfig) ticketpdf.PageSettings {
	p := ticketpdf.DefaultPageSettings()
	if r.PageFormat != "" {
		p.Size = r.PageFormat
	}
	if r.Orientation != "" {
		p.Orientation = r.Orientation
	}
	p.Margin = r.Margin
	return p
}

// progressLogger logs every 10% of overall progress.
func progressLogger(log zerolog.Logger) ticketpdf.ProgressFunc {
	lastStep := -1
	return func(p ticketpdf.Progress) {
		step := int(p.Fraction() * 10)
		if step == lastStep {
			return
		}
		lastStep = step
		log.Info().
			Int("generated", p.Generated).
			Int("rendered", p.Rendered).
			Int("percent", step*10).
			Msg("progress")
	}
}
