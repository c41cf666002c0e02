package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-ticketpdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // TICKETPDF_CONFIG: config file name or path
	Total      int    // TICKETPDF_TOTAL: number of tickets
	OutputDir  string // TICKETPDF_OUTPUT_DIR: archive directory

	// Tier 2 - Browser
	Engine     string        // TICKETPDF_ENGINE: rod, chromedp
	BrowserBin string        // TICKETPDF_BROWSER_BIN: browser executable
	NoSandbox  *bool         // TICKETPDF_NO_SANDBOX: disable the Chrome sandbox
	Timeout    time.Duration // TICKETPDF_TIMEOUT: per-page render timeout
	Workers    int           // TICKETPDF_RENDER_WORKERS: concurrent pages

	// Tier 3 - Publish
	Bucket    string // TICKETPDF_S3_BUCKET: enables publishing
	Endpoint  string // TICKETPDF_S3_ENDPOINT: S3-compatible endpoint
	AccessKey string // TICKETPDF_S3_ACCESS_KEY
	SecretKey string // TICKETPDF_S3_SECRET_KEY
}

// knownEnvVars lists valid TICKETPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"TICKETPDF_CONFIG":     true,
	"TICKETPDF_TOTAL":      true,
	"TICKETPDF_OUTPUT_DIR": true,
	// Tier 2 - Browser
	"TICKETPDF_ENGINE":         true,
	"TICKETPDF_BROWSER_BIN":    true,
	"TICKETPDF_NO_SANDBOX":     true,
	"TICKETPDF_TIMEOUT":        true,
	"TICKETPDF_RENDER_WORKERS": true,
	// Tier 3 - Publish
	"TICKETPDF_S3_BUCKET":     true,
	"TICKETPDF_S3_ENDPOINT":   true,
	"TICKETPDF_S3_ACCESS_KEY": true,
	"TICKETPDF_S3_SECRET_KEY": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, durations and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("TICKETPDF_CONFIG"),
		OutputDir:  os.Getenv("TICKETPDF_OUTPUT_DIR"),
		Engine:     os.Getenv("TICKETPDF_ENGINE"),
		BrowserBin: os.Getenv("TICKETPDF_BROWSER_BIN"),
		Bucket:     os.Getenv("TICKETPDF_S3_BUCKET"),
		Endpoint:   os.Getenv("TICKETPDF_S3_ENDPOINT"),
		AccessKey:  os.Getenv("TICKETPDF_S3_ACCESS_KEY"),
		SecretKey:  os.Getenv("TICKETPDF_S3_SECRET_KEY"),
	}

	cfg.Total = positiveInt(os.Getenv("TICKETPDF_TOTAL"))
	cfg.Workers = positiveInt(os.Getenv("TICKETPDF_RENDER_WORKERS"))

	if timeout := os.Getenv("TICKETPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if v := os.Getenv("TICKETPDF_NO_SANDBOX"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoSandbox = &b
		}
	}

	return cfg
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized TICKETPDF_* variables.
// Helps catch typos like TICKETPDF_TOTL instead of TICKETPDF_TOTAL.
func warnUnknownEnvVars(log zerolog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "TICKETPDF_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.Warn().Str("variable", name).Msg("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.Total > 0 {
		cfg.Tickets.Total = env.Total
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}

	// Tier 2
	if env.Engine != "" {
		cfg.Render.Engine = env.Engine
	}
	if env.BrowserBin != "" {
		cfg.Render.BrowserBin = env.BrowserBin
	}
	if env.NoSandbox != nil {
		cfg.Render.NoSandbox = *env.NoSandbox
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}

	// Tier 3 - a bucket auto-enables publishing
	if env.Bucket != "" {
		cfg.Publish.Bucket = env.Bucket
		cfg.Publish.Enabled = true
	}
	if env.Endpoint != "" {
		cfg.Publish.Endpoint = env.Endpoint
	}
	if env.AccessKey != "" {
		cfg.Publish.AccessKey = env.AccessKey
	}
	if env.SecretKey != "" {
		cfg.Publish.SecretKey = env.SecretKey
	}
}
