package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel()
// - Malformed values are ignored rather than reported
// - applyEnvConfig overrides config file values; a bucket enables publishing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-ticketpdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("TICKETPDF_CONFIG", "/etc/ticketpdf/campaign.yaml")
	t.Setenv("TICKETPDF_TOTAL", "2000")
	t.Setenv("TICKETPDF_OUTPUT_DIR", "/archives")
	t.Setenv("TICKETPDF_ENGINE", "chromedp")
	t.Setenv("TICKETPDF_BROWSER_BIN", "/usr/bin/chromium")
	t.Setenv("TICKETPDF_NO_SANDBOX", "true")
	t.Setenv("TICKETPDF_TIMEOUT", "2m")
	t.Setenv("TICKETPDF_RENDER_WORKERS", "4")
	t.Setenv("TICKETPDF_S3_BUCKET", "tickets")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "/etc/ticketpdf/campaign.yaml" || cfg.Total != 2000 || cfg.OutputDir != "/archives" {
		t.Errorf("tier 1 = %+v", cfg)
	}
	if cfg.Engine != "chromedp" || cfg.BrowserBin != "/usr/bin/chromium" || cfg.Timeout != 2*time.Minute || cfg.Workers != 4 {
		t.Errorf("tier 2 = %+v", cfg)
	}
	if cfg.NoSandbox == nil || !*cfg.NoSandbox {
		t.Error("NoSandbox should be true")
	}
	if cfg.Bucket != "tickets" {
		t.Errorf("Bucket = %q", cfg.Bucket)
	}
}

func TestLoadEnvConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("TICKETPDF_TOTAL", "-5")
	t.Setenv("TICKETPDF_RENDER_WORKERS", "four")
	t.Setenv("TICKETPDF_TIMEOUT", "soon")
	t.Setenv("TICKETPDF_NO_SANDBOX", "maybe")

	cfg := loadEnvConfig()

	if cfg.Total != 0 || cfg.Workers != 0 || cfg.Timeout != 0 || cfg.NoSandbox != nil {
		t.Errorf("invalid values should be ignored, got %+v", cfg)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("TICKETPDF_TOTL", "10")
	t.Setenv("TICKETPDF_TOTAL", "10")

	var buf bytes.Buffer
	warnUnknownEnvVars(newLogger(&buf, false, false))

	out := buf.String()
	if !strings.Contains(out, "TICKETPDF_TOTL") {
		t.Errorf("expected warning for TICKETPDF_TOTL, got %q", out)
	}
	if strings.Contains(out, "TICKETPDF_TOTAL=") || strings.Count(out, "unknown environment variable") != 1 {
		t.Errorf("known variables must not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	noSandbox := true
	env := &envConfig{
		Total:     900,
		OutputDir: "/archives",
		Engine:    "chromedp",
		NoSandbox: &noSandbox,
		Timeout:   90 * time.Second,
		Workers:   3,
		Bucket:    "tickets",
		AccessKey: "ak",
		SecretKey: "sk",
	}

	cfg := config.DefaultConfig()
	applyEnvConfig(env, cfg)

	if cfg.Tickets.Total != 900 || cfg.Output.Dir != "/archives" {
		t.Errorf("tickets/output = %+v / %+v", cfg.Tickets, cfg.Output)
	}
	if cfg.Render.Engine != "chromedp" || !cfg.Render.NoSandbox || cfg.Render.Timeout != "1m30s" || cfg.Render.Workers != 3 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if !cfg.Publish.Enabled || cfg.Publish.Bucket != "tickets" || cfg.Publish.AccessKey != "ak" {
		t.Errorf("publish = %+v", cfg.Publish)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config invalid after env: %v", err)
	}
}

func TestApplyEnvConfig_EmptyKeepsConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	applyEnvConfig(&envConfig{}, cfg)

	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("empty env changed the config (-want +got):\n%s", diff)
	}
}
