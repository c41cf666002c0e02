package main

// Notes:
// - parseFlags receives the full argv, program name included
// - Layout flags count as set only when given explicitly

import (
	"errors"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-ticketpdf/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	f, err := parseFlags([]string{"ticketpdf", "-c", "campaign", "-n", "1200", "--page-size=8", "-o", "/out", "--resume", "-v"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	if f.config != "campaign" || f.total != 1200 || f.pageSize != 8 || f.output != "/out" {
		t.Errorf("flags = %+v", f)
	}
	if !f.resume || !f.verbose || f.quiet {
		t.Errorf("bool flags = resume:%v verbose:%v quiet:%v", f.resume, f.verbose, f.quiet)
	}
	if !f.set("total") || !f.set("page-size") || f.set("batch-size") {
		t.Error("set() should report exactly the flags given")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"positional argument", []string{"ticketpdf", "extra"}, errUsage},
		{"help", []string{"ticketpdf", "--help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := parseFlags(tt.args); !errors.Is(err, tt.want) {
				t.Errorf("parseFlags() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := parseFlags([]string{"ticketpdf", "--total", "many"}); err == nil {
		t.Error("parseFlags() should reject a non-numeric --total")
	}
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	f, err := parseFlags([]string{"ticketpdf", "--batch-size", "50", "--engine", "chromedp", "--compression", "gzip", "--resume"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	cfg := config.DefaultConfig()
	applyFlags(f, cfg)

	if cfg.Tickets.BatchSize != 50 || cfg.Render.Engine != "chromedp" || cfg.Output.Compression != "gzip" || !cfg.Output.Resume {
		t.Errorf("config after flags = %+v", cfg)
	}
	// Unset flags keep config values.
	if cfg.Tickets.Total != 150 || cfg.Tickets.PageSize != 10 || cfg.Output.Dir != "." {
		t.Errorf("unset flags changed config: %+v", cfg.Tickets)
	}
}
