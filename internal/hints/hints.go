// Package hints provides actionable hints for common failure scenarios.
// Hints are short imperative sentences; the CLI logs them next to the error.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ticketpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("TICKETPDF_NO_SANDBOX") == "" {
		hints = append(hints, "set TICKETPDF_NO_SANDBOX=true for Docker/CI")
	}
	if os.Getenv("TICKETPDF_BROWSER_BIN") == "" {
		hints = append(hints, "set TICKETPDF_BROWSER_BIN to use an installed Chrome")
	}

	return strings.Join(hints, "; ")
}

// ForTimeout returns a hint about increasing the per-page timeout.
func ForTimeout() string {
	return "raise render.timeout or TICKETPDF_TIMEOUT, or lower tickets.pageSize"
}

// ForConfigNotFound suggests --config and the user config directory.
func ForConfigNotFound() string {
	hint := "use --config /path/to/file.yaml"
	if dir, err := os.UserConfigDir(); err == nil {
		hint += " or create " + dir + "/go-ticketpdf/<name>.yaml"
	}
	return hint
}

// ForCheckpointMismatch explains how to start over after a layout change.
func ForCheckpointMismatch(outputDir string) string {
	if outputDir == "" {
		outputDir = "<output dir>"
	}
	return "the layout changed since the last run; remove " +
		filepath.Join(outputDir, ".ticketpdf-state.yaml") + " or run without --resume"
}

// ForStaging suggests checking the staging location.
func ForStaging() string {
	return "check that output.stagingDir (or the system temp dir) exists, is writable and has free space"
}
