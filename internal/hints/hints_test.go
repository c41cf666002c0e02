package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func withContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func clearCI(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(k, "")
	}
}

func TestForBrowserConnect_InCI(t *testing.T) {
	withContainer(t, false)
	clearCI(t)
	t.Setenv("CI", "true")
	t.Setenv("TICKETPDF_NO_SANDBOX", "")
	t.Setenv("TICKETPDF_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	if !strings.Contains(hint, "TICKETPDF_NO_SANDBOX") {
		t.Error("expected TICKETPDF_NO_SANDBOX suggestion in CI")
	}
	if !strings.Contains(hint, "TICKETPDF_BROWSER_BIN") {
		t.Error("expected TICKETPDF_BROWSER_BIN suggestion")
	}
}

func TestForBrowserConnect_InDocker(t *testing.T) {
	withContainer(t, true)
	clearCI(t)
	t.Setenv("TICKETPDF_NO_SANDBOX", "")
	t.Setenv("TICKETPDF_BROWSER_BIN", "/usr/bin/chromium")

	hint := ForBrowserConnect()

	if !strings.Contains(hint, "TICKETPDF_NO_SANDBOX") {
		t.Error("expected TICKETPDF_NO_SANDBOX suggestion in Docker")
	}
	if strings.Contains(hint, "TICKETPDF_BROWSER_BIN") {
		t.Error("should not suggest TICKETPDF_BROWSER_BIN when already set")
	}
}

func TestForBrowserConnect_AllSet(t *testing.T) {
	withContainer(t, true)
	clearCI(t)
	t.Setenv("TICKETPDF_NO_SANDBOX", "true")
	t.Setenv("TICKETPDF_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("expected no hint, got %q", hint)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hint string
		want string
	}{
		{"timeout", ForTimeout(), "render.timeout"},
		{"config", ForConfigNotFound(), "--config"},
		{"checkpoint", ForCheckpointMismatch("/out/"), "/out/.ticketpdf-state.yaml"},
		{"staging", ForStaging(), "stagingDir"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.hint, tt.want) {
			t.Errorf("%s hint %q should mention %q", tt.name, tt.hint, tt.want)
		}
	}
}
