package version

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "", "none"
	if got := Summary(); got != "dev" {
		t.Errorf("Expected 'dev', got %q", got)
	}

	Version, Commit = "v1.2.0", "0123456789abcdef"
	if got := Summary(); got != "v1.2.0 (0123456)" {
		t.Errorf("Expected short commit in summary, got %q", got)
	}
}

func TestDetails(t *testing.T) {
	out := Details()
	if !strings.HasPrefix(out, "lingochat ") {
		t.Errorf("Expected details to start with program name, got %q", out)
	}
	if !strings.Contains(out, Platform()) {
		t.Errorf("Expected platform %q in details, got %q", Platform(), out)
	}
}
