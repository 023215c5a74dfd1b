package cli

import (
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("v0.3.1", "9fc1d2a", "2026-08-23T10:00:00Z")

	if version != "v0.3.1" {
		t.Errorf("version = %q, want %q", version, "v0.3.1")
	}
	if commit != "9fc1d2a" {
		t.Errorf("commit = %q, want %q", commit, "9fc1d2a")
	}
	if date != "2026-08-23T10:00:00Z" {
		t.Errorf("date = %q, want %q", date, "2026-08-23T10:00:00Z")
	}
}

func TestSetVersionOverwrites(t *testing.T) {
	// buildinfo defaults ("dev", "none", "unknown") arrive first; a release
	// build's ldflags values must replace them wholesale, including empties.
	SetVersion("dev", "none", "unknown")
	SetVersion("", "", "")

	if version != "" || commit != "" || date != "" {
		t.Errorf("SetVersion should overwrite all fields, got %q/%q/%q", version, commit, date)
	}
}
