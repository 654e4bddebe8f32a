package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	origDate := Date

	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2026-01-01T12:00:00Z"

	defer func() {
		Version = origVersion
		Commit = origCommit
		Date = origDate
	}()

	info := GetInfo()

	if info.Version != "1.0.0" {
		t.Errorf("GetInfo().Version = %v, want 1.0.0", info.Version)
	}

	if info.Commit != "abc123def456" {
		t.Errorf("GetInfo().Commit = %v, want abc123def456", info.Commit)
	}

	if info.GoVersion != runtime.Version() {
		t.Errorf("GetInfo().GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef0123456789",
		Date:      "2026-01-01",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}

	s := info.String()

	if !strings.Contains(s, "lapdeck 1.2.3") {
		t.Errorf("version string missing version: %s", s)
	}
	if !strings.Contains(s, "abcdef01") || strings.Contains(s, "abcdef0123456789") {
		t.Errorf("commit should be shortened to 8 characters: %s", s)
	}
}
