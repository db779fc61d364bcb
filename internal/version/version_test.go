package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColorized(t *testing.T) {
	withPlainColor(t)
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0", "0.1.0"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"0.3.0-dev", "0.3.0-dev"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			if got := Colorized(); got != tt.want {
				t.Errorf("Colorized() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLine(t *testing.T) {
	withPlainColor(t)
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.0.0"
	GitCommit, BuildDate = "", ""
	if got := Line(); got != "loopkern 1.0.0" {
		t.Errorf("Line() = %q", got)
	}
	GitCommit, BuildDate = "abc123", "2024-01-15"
	if got := Line(); got != "loopkern 1.0.0 (abc123, 2024-01-15)" {
		t.Errorf("Line() = %q", got)
	}
}
