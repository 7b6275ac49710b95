package version_test

import (
	"testing"

	"github.com/fatih/color"

	"brine/internal/version"
)

func TestColoredPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []string{
		"0.1.0-dev",
		"1.2.3",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
		"",
	}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			if got := version.Colored(v); got != v {
				t.Fatalf("Colored(%q) = %q without color", v, got)
			}
		})
	}
}

func TestColoredHighlightsParts(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	got := version.Colored("1.2.3-dev")
	if got == "1.2.3-dev" {
		t.Fatal("expected escape sequences in colored version")
	}
	if got[len(got)-4:] != "-dev" {
		t.Fatalf("suffix lost: %q", got)
	}
	if version.Colored("nightly") != "nightly" {
		t.Fatal("non-version string must pass through")
	}
}

func TestDefaultVersion(t *testing.T) {
	if version.Version == "" {
		t.Fatal("Version should have a default value")
	}
}
