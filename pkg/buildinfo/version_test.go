package buildinfo

import (
	"strings"
	"testing"
)

func TestGenerator(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "dev"
	if got := Generator(); got != "Generated with curvesvg" {
		t.Errorf("Generator() = %q", got)
	}

	Version = "v1.2.3"
	if got := Generator(); got != "Generated with curvesvg v1.2.3" {
		t.Errorf("Generator() = %q", got)
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template() missing version: %q", Template())
	}
	if Get().Version != "v1.2.3" {
		t.Errorf("Get().Version = %q", Get().Version)
	}
}
