package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/pipeline"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

func TestStatsLine(t *testing.T) {
	st := pipeline.Stats{
		FormatVersion: 44,
		ArtboardCount: 3,
		Scene:         scene.Stats{Layers: 1, Elements: 2},
	}

	fresh := statsLine(st, false)
	for _, want := range []string{"format v44", "1 layer", "2 elements", "1 of 3 artboards", "fresh"} {
		if !strings.Contains(fresh, want) {
			t.Errorf("stats line missing %q: %s", want, fresh)
		}
	}
	if !strings.Contains(statsLine(st, true), "cached") {
		t.Error("cached run should say cached")
	}
	if got := statsLine(pipeline.Stats{}, false); !strings.Contains(got, "fresh") {
		t.Errorf("empty stats = %q", got)
	}
}

func TestWarningSummary(t *testing.T) {
	warnings := []error{
		errors.New(errors.ErrCodeGeometry, "empty"),
		errors.New(errors.ErrCodeReference, "a"),
		errors.New(errors.ErrCodeReference, "b"),
		errors.New(errors.ErrCodeStyleDecode, "c"),
	}
	want := "REFERENCE 2, GEOMETRY 1, STYLE_DECODE 1"
	if got := warningSummary(warnings); got != want {
		t.Errorf("warningSummary = %q, want %q", got, want)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 layers"},
		{1, "1 layer"},
		{5, "5 layers"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "layer"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
