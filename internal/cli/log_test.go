package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/curvesvg/pkg/observability"
)

// runLogged runs the CLI and returns everything its logger wrote.
func runLogged(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return buf.String()
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("dangling stylable") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("resolve started") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("resolve started") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestConvertLogsRecoveredWarnings(t *testing.T) {
	dir := isolate(t)
	input := writeFixture(t, dir, 44)

	out := runLogged(t, "convert", input, "--no-cache")

	// The fixture's second element points at a missing stylable.
	for _, want := range []string{"WARN", "code=REFERENCE", "element=1", "Converted logo.curve ("} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DEBU") {
		t.Errorf("debug lines at info level:\n%s", out)
	}
}

func TestVerboseLogsPipelineStages(t *testing.T) {
	t.Cleanup(observability.Reset)
	dir := isolate(t)
	input := writeFixture(t, dir, 44)

	out := runLogged(t, "convert", input, "-v")

	for _, want := range []string{
		"decode complete", "format_version=44",
		"resolve complete", "warnings=1",
		"render complete",
		"cache miss", "cache set",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose log missing %q:\n%s", want, out)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = prog.start.Add(-84 * time.Millisecond)

	prog.done("Converted logo.curve")

	if !regexp.MustCompile(`INFO Converted logo\.curve \((8[4-9]|9\d|\d{3,})ms\)`).MatchString(buf.String()) {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
}
