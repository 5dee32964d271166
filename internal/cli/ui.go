package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// maxWarningLines bounds the warnings listed after a conversion.
const maxWarningLines = 10

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// PrintError writes a failed command's error to stderr, with its code when
// it carries one.
func PrintError(err error) {
	msg := err.Error()
	if code := errors.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s %s", code, errors.UserMessage(err))
	}
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Conversion Summary
// =============================================================================

// printStats prints conversion statistics on a single line.
func printStats(st pipeline.Stats, cached bool) {
	fmt.Println(statsLine(st, cached))
}

func statsLine(st pipeline.Stats, cached bool) string {
	var parts []string
	if st.FormatVersion > 0 {
		parts = append(parts, fmt.Sprintf("format v%d", st.FormatVersion))
	}
	if n := st.Scene.Layers; n > 0 {
		parts = append(parts, plural(n, "layer"))
	}
	if n := st.Scene.Elements; n > 0 {
		parts = append(parts, plural(n, "element"))
	}
	if n := st.ArtboardCount; n > 1 {
		parts = append(parts, fmt.Sprintf("1 of %d artboards", n))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if len(parts) > 0 {
		line += StyleDim.Render(" · ")
	}
	return line + statusStyle.Render(status)
}

// printWarnings lists recovered problems, most frequent code first.
func printWarnings(warnings []error) {
	if len(warnings) == 0 {
		return
	}
	printWarning("%s recovered", plural(len(warnings), "problem"))
	fmt.Println("  " + StyleDim.Render(warningSummary(warnings)))
	for i, w := range warnings {
		if i == maxWarningLines {
			printDetail("... and %d more", len(warnings)-maxWarningLines)
			break
		}
		printDetail("[%s] %s", errors.GetCode(w), errors.UserMessage(w))
	}
}

// warningSummary counts warnings per code, e.g. "REFERENCE 3, GEOMETRY 1".
func warningSummary(warnings []error) string {
	counts := make(map[errors.Code]int)
	for _, w := range warnings {
		counts[errors.GetCode(w)]++
	}
	codes := make([]errors.Code, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%s %d", code, counts[code])
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
