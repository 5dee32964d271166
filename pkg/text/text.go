// Package text decodes the rich-text payload of text elements.
//
// The payload is a property list, normally a keyed archive of an attributed
// string written by the platform text system. Only the first style run is
// read: its string, font, paragraph alignment and foreground color. A plain
// dictionary using the same attribute keys is accepted as well.
package text

import (
	"fmt"
	"strings"

	"howett.net/plist"

	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/style"
)

// Defaults applied when the payload does not say otherwise.
const (
	DefaultFontFamily = "sans-serif"
	DefaultFontSize   = 12
	DefaultFontWeight = 400
)

// Run is a decoded text payload.
type Run struct {
	Text       string
	FontFamily string
	FontSize   float64
	FontWeight int
	Italic     bool
	Anchor     string      // text-anchor: start, middle or end
	Color      *style.RGBA // nil when the payload has no foreground color
}

// Lines splits the text into lines on any line or paragraph separator.
func (r *Run) Lines() []string {
	s := strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n").Replace(r.Text)
	return strings.Split(s, "\n")
}

// Decode parses a property list payload in any plist format.
func Decode(payload []byte) (*Run, error) {
	var root any
	if _, err := plist.Unmarshal(payload, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStyleDecode, err, "decode text payload")
	}

	tree := root
	if top, ok := root.(map[string]any); ok {
		if _, keyed := top["$objects"]; keyed {
			var err error
			if tree, err = unarchive(top); err != nil {
				return nil, err
			}
		}
	}

	run := &Run{
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		FontWeight: DefaultFontWeight,
		Anchor:     "start",
	}
	s, ok := findString(tree)
	if !ok {
		return nil, errors.New(errors.ErrCodeStyleDecode, "text payload has no string")
	}
	run.Text = s

	if font, ok := find(tree, "NSFont", "font").(map[string]any); ok {
		applyFont(run, font)
	} else {
		if name, ok := find(tree, "fontName").(string); ok {
			run.FontFamily, run.FontWeight, run.Italic = ParseFontName(name)
		}
		if size, ok := number(find(tree, "fontSize")); ok && size > 0 {
			run.FontSize = size
		}
	}

	if code, ok := number(find(tree, "NSAlignment", "alignment")); ok {
		run.Anchor = Anchor(int(code))
	}

	if c, ok := parseColor(find(tree, "NSColor", "color")); ok {
		run.Color = &c
	}
	return run, nil
}

// Anchor maps a paragraph alignment code to a text-anchor keyword.
// Justified and natural alignment start at the origin.
func Anchor(code int) string {
	switch code {
	case 1:
		return "middle"
	case 2:
		return "end"
	default:
		return "start"
	}
}

func applyFont(run *Run, font map[string]any) {
	for _, key := range []string{"NSName", "UIFontName", "name"} {
		if name, ok := font[key].(string); ok && name != "" {
			run.FontFamily, run.FontWeight, run.Italic = ParseFontName(name)
			break
		}
	}
	for _, key := range []string{"NSSize", "UIFontPointSize", "size"} {
		if size, ok := number(font[key]); ok && size > 0 {
			run.FontSize = size
			break
		}
	}
}

// findString returns the string of an attributed string or plain payload.
func findString(tree any) (string, bool) {
	switch v := find(tree, "NSString", "string", "text").(type) {
	case string:
		return v, true
	case map[string]any:
		if s, ok := v["NS.string"].(string); ok {
			return s, true
		}
		if b, ok := v["NS.bytes"].([]byte); ok {
			return string(b), true
		}
	}
	return "", false
}

// find does a depth-first search for the first value stored under any of
// keys. Keys are tried in order at each level before descending.
func find(tree any, keys ...string) any {
	switch v := tree.(type) {
	case map[string]any:
		for _, k := range keys {
			if x, ok := v[k]; ok {
				return x
			}
		}
		for _, k := range sortedKeys(v) {
			if x := find(v[k], keys...); x != nil {
				return x
			}
		}
	case []any:
		for _, x := range v {
			if found := find(x, keys...); found != nil {
				return found
			}
		}
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// parseColor understands the archived color forms: NSRGB and NSWhite
// component strings, UIKit UIRed/UIGreen/UIBlue/UIAlpha keys, and plain
// red/green/blue/alpha dictionaries.
func parseColor(v any) (style.RGBA, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return style.RGBA{}, false
	}
	if raw, ok := componentBytes(m["NSRGB"]); ok {
		c := parseComponents(raw)
		if len(c) >= 3 {
			out := style.RGBA{R: c[0], G: c[1], B: c[2], A: 1}
			if len(c) >= 4 {
				out.A = c[3]
			}
			return out, true
		}
	}
	if raw, ok := componentBytes(m["NSWhite"]); ok {
		c := parseComponents(raw)
		if len(c) >= 1 {
			out := style.RGBA{R: c[0], G: c[0], B: c[0], A: 1}
			if len(c) >= 2 {
				out.A = c[1]
			}
			return out, true
		}
	}
	for _, keys := range [][4]string{
		{"UIRed", "UIGreen", "UIBlue", "UIAlpha"},
		{"red", "green", "blue", "alpha"},
	} {
		r, okR := number(m[keys[0]])
		g, okG := number(m[keys[1]])
		b, okB := number(m[keys[2]])
		if !okR || !okG || !okB {
			continue
		}
		a, okA := number(m[keys[3]])
		if !okA {
			a = 1
		}
		return style.RGBA{R: r, G: g, B: b, A: a}, true
	}
	return style.RGBA{}, false
}

func componentBytes(v any) (string, bool) {
	switch b := v.(type) {
	case []byte:
		return string(b), true
	case string:
		return b, true
	}
	return "", false
}

func parseComponents(s string) []float64 {
	s = strings.TrimRight(s, "\x00")
	var out []float64
	for _, f := range strings.Fields(s) {
		var v float64
		if _, err := fmt.Sscan(f, &v); err != nil {
			return out
		}
		out = append(out, v)
	}
	return out
}
