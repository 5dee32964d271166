package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"howett.net/plist"

	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/style"
)

func keyedArchive(t *testing.T) []byte {
	t.Helper()
	objects := []any{
		"$null",
		map[string]any{"NSString": plist.UID(2), "NSAttributes": plist.UID(3), "$class": plist.UID(9)},
		"Hello\nWorld",
		map[string]any{
			"NS.keys":    []any{plist.UID(4), plist.UID(5), plist.UID(6)},
			"NS.objects": []any{plist.UID(7), plist.UID(8), plist.UID(10)},
			"$class":     plist.UID(12),
		},
		"NSFont",
		"NSColor",
		"NSParagraphStyle",
		map[string]any{"NSName": plist.UID(11), "NSSize": 24.0, "$class": plist.UID(13)},
		map[string]any{"NSRGB": []byte("1 0 0.5 1\x00"), "NSColorSpace": 1},
		map[string]any{"$classname": "NSAttributedString", "$classes": []any{"NSAttributedString", "NSObject"}},
		map[string]any{"NSAlignment": 1},
		"Avenir-HeavyOblique",
		map[string]any{"$classname": "NSDictionary"},
		map[string]any{"$classname": "UIFont"},
	}
	top := map[string]any{
		"$archiver": "NSKeyedArchiver",
		"$version":  100000,
		"$top":      map[string]any{"root": plist.UID(1)},
		"$objects":  objects,
	}
	data, err := plist.Marshal(top, plist.BinaryFormat)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// marshalKeyed wraps an object table in a binary keyed archive rooted at
// object 1.
func marshalKeyed(t *testing.T, objects []any) []byte {
	t.Helper()
	data, err := plist.Marshal(map[string]any{
		"$archiver": "NSKeyedArchiver",
		"$version":  100000,
		"$top":      map[string]any{"root": plist.UID(1)},
		"$objects":  objects,
	}, plist.BinaryFormat)
	if err != nil {
		t.Fatalf("marshal archive: %v", err)
	}
	return data
}

func TestDecodeKeyedArchive(t *testing.T) {
	run, err := Decode(keyedArchive(t))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := &Run{
		Text:       "Hello\nWorld",
		FontFamily: "Avenir",
		FontSize:   24,
		FontWeight: 800,
		Italic:     true,
		Anchor:     "middle",
		Color:      &style.RGBA{R: 1, G: 0, B: 0.5, A: 1},
	}
	if diff := cmp.Diff(want, run); diff != "" {
		t.Errorf("run (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Hello", "World"}, run.Lines()); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
}

func TestDecodePlainDictionary(t *testing.T) {
	data, err := plist.Marshal(map[string]any{
		"string":    "Label",
		"fontName":  "Helvetica-Bold",
		"fontSize":  18,
		"alignment": 2,
		"color":     map[string]any{"red": 0.0, "green": 0.0, "blue": 1.0},
	}, plist.XMLFormat)
	if err != nil {
		t.Fatal(err)
	}

	run, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := &Run{
		Text:       "Label",
		FontFamily: "Helvetica",
		FontSize:   18,
		FontWeight: 700,
		Anchor:     "end",
		Color:      &style.RGBA{B: 1, A: 1},
	}
	if diff := cmp.Diff(want, run); diff != "" {
		t.Errorf("run (-want +got):\n%s", diff)
	}
}

func TestDecodeDefaults(t *testing.T) {
	data, err := plist.Marshal(map[string]any{"string": "x"}, plist.BinaryFormat)
	if err != nil {
		t.Fatal(err)
	}
	run, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if run.FontFamily != DefaultFontFamily || run.FontSize != DefaultFontSize ||
		run.FontWeight != DefaultFontWeight || run.Anchor != "start" || run.Color != nil {
		t.Errorf("defaults not applied: %+v", run)
	}
}

func TestDecodeErrors(t *testing.T) {
	noString, err := plist.Marshal(map[string]any{"fontSize": 10}, plist.BinaryFormat)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		payload []byte
	}{
		{"not a plist", []byte("{ unterminated")},
		{"no string", noString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			if !errors.Is(err, errors.ErrCodeStyleDecode) {
				t.Errorf("err = %v, want STYLE_DECODE", err)
			}
		})
	}
}

func TestParseFontName(t *testing.T) {
	tests := []struct {
		name   string
		family string
		weight int
		italic bool
	}{
		{"Helvetica", "Helvetica", 400, false},
		{"Helvetica-Bold", "Helvetica", 700, false},
		{"Avenir-HeavyOblique", "Avenir", 800, true},
		{"SFPro-SemiboldItalic", "SFPro", 600, true},
		{"Inter-ExtraLight", "Inter", 200, false},
		{"Roboto-Thin", "Roboto", 100, false},
		{"Montserrat-Black", "Montserrat", 900, false},
		{"Lato-Italic", "Lato", 400, true},
		{".SFUI-Regular", "system-ui", 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, weight, italic := ParseFontName(tt.name)
			if family != tt.family || weight != tt.weight || italic != tt.italic {
				t.Errorf("got (%q, %d, %v), want (%q, %d, %v)",
					family, weight, italic, tt.family, tt.weight, tt.italic)
			}
		})
	}
}

func TestAnchor(t *testing.T) {
	for code, want := range map[int]string{0: "start", 1: "middle", 2: "end", 3: "start", 4: "start"} {
		if got := Anchor(code); got != want {
			t.Errorf("Anchor(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestLines(t *testing.T) {
	r := &Run{Text: "a\r\nb\u2028c"}
	if diff := cmp.Diff([]string{"a", "b", "c"}, r.Lines()); diff != "" {
		t.Error(diff)
	}
}

func TestDecodeHostileArchives(t *testing.T) {
	fanOut := []any{"$null"}
	for i := 1; i <= 40; i++ {
		fanOut = append(fanOut, []any{plist.UID(i + 1), plist.UID(i + 1)})
	}
	fanOut = append(fanOut, "leaf")

	tests := []struct {
		name    string
		objects []any
	}{
		{"uid beyond int range", []any{"$null", map[string]any{"NSString": plist.UID(1 << 63)}}},
		{"uid past object table", []any{"$null", map[string]any{"NSString": plist.UID(7)}}},
		{"self reference", []any{"$null", map[string]any{"NSAttributes": plist.UID(1)}}},
		{"doubling fan-out", fanOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(marshalKeyed(t, tt.objects))
			if !errors.Is(err, errors.ErrCodeStyleDecode) {
				t.Errorf("err = %v, want STYLE_DECODE", err)
			}
		})
	}
}

func TestDecodeSharedObjects(t *testing.T) {
	data := marshalKeyed(t, []any{
		"$null",
		map[string]any{"NSString": plist.UID(2), "NSCopy": plist.UID(2)},
		"twice",
	})
	run, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if run.Text != "twice" {
		t.Errorf("text = %q, want %q", run.Text, "twice")
	}
}
