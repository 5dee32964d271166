package text

import "strings"

var weightNames = []struct {
	suffix string
	weight int
}{
	{"extralight", 200},
	{"ultralight", 200},
	{"semibold", 600},
	{"demibold", 600},
	{"extrabold", 800},
	{"ultrabold", 800},
	{"hairline", 100},
	{"regular", 400},
	{"medium", 500},
	{"normal", 400},
	{"heavy", 800},
	{"black", 900},
	{"light", 300},
	{"roman", 400},
	{"thin", 100},
	{"book", 400},
	{"bold", 700},
}

// ParseFontName splits a PostScript font name such as "Avenir-HeavyOblique"
// into a CSS family, numeric weight and italic flag. Names without a style
// suffix are regular weight. Private system fonts (leading dot) map to
// system-ui.
func ParseFontName(name string) (family string, weight int, italic bool) {
	family, suffix, _ := strings.Cut(name, "-")
	if strings.HasPrefix(family, ".") || family == "" {
		family = "system-ui"
	}
	weight = DefaultFontWeight

	s := strings.ToLower(suffix)
	for _, it := range []string{"italic", "oblique"} {
		if strings.Contains(s, it) {
			italic = true
			s = strings.ReplaceAll(s, it, "")
		}
	}
	for _, w := range weightNames {
		if strings.Contains(s, w.suffix) {
			weight = w.weight
			break
		}
	}
	return family, weight, italic
}
