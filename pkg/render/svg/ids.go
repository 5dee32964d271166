package svg

import (
	"strconv"
	"strings"
	"unicode"
)

// idAllocator hands out unique XML ids derived from element names.
type idAllocator struct {
	used  map[string]bool
	next  map[string]int
	count int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]bool), next: make(map[string]int)}
}

// allocate returns a unique id for name. Repeated names get a numeric
// suffix (name, name-2, name-3). Names with no usable characters fall back
// to kind with a running number.
func (a *idAllocator) allocate(name, kind string) string {
	base := sanitizeID(name)
	if base == "" {
		a.count++
		base = kind + "-" + strconv.Itoa(a.count)
	}
	id := base
	for n := a.next[base]; a.used[id]; n++ {
		id = base + "-" + strconv.Itoa(n+2)
		a.next[base] = n + 1
	}
	a.used[id] = true
	return id
}

// sanitizeID maps name onto the XML name alphabet: letters, digits, '-',
// '_' and '.'. Whitespace becomes '-'. A leading character that cannot
// start a name is prefixed with '_'.
func sanitizeID(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	id := b.String()
	if id == "" {
		return ""
	}
	if first := []rune(id)[0]; !unicode.IsLetter(first) && first != '_' {
		id = "_" + id
	}
	return id
}
