package style

import (
	"bytes"
	"io"
)

// Defs collects reusable definitions in insertion order, at most once per id.
//
// The emitter passes one Defs down its call chain and writes it out once
// before the layers. It is not safe for concurrent use. The zero value is
// ready to use.
type Defs struct {
	seen    map[string]struct{}
	entries []string
	ids     []string
}

// Has reports whether id has been added.
func (d *Defs) Has(id string) bool {
	if d == nil {
		return false
	}
	_, ok := d.seen[id]
	return ok
}

// Add appends markup under id unless id is already present.
// It reports whether the definition was added.
func (d *Defs) Add(id, markup string) bool {
	if d == nil || d.Has(id) {
		return false
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	d.seen[id] = struct{}{}
	d.ids = append(d.ids, id)
	d.entries = append(d.entries, markup)
	return true
}

// Len returns the number of definitions.
func (d *Defs) Len() int { return len(d.entries) }

// IDs returns the definition ids in insertion order.
func (d *Defs) IDs() []string { return append([]string(nil), d.ids...) }

// WriteTo writes the <defs> section, empty when there are no definitions.
func (d *Defs) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if len(d.entries) == 0 {
		buf.WriteString("<defs/>\n")
	} else {
		buf.WriteString("<defs>\n")
		for _, e := range d.entries {
			buf.WriteString(e)
			buf.WriteByte('\n')
		}
		buf.WriteString("</defs>\n")
	}
	return buf.WriteTo(w)
}
