package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

// Ref is an optional cross-reference into the Arena of records of type T.
//
// The source format writes references either as a bare integer or wrapped in
// a single-field object ({"_0": 3}). A missing, null, or empty wrapper is an
// absent reference. Values that are present but cannot be an index (negative,
// fractional, strings) decode as malformed references: Valid reports true and
// every lookup fails with a REFERENCE error, so the resolver can drop the
// subtree instead of rejecting the whole document.
//
// The zero value is an absent reference.
type Ref[T any] struct {
	index     int
	present   bool
	malformed bool
}

// At returns a present reference to index i.
func At[T any](i int) Ref[T] {
	return Ref[T]{index: i, present: true, malformed: i < 0}
}

// Refs builds a slice of present references, one per index.
func Refs[T any](indices ...int) []Ref[T] {
	out := make([]Ref[T], len(indices))
	for i, idx := range indices {
		out[i] = At[T](idx)
	}
	return out
}

// Valid reports whether the reference is present (possibly malformed).
func (r Ref[T]) Valid() bool { return r.present }

// Index returns the referenced index and whether it is usable.
func (r Ref[T]) Index() (int, bool) {
	return r.index, r.present && !r.malformed
}

// String renders the reference for log output.
func (r Ref[T]) String() string {
	switch {
	case !r.present:
		return "<absent>"
	case r.malformed:
		return "<malformed>"
	}
	return fmt.Sprint(r.index)
}

// UnmarshalJSON accepts n, {"_0": n}, {} and null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	*r = Ref[T]{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		inner, ok := wrapped["_0"]
		if !ok {
			return nil
		}
		return r.UnmarshalJSON(inner)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		r.present, r.malformed = true, true
		return nil
	}
	r.present = true
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		r.malformed = true
		return nil
	}
	r.index = int(f)
	return nil
}

// MarshalJSON writes the bare index, or null when absent or malformed.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if idx, ok := r.Index(); ok {
		return json.Marshal(idx)
	}
	return []byte("null"), nil
}

// Arena is a 0-indexed record array addressed by Ref values.
type Arena[T any] []T

// Get returns the record r points at. Absent, malformed and out-of-range
// references fail with a REFERENCE error.
func (a Arena[T]) Get(r Ref[T]) (*T, error) {
	if !r.present {
		return nil, errors.New(errors.ErrCodeReference, "absent reference")
	}
	idx, ok := r.Index()
	if !ok {
		return nil, errors.New(errors.ErrCodeReference, "malformed reference")
	}
	if idx >= len(a) {
		return nil, errors.New(errors.ErrCodeReference, "index %d out of range [0,%d)", idx, len(a))
	}
	return &a[idx], nil
}

// Len returns the number of records.
func (a Arena[T]) Len() int { return len(a) }

// Boxed holds a value that the source format may wrap in {"_0": value}.
type Boxed[T any] struct {
	Value T
}

// UnmarshalJSON accepts both the wrapped and the bare form.
func (b *Boxed[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if inner, ok := wrapped["_0"]; ok && len(wrapped) == 1 {
			return json.Unmarshal(inner, &b.Value)
		}
	}
	return json.Unmarshal(data, &b.Value)
}

// MarshalJSON writes the bare value.
func (b Boxed[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value)
}
