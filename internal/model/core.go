package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// GlobalMeanKey is the single key of a global_mean result.
const GlobalMeanKey = "global_mean"

// Entry is one key of an aggregation result. Exactly one of Value or
// Nested is meaningful; Value is NaN when the group had no data.
type Entry struct {
	Key    string
	Value  float64
	Nested *Result
}

// Result is an insertion-ordered mapping from key to value. Ordering is
// observable: states_mean and the rankings serialize in rank order.
type Result struct {
	entries []Entry
	index   map[string]int
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{index: make(map[string]int)}
}

// Set stores a scalar value, replacing an existing key in place.
func (r *Result) Set(key string, value float64) *Result {
	r.put(Entry{Key: key, Value: value})
	return r
}

// SetNested stores a nested mapping under key.
func (r *Result) SetNested(key string, nested *Result) *Result {
	r.put(Entry{Key: key, Nested: nested})
	return r
}

func (r *Result) put(e Entry) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[e.Key]; ok {
		r.entries[i] = e
		return
	}
	r.index[e.Key] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Len returns the number of top-level keys.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns a copy of the entries in order.
func (r *Result) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Keys returns the top-level keys in order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// Value returns the scalar stored under key.
func (r *Result) Value(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	i, ok := r.index[key]
	if !ok || r.entries[i].Nested != nil {
		return 0, false
	}
	return r.entries[i].Value, true
}

// Nested returns the mapping stored under key.
func (r *Result) Nested(key string) (*Result, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[key]
	if !ok || r.entries[i].Nested == nil {
		return nil, false
	}
	return r.entries[i].Nested, true
}

// Head returns a new result holding the first n entries.
func (r *Result) Head(n int) *Result {
	out := NewResult()
	for i, e := range r.Entries() {
		if i >= n {
			break
		}
		out.put(e)
	}
	return out
}

// MarshalJSON writes the entries as a JSON object in insertion order.
// Missing values (NaN) are written as null.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		switch {
		case e.Nested != nil:
			nested, err := e.Nested.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(nested)
		case math.IsNaN(e.Value) || math.IsInf(e.Value, 0):
			buf.WriteString("null")
		default:
			val, err := json.Marshal(e.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object back into an ordered result.
func (r *Result) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = *NewResult()
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("result: expected object, got %v", tok)
	}

	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// decodeObject consumes object members up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*Result, error) {
	res := NewResult()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("result: expected key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case json.Delim:
			if v != '{' {
				return nil, fmt.Errorf("result: unexpected %v under key %q", v, key)
			}
			nested, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			res.SetNested(key, nested)
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("result: key %q: %w", key, err)
			}
			res.Set(key, f)
		case nil:
			res.Set(key, math.NaN())
		default:
			return nil, fmt.Errorf("result: unsupported value %v under key %q", v, key)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return res, nil
}

// TupleKey renders group keys the way the survey service always has:
// ('a', 'b', 'c').
func TupleKey(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
