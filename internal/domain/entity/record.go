package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// IDField is the name of the system-assigned identity field.
const IDField = "id"

// Record is one row of a table: an ordered mapping from field name to a
// scalar value. Values are always string, int64, float64 or nil.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from alternating field/value pairs, in order.
// A trailing field without a value is ignored.
func NewRecord(keysAndValues ...any) Record {
	var r Record
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		field, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		r.Set(field, keysAndValues[i+1])
	}
	return r
}

// Set writes a field. New fields are appended after existing ones.
func (r *Record) Set(field string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[field]; !exists {
		r.keys = append(r.keys, field)
	}
	r.values[field] = Normalize(value)
}

// Get returns the value of a field and whether the field exists.
func (r Record) Get(field string) (any, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Delete removes a field if present.
func (r *Record) Delete(field string) {
	if _, ok := r.values[field]; !ok {
		return
	}
	delete(r.values, field)
	for i, k := range r.keys {
		if k == field {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Fields returns the field names in order.
func (r Record) Fields() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// ID returns the record identity, or false when the record has none.
func (r Record) ID() (int64, bool) {
	v, ok := r.values[IDField].(int64)
	return v, ok
}

// Clone returns a deep copy; values are scalars so copying the map suffices.
func (r Record) Clone() Record {
	c := Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the record as a JSON object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping the document's field
// order. Integral numbers become int64, other numbers float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, _ := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		switch v := raw.(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				r.Set(field, i)
			} else if f, err := v.Float64(); err == nil {
				r.Set(field, f)
			} else {
				return fmt.Errorf("field %q: invalid number %s", field, v)
			}
		case string, nil, bool:
			r.Set(field, v)
		default:
			return fmt.Errorf("field %q: value must be a scalar", field)
		}
	}
	_, err = dec.Token()
	return err
}

// Normalize folds Go numeric kinds onto int64/float64 and dereferences
// scalar pointers, so equality between values does not depend on how the
// caller typed them.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n)
		}
		return float64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return float64(n)
	case float32:
		return float64(n)
	case bool:
		if n {
			return int64(1)
		}
		return int64(0)
	case *string:
		if n == nil {
			return nil
		}
		return *n
	case *int64:
		if n == nil {
			return nil
		}
		return *n
	case *float64:
		if n == nil {
			return nil
		}
		return *n
	default:
		return v
	}
}

// Criteria describes a record query.
type Criteria struct {
	// Filters are exact-match predicates joined with AND. Nil values are ignored.
	Filters map[string]any
	// Fields is the projection. Empty means all fields.
	Fields []string
	// Page is 1-based.
	Page int
	Size int
}

// PagedResult is one page of a query.
type PagedResult struct {
	Data          []Record `json:"data"`
	Total         int      `json:"total"`
	Page          int      `json:"page"`
	Size          int      `json:"size"`
	NextPageToken *string  `json:"next_page_token,omitempty"`
}
