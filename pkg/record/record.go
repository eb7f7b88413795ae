// Package record defines the value flowing through tabular cleaning pipelines.
//
// A Record is either null, a number, a text or an ordered mapping of named fields whose values
// are records themselves. Records are immutable: every accessor returns a copy, and every
// transformation returns a new record.
package record

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Kind is the type of value a record holds.
type Kind uint8

const (
	Null Kind = iota
	Number
	Text
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Number:
		return "number"
	case Text:
		return "text"
	case Map:
		return "mapping"
	default:
		return "unknown"
	}
}

// Field is one named value of a mapping.
type Field struct {
	Key   string
	Value Record
}

// Record is an immutable heterogeneous value. The zero value is null.
type Record struct {
	text   string
	fields []Field
	num    float64
	kind   Kind
}

// NewNull returns a null record.
func NewNull() Record { return Record{} }

// NewNumber returns a numeric record.
func NewNumber(f float64) Record { return Record{kind: Number, num: f} }

// NewText returns a text record.
func NewText(s string) Record { return Record{kind: Text, text: s} }

// NewMap returns a mapping holding fields in order. A key given twice keeps its first
// position and its last value.
func NewMap(fields ...Field) Record {
	out := make([]Field, 0, len(fields))
	pos := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := pos[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		pos[f.Key] = len(out)
		out = append(out, f)
	}

	return Record{kind: Map, fields: out}
}

// F is a shortcut to build a Field.
func F(key string, value Record) Field {
	return Field{Key: key, Value: value}
}

// Numbers returns one numeric record per value.
func Numbers(values ...float64) []Record {
	out := make([]Record, len(values))
	for i, v := range values {
		out[i] = NewNumber(v)
	}

	return out
}

// Texts returns one text record per value.
func Texts(values ...string) []Record {
	out := make([]Record, len(values))
	for i, v := range values {
		out[i] = NewText(v)
	}

	return out
}

func (r Record) Kind() Kind   { return r.kind }
func (r Record) IsNull() bool { return r.kind == Null }

// Number returns the numeric value. ok is false when the record is not a number.
func (r Record) Number() (float64, bool) {
	return r.num, r.kind == Number
}

// Text returns the text value. ok is false when the record is not a text.
func (r Record) Text() (string, bool) {
	return r.text, r.kind == Text
}

// Fields returns a copy of the fields of a mapping, nil for any other kind.
func (r Record) Fields() []Field {
	if r.kind != Map {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)

	return out
}

// Keys returns the keys of a mapping in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}

	return keys
}

// Get returns the value of a field of a mapping.
func (r Record) Get(key string) (Record, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return Record{}, false
}

// With returns a copy of the mapping with key set to value. A new key is appended.
func (r Record) With(key string, value Record) Record {
	fields := r.Fields()
	fields = append(fields, F(key, value))

	return NewMap(fields...)
}

// Without returns a copy of the mapping without key.
func (r Record) Without(key string) Record {
	fields := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		if f.Key != key {
			fields = append(fields, f)
		}
	}

	return Record{kind: Map, fields: fields}
}

// MapValues returns a copy of the mapping with fn applied to every value. Other records are
// returned unchanged.
func (r Record) MapValues(fn func(key string, value Record) Record) Record {
	if r.kind != Map {
		return r
	}

	fields := make([]Field, len(r.fields))
	for i, f := range r.fields {
		fields[i] = F(f.Key, fn(f.Key, f.Value))
	}

	return Record{kind: Map, fields: fields}
}

// Equal reports whether both records hold the same value. Mappings are equal when they hold
// the same fields in the same order.
func (r Record) Equal(other Record) bool {
	if r.kind != other.kind {
		return false
	}

	switch r.kind {
	case Null:
		return true
	case Number:
		return r.num == other.num
	case Text:
		return r.text == other.text
	case Map:
		if len(r.fields) != len(other.fields) {
			return false
		}
		for i, f := range r.fields {
			if f.Key != other.fields[i].Key || !f.Value.Equal(other.fields[i].Value) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String returns a human readable representation: numbers without trailing zeros, texts as
// is, mappings as {key: value, ...}.
func (r Record) String() string {
	switch r.kind {
	case Number:
		return strconv.FormatFloat(r.num, 'f', -1, 64)
	case Text:
		return r.text
	case Map:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range r.fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(f.Key)
			buf.WriteString(": ")
			if f.Value.kind == Text {
				buf.WriteString(strconv.Quote(f.Value.text))
			} else {
				buf.WriteString(f.Value.String())
			}
		}
		buf.WriteByte('}')

		return buf.String()
	default:
		return "null"
	}
}

// Parse reads a record from a line of text: an empty line, "null" or "None" is null, a JSON
// object is a mapping, a finite number is a number, anything else is a text.
func Parse(line string) (Record, error) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "", trimmed == "null", trimmed == "None":
		return NewNull(), nil
	case strings.HasPrefix(trimmed, "{"):
		return parseJSON(trimmed)
	}

	if f, ok := ParseNumber(trimmed); ok {
		return NewNumber(f), nil
	}

	return NewText(line), nil
}

// ParseNumber parses a finite number. "NaN", "Inf" and values overflowing a float64 are not
// numbers.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
