package record

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var ErrInvalidJSON = errors.New("invalid JSON record")

// parseJSON decodes a JSON value keeping the order of object keys. Booleans become the numbers
// 1 and 0 and arrays become mappings keyed by position.
func parseJSON(s string) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	rec, err := decodeValue(dec)
	if err != nil {
		return Record{}, errors.Wrap(err, s)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Record{}, errors.Wrapf(ErrInvalidJSON, "trailing data in %s", s)
	}

	return rec, nil
}

func decodeValue(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Record{}, errors.Wrap(ErrInvalidJSON, err.Error())
	}

	switch v := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		if v {
			return NewNumber(1), nil
		}

		return NewNumber(0), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Record{}, errors.Wrap(ErrInvalidJSON, err.Error())
		}

		return NewNumber(f), nil
	case string:
		return NewText(v), nil
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}

	return Record{}, errors.Wrapf(ErrInvalidJSON, "unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Record, error) {
	fields := []Field{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, errors.Wrap(ErrInvalidJSON, err.Error())
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, errors.Wrapf(ErrInvalidJSON, "unexpected key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return Record{}, err
		}
		fields = append(fields, F(key, value))
	}

	if _, err := dec.Token(); err != nil {
		return Record{}, errors.Wrap(ErrInvalidJSON, err.Error())
	}

	return NewMap(fields...), nil
}

func decodeArray(dec *json.Decoder) (Record, error) {
	fields := []Field{}
	for i := 0; dec.More(); i++ {
		value, err := decodeValue(dec)
		if err != nil {
			return Record{}, err
		}
		fields = append(fields, F(strconv.Itoa(i), value))
	}

	if _, err := dec.Token(); err != nil {
		return Record{}, errors.Wrap(ErrInvalidJSON, err.Error())
	}

	return NewMap(fields...), nil
}

// MarshalJSON encodes the record as JSON, keeping the order of mapping keys.
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case Number:
		return json.Marshal(r.num)
	case Text:
		return json.Marshal(r.text)
	case Map:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range r.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			value, err := f.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
		buf.WriteByte('}')

		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}
