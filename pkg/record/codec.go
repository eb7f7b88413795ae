package record

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomEncoder = Record{}
	_ msgpack.CustomDecoder = (*Record)(nil)
)

// EncodeMsgpack encodes a record as a msgpack nil, float64, string or map. Map keys keep
// their order.
func (r Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch r.kind {
	case Number:
		num := r.num
		if num == 0 {
			num = 0 // -0 and 0 encode the same way
		}

		return enc.EncodeFloat64(num)
	case Text:
		return enc.EncodeString(r.text)
	case Map:
		err := enc.EncodeMapLen(len(r.fields))
		if err != nil {
			return err
		}
		for _, f := range r.fields {
			err = enc.EncodeString(f.Key)
			if err != nil {
				return err
			}
			err = f.Value.EncodeMsgpack(enc)
			if err != nil {
				return err
			}
		}

		return nil
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack decodes a record encoded by EncodeMsgpack. Any msgpack number decodes as a
// number.
func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}

	switch {
	case code == msgpcode.Nil:
		*r = NewNull()

		return dec.DecodeNil()
	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*r = NewText(s)

		return nil
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return err
		}
		fields := make([]Field, 0, max(n, 0))
		for range n {
			key, err := dec.DecodeString()
			if err != nil {
				return errors.Wrap(err, "unable to decode mapping key")
			}
			var value Record
			err = value.DecodeMsgpack(dec)
			if err != nil {
				return err
			}
			fields = append(fields, F(key, value))
		}
		*r = NewMap(fields...)

		return nil
	default:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return errors.Wrap(err, "unable to decode record")
		}
		*r = NewNumber(f)

		return nil
	}
}

// Encode returns the msgpack encoding of the record.
func (r Record) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode record")
	}

	return b, nil
}

// Decode decodes a record from its msgpack encoding.
func Decode(b []byte) (Record, error) {
	var r Record

	err := msgpack.Unmarshal(b, &r)
	if err != nil {
		return Record{}, errors.Wrap(err, "unable to decode record")
	}

	return r, nil
}

// Key returns a canonical representation of the record, equal for equal records. It is meant
// to be used as a map key, for instance to deduplicate records.
func (r Record) Key() string {
	b, err := r.Encode()
	if err != nil {
		// a record only holds encodable values
		return r.kind.String() + ":" + r.String()
	}

	return string(b)
}
