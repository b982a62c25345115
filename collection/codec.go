package collection

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/wecisecode/datastructures/merrs"
)

// MarshalJSON writes the collection as a JSON object in collection order.
func (m *Collection[V]) MarshalJSON() ([]byte, error) {
	rbs := []byte{'{'}
	for e := m.entries.Front(); e != nil; e = e.Next() {
		en := e.Value.(*entry[V])
		if len(rbs) > 1 {
			rbs = append(rbs, ',')
		}
		kbs, err := marshalJSON(en.key.String())
		if err != nil {
			return nil, err
		}
		vbs, err := marshalJSON(en.value)
		if err != nil {
			return nil, err
		}
		rbs = append(rbs, kbs...)
		rbs = append(rbs, ':')
		rbs = append(rbs, vbs...)
	}
	return append(rbs, '}'), nil
}

// marshalJSON leaves HTML escaping to the outermost encoder.
func marshalJSON(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON replaces the contents with a JSON object, in document order, or with a
// JSON array under sequential keys. Object keys go through KeyOf. null empties the
// collection.
func (m *Collection[V]) UnmarshalJSON(bs []byte) error {
	dec := json.NewDecoder(bytes.NewReader(bs))
	tok, err := dec.Token()
	if err != nil {
		return merrs.ErrJson.NewCause(err)
	}
	entries := []Entry[V]{}
	switch tok {
	case nil:
	case json.Delim('{'):
		for dec.More() {
			ktok, err := dec.Token()
			if err != nil {
				return merrs.ErrJson.NewCause(err)
			}
			var v V
			if err := dec.Decode(&v); err != nil {
				return merrs.ErrJson.NewCause(err)
			}
			entries = append(entries, Entry[V]{KeyOf(ktok), v})
		}
	case json.Delim('['):
		for i := int64(0); dec.More(); i++ {
			var v V
			if err := dec.Decode(&v); err != nil {
				return merrs.ErrJson.NewCause(err)
			}
			entries = append(entries, Entry[V]{IntKey(i), v})
		}
	default:
		return merrs.ErrJson.New("expect JSON object or array", merrs.SSMap{"token": cast.ToString(tok)})
	}
	m.ReplaceAll(entries)
	return nil
}

// DecodeJSON parses a JSON document keeping the order of object members. Objects become
// *Collection[any], arrays []any, numbers int64 when they are integral and float64
// otherwise.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, merrs.ErrJson.NewCause(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, merrs.ErrJson.New("expect EOF")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			c := New[any]()
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				c.set(KeyOf(ktok), v)
			}
			_, err = dec.Token()
			return c, err
		case '[':
			vs := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				vs = append(vs, v)
			}
			_, err = dec.Token()
			return vs, err
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return t.Float64()
	}
	return tok, nil
}

// EncodeMsgpack writes the collection as an array of [key, value] pairs, integer keys
// as msgpack integers, so order and key kinds survive a round trip.
func (m *Collection[V]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(m.entries.Len()); err != nil {
		return err
	}
	for e := m.entries.Front(); e != nil; e = e.Next() {
		en := e.Value.(*entry[V])
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		var err error
		if n, ok := en.key.Int(); ok {
			err = enc.EncodeInt(n)
		} else {
			err = enc.EncodeString(en.key.String())
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(en.value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Collection[V]) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	entries := make([]Entry[V], 0, max(n, 0))
	for i := 0; i < n; i++ {
		l, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if l != 2 {
			return merrs.ErrFormat.New("msgpack collection entry should be a [key, value] pair", merrs.SSMap{"length": cast.ToString(l)})
		}
		k, err := dec.DecodeInterface()
		if err != nil {
			return err
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		entries = append(entries, Entry[V]{KeyOf(k), v})
	}
	m.ReplaceAll(entries)
	return nil
}
