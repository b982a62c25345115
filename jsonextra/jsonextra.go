// Package jsonextra stores nested values in a JSON text column. Dates and times are kept
// as "datetime#" followed by the ISO 8601 form, so they come back as time.Time.
package jsonextra

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/merrs"
)

const (
	TypeName       = "json_extra"
	DatetimePrefix = "datetime#"
	DatetimeFormat = "2006-01-02T15:04:05-0700"
)

type anyCollection interface {
	Any() *collection.Collection[any]
}

// Encode returns nil for nil and for empty maps, slices and collections, the JSON text of
// v otherwise. HTML characters and non ASCII text are written as is.
func Encode(v any) ([]byte, error) {
	if isEmpty(v) {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(encodeExtra(v)); err != nil {
		return nil, merrs.ErrJson.NewCause(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if c, ok := v.(interface{ IsEmpty() bool }); ok {
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Pointer && rv.IsNil() || c.IsEmpty()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func encodeTime(t time.Time) string {
	return DatetimePrefix + t.Format(DatetimeFormat)
}

// encodeFloat keeps a zero fraction ("1.0"), so whole floats still decode as floats.
func encodeFloat(f float64, bits int) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".eE") {
		return json.Number(s)
	}
	return json.Number(s + ".0")
}

func encodeExtra(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case time.Time:
		return encodeTime(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return encodeTime(*v)
	case *collection.Collection[any]:
		if v == nil {
			return nil
		}
		out := collection.New[any]()
		for k, sv := range v.All() {
			out.Set(k, encodeExtra(sv))
		}
		return out
	case anyCollection:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return encodeExtra(v.Any())
	case float64:
		return encodeFloat(v, 64)
	case float32:
		return encodeFloat(float64(v), 32)
	case json.Marshaler:
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = encodeExtra(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = encodeExtra(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

// Decode reads JSON text written by Encode. Empty text and null give an empty collection.
// Objects become ordered collections, arrays []any, and "datetime#" strings time.Time.
func Decode(data []byte) (*collection.Collection[any], error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return collection.New[any](), nil
	}
	v, err := collection.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	switch dv := v.(type) {
	case nil:
		return collection.New[any](), nil
	case *collection.Collection[any]:
		if _, err := decodeExtra(dv); err != nil {
			return nil, err
		}
		return dv, nil
	case []any:
		vs, err := decodeExtra(dv)
		if err != nil {
			return nil, err
		}
		return collection.FromSlice(vs.([]any)), nil
	}
	return nil, merrs.ErrJson.New("json_extra value should be an object or an array", merrs.SSMap{"value": cast.ToString(v)})
}

func decodeTime(s string) (time.Time, error) {
	if t, err := time.Parse(DatetimeFormat, s); err == nil {
		return t, nil
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, merrs.ErrFormat.New(err, merrs.SSMap{"datetime": s})
	}
	return t, nil
}

func decodeExtra(v any) (any, error) {
	switch v := v.(type) {
	case string:
		if strings.HasPrefix(v, DatetimePrefix) {
			return decodeTime(v[len(DatetimePrefix):])
		}
		return v, nil
	case *collection.Collection[any]:
		for _, k := range v.Keys() {
			dv, err := decodeExtra(v.GetValue(k))
			if err != nil {
				return nil, err
			}
			v.Set(k, dv)
		}
		return v, nil
	case []any:
		for i, sv := range v {
			dv, err := decodeExtra(sv)
			if err != nil {
				return nil, err
			}
			v[i] = dv
		}
		return v, nil
	}
	return v, nil
}

// Extra is a json_extra column value, usable with database/sql and sqlx.
type Extra struct {
	Data *collection.Collection[any]
}

func NewExtra(entries ...collection.Entry[any]) Extra {
	return Extra{Data: collection.New(entries...)}
}

func (e Extra) Value() (driver.Value, error) {
	bs, err := Encode(e.Data)
	if err != nil || bs == nil {
		return nil, err
	}
	return string(bs), nil
}

func (e *Extra) Scan(src any) error {
	var data []byte
	switch src := src.(type) {
	case nil:
	case []byte:
		data = src
	case string:
		data = []byte(src)
	default:
		return merrs.ErrJson.New("unsupported json_extra column type", merrs.SSMap{"type": reflect.TypeOf(src).String()})
	}
	c, err := Decode(data)
	if err != nil {
		return err
	}
	e.Data = c
	return nil
}

func (e Extra) MarshalJSON() ([]byte, error) {
	bs, err := Encode(e.Data)
	if err != nil || bs == nil {
		return []byte("null"), err
	}
	return bs, nil
}

func (e *Extra) UnmarshalJSON(bs []byte) error {
	c, err := Decode(bs)
	if err != nil {
		return err
	}
	e.Data = c
	return nil
}
