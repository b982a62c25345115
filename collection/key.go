package collection

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// Key addresses an entry of a Collection. A key is either an integer key or a
// string key, the two kinds never compare equal to each other.
type Key struct {
	s     string
	n     int64
	isstr bool
}

func IntKey(n int64) Key {
	return Key{n: n}
}

// StrKey returns the key for s. A canonical decimal int64 string gives the integer key,
// so StrKey("5") and IntKey(5) address the same entry.
func StrKey(s string) Key {
	return keyOfString(s)
}

// KeyOf converts any value into a Key.
//
// Go integer kinds, bools and floats (truncated) give integer keys. A string holding the
// canonical decimal form of an int64 ("0", "-7", "42" but not "007", "+1" or " 1") also
// gives an integer key, so keys read back from JSON or configuration text keep their kind.
// Everything else is turned into a string key.
func KeyOf(v any) Key {
	switch k := v.(type) {
	case Key:
		return k
	case nil:
		return Key{isstr: true}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return IntKey(cast.ToInt64(k))
	case float32, float64:
		return IntKey(cast.ToInt64(k))
	case bool:
		if k {
			return IntKey(1)
		}
		return IntKey(0)
	case string:
		return keyOfString(k)
	case []byte:
		return keyOfString(string(k))
	}
	s, e := cast.ToStringE(v)
	if e != nil {
		s = fmt.Sprint(v)
	}
	return keyOfString(s)
}

func keyOfString(s string) Key {
	if n, e := strconv.ParseInt(s, 10, 64); e == nil && strconv.FormatInt(n, 10) == s {
		return IntKey(n)
	}
	return Key{s: s, isstr: true}
}

// Int returns the integer value of an integer key.
func (k Key) Int() (int64, bool) {
	if k.isstr {
		return 0, false
	}
	return k.n, true
}

func (k Key) IsInt() bool {
	return !k.isstr
}

func (k Key) String() string {
	if k.isstr {
		return k.s
	}
	return strconv.FormatInt(k.n, 10)
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	*k = keyOfString(string(text))
	return nil
}

// Keys converts values into keys with KeyOf.
func Keys(vs ...any) []Key {
	ks := make([]Key, len(vs))
	for i, v := range vs {
		ks[i] = KeyOf(v)
	}
	return ks
}
