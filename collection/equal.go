package collection

import (
	"reflect"
)

// Equal reports whether two values are the same element. Contains, IndexOf and
// RemoveElement search with the collection's Equal.
type Equal[V any] func(a, b V) bool

// StrictEqual requires the same dynamic type and the same value. Pointers, maps, slices
// and channels are compared by identity; functions are equal only when both are nil.
// Structs and arrays are compared member by member with the same rules. It never panics,
// whatever the dynamic types are.
func StrictEqual[V any](a, b V) bool {
	return strictEqual(any(a), any(b))
}

// DeepEqual is the loose variant, following pointers and comparing contents.
func DeepEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	return strictValueEqual(va, vb)
}

func strictValueEqual(va, vb reflect.Value) bool {
	switch va.Kind() {
	case reflect.Bool:
		return va.Bool() == vb.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return va.Int() == vb.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return va.Uint() == vb.Uint()
	case reflect.Float32, reflect.Float64:
		return va.Float() == vb.Float()
	case reflect.Complex64, reflect.Complex128:
		return va.Complex() == vb.Complex()
	case reflect.String:
		return va.String() == vb.String()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		ea, eb := va.Elem(), vb.Elem()
		if ea.Type() != eb.Type() {
			return false
		}
		return strictValueEqual(ea, eb)
	case reflect.Array:
		for i := 0; i < va.Len(); i++ {
			if !strictValueEqual(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < va.NumField(); i++ {
			if !strictValueEqual(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}
