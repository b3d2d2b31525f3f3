package keel

import "reflect"

// IsPlainRecord reports whether v is a plain structural record: a
// string-keyed map or a struct value with no methods. Values that carry
// behavior of their own — pointers, funcs, channels, primitives, and any
// type with a method set — are rejected.
//
// Dispatch uses this predicate to keep actions serializable and free of
// identity beyond their fields.
func IsPlainRecord(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	// PointerTo sees pointer-receiver methods too, not just value receivers.
	hasMethods := reflect.PointerTo(t).NumMethod() > 0
	switch t.Kind() {
	case reflect.Map:
		return t.Key().Kind() == reflect.String && !hasMethods
	case reflect.Struct:
		return !hasMethods
	default:
		return false
	}
}
