package keel

import (
	"reflect"
	"sort"
)

// SubReducer manages one named slice of a composite state.
type SubReducer func(sub any, action any) any

// CombineReducers assembles one reducer from a map of sub-reducers, each
// owning the key it is registered under. Keys are visited in sorted order so
// sub-reducer side effects (there should be none) and panics are at least
// deterministic.
//
// When no sub-state changed, the previous state map is returned as-is so
// subscribers comparing snapshots can short-circuit.
func CombineReducers(reducers map[string]SubReducer) Reducer[map[string]any] {
	keys := make([]string, 0, len(reducers))
	for k := range reducers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return func(state map[string]any, action any) map[string]any {
		next := make(map[string]any, len(keys))
		changed := len(state) != len(keys)
		for _, k := range keys {
			prev := state[k]
			sub := reducers[k](prev, action)
			next[k] = sub
			if !sameValue(prev, sub) {
				changed = true
			}
		}
		if !changed {
			return state
		}
		return next
	}
}

// sameValue reports whether two dynamic values are identical without
// panicking on uncomparable types; those always count as changed.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
