package keel

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Action is the literal-friendly shape for dispatched actions:
//
//	st.Dispatch(keel.Action{"type": "todo/add", "text": "write docs"})
//
// Any plain record with a type discriminant is accepted by Dispatch; Action
// is just the most convenient one.
type Action map[string]any

// Reserved action types used for bootstrap rounds. The random suffix keeps
// them out of any consumer-defined discriminant domain, so a reducer that
// switches on action types can never collide with them by accident.
var (
	initActionType    = "@@keel/INIT/" + uuid.NewString()
	replaceActionType = "@@keel/REPLACE/" + uuid.NewString()
)

// InitActionType returns the reserved action type dispatched once at store
// construction. Reducers must return their initial state for it.
func InitActionType() string { return initActionType }

// ReplaceActionType returns the reserved action type dispatched after
// ReplaceReducer, so the new reducer observes and initializes its state.
func ReplaceActionType() string { return replaceActionType }

// ActionType extracts the type discriminant from an action. It reads the
// "type" key of string-keyed maps and the exported Type field of structs.
// The second return is false when no non-empty string discriminant exists.
func ActionType(action any) (string, bool) {
	switch a := action.(type) {
	case Action:
		t, ok := a["type"].(string)
		return t, ok && t != ""
	case map[string]any:
		t, ok := a["type"].(string)
		return t, ok && t != ""
	}

	rv := reflect.ValueOf(action)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		key := reflect.ValueOf("type").Convert(rv.Type().Key())
		v := rv.MapIndex(key)
		for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
			v = v.Elem()
		}
		if v.IsValid() && v.Kind() == reflect.String && v.String() != "" {
			return v.String(), true
		}
	case reflect.Struct:
		v := rv.FieldByName("Type")
		if v.IsValid() && v.Kind() == reflect.String && v.String() != "" {
			return v.String(), true
		}
	}
	return "", false
}

// validateAction enforces the Dispatch action contract: a plain record
// carrying a non-empty type discriminant.
func validateAction(action any) (string, error) {
	if !IsPlainRecord(action) {
		return "", fmt.Errorf("%w: actions must be plain records, got %T", ErrInvalidAction, action)
	}
	typ, ok := ActionType(action)
	if !ok {
		return "", fmt.Errorf("%w: action has no type discriminant", ErrInvalidAction)
	}
	return typ, nil
}
