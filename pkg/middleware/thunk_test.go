package middleware

import (
	"errors"
	"testing"

	"github.com/keel-go/keel"
)

func TestThunkMiddleware_ExecutesFunctionActions(t *testing.T) {
	st := newStore(t, Thunk[int]())

	thunk := ThunkFunc[int](func(api keel.MiddlewareAPI[int]) (any, error) {
		if _, err := api.Dispatch(keel.Action{"type": "INC"}); err != nil {
			return nil, err
		}
		return api.Dispatch(keel.Action{"type": "INC"})
	})

	if _, err := st.Dispatch(thunk); err != nil {
		t.Fatalf("Dispatch(thunk) error: %v", err)
	}
	if got := stateOf(t, st); got != 2 {
		t.Fatalf("state = %d, want 2", got)
	}
}

func TestThunkMiddleware_ForwardsPlainActions(t *testing.T) {
	st := newStore(t, Thunk[int]())

	if _, err := st.Dispatch(keel.Action{"type": "INC"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if got := stateOf(t, st); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
}

func TestThunkMiddleware_ThunkErrorsPropagate(t *testing.T) {
	st := newStore(t, Thunk[int]())

	boom := errors.New("thunk failed")
	thunk := ThunkFunc[int](func(api keel.MiddlewareAPI[int]) (any, error) {
		return nil, boom
	})

	if _, err := st.Dispatch(thunk); !errors.Is(err, boom) {
		t.Fatalf("Dispatch(thunk) error = %v, want %v", err, boom)
	}
}

func TestWithoutThunkMiddleware_FunctionActionsAreRejected(t *testing.T) {
	st := newStore(t)

	thunk := ThunkFunc[int](func(api keel.MiddlewareAPI[int]) (any, error) {
		return nil, nil
	})

	if _, err := st.Dispatch(thunk); !errors.Is(err, keel.ErrInvalidAction) {
		t.Fatalf("Dispatch(thunk) error = %v, want ErrInvalidAction", err)
	}
}
