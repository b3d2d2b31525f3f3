package middleware

import (
	"testing"

	"github.com/keel-go/keel"
)

// counter is the reducer used across the middleware tests.
func counter(s int, action any) int {
	if typ, _ := keel.ActionType(action); typ == "INC" {
		return s + 1
	}
	return s
}

// newStore builds a counter store wrapped with the given middleware.
func newStore(t *testing.T, mws ...keel.Middleware[int]) keel.Store[int] {
	t.Helper()
	st, err := keel.New(counter, keel.WithEnhancer(keel.ApplyMiddleware(mws...)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return st
}

func stateOf(t *testing.T, st keel.Store[int]) int {
	t.Helper()
	state, err := st.State()
	if err != nil {
		t.Fatalf("State() error: %v", err)
	}
	return state
}
