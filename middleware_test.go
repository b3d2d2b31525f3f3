package keel

import (
	"errors"
	"testing"
)

// recordingMiddleware appends name to order around every dispatch.
func recordingMiddleware(name string, order *[]string) Middleware[[]string] {
	return func(api MiddlewareAPI[[]string]) Interceptor {
		return func(next Dispatcher) Dispatcher {
			return func(action any) (any, error) {
				*order = append(*order, name)
				return next(action)
			}
		}
	}
}

func TestApplyMiddlewareCallOrder(t *testing.T) {
	var order []string

	reducer := func(s []string, action any) []string {
		if typ, _ := ActionType(action); typ == "PING" {
			order = append(order, "raw")
		}
		return s
	}

	st, err := New(reducer, WithEnhancer(ApplyMiddleware(
		recordingMiddleware("a", &order),
		recordingMiddleware("b", &order),
	)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	order = order[:0]
	if _, err := st.Dispatch(Action{"type": "PING"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	want := []string{"a", "b", "raw"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMiddlewareAPIDispatchRoutesThroughFullChain(t *testing.T) {
	// expander turns one DOUBLE action into two INC dispatches through the
	// finished chain, so each INC traverses every interceptor again.
	expander := func(api MiddlewareAPI[int]) Interceptor {
		return func(next Dispatcher) Dispatcher {
			return func(action any) (any, error) {
				if typ, _ := ActionType(action); typ == "DOUBLE" {
					if _, err := api.Dispatch(Action{"type": "INC"}); err != nil {
						return nil, err
					}
					return api.Dispatch(Action{"type": "INC"})
				}
				return next(action)
			}
		}
	}

	seen := 0
	counterMW := func(api MiddlewareAPI[int]) Interceptor {
		return func(next Dispatcher) Dispatcher {
			return func(action any) (any, error) {
				seen++
				return next(action)
			}
		}
	}

	st, err := New(counter, WithEnhancer(ApplyMiddleware(counterMW, expander)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	seen = 0
	if _, err := st.Dispatch(Action{"type": "DOUBLE"}); err != nil {
		t.Fatalf("Dispatch(DOUBLE) error: %v", err)
	}

	if got := mustState(t, st); got != 2 {
		t.Fatalf("state = %d, want 2", got)
	}
	// One DOUBLE plus two re-entrant INCs through the top of the chain.
	if seen != 3 {
		t.Fatalf("counterMW saw %d dispatches, want 3", seen)
	}
}

func TestMiddlewareAPIStateReadsInnerStore(t *testing.T) {
	var observed int
	probe := func(api MiddlewareAPI[int]) Interceptor {
		return func(next Dispatcher) Dispatcher {
			return func(action any) (any, error) {
				out, err := next(action)
				if err == nil {
					if s, serr := api.State(); serr == nil {
						observed = s
					}
				}
				return out, err
			}
		}
	}

	st, err := New(counter, WithEnhancer(ApplyMiddleware(probe)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	mustDispatch(t, st, Action{"type": "INC"})
	if observed != 1 {
		t.Fatalf("middleware observed state %d, want 1", observed)
	}
}

func TestDispatchDuringChainConstructionFails(t *testing.T) {
	var constructionErr error
	eager := func(api MiddlewareAPI[int]) Interceptor {
		// Factories run before the final dispatch exists.
		_, constructionErr = api.Dispatch(Action{"type": "INC"})
		return func(next Dispatcher) Dispatcher { return next }
	}

	st, err := New(counter, WithEnhancer(ApplyMiddleware(eager)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !errors.Is(constructionErr, ErrPrematureDispatch) {
		t.Fatalf("construction-time dispatch error = %v, want ErrPrematureDispatch", constructionErr)
	}

	// After construction the same API reference dispatches normally.
	mustDispatch(t, st, Action{"type": "INC"})
	if got := mustState(t, st); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
}

func TestDeferredAPIDispatchSeesFinalChain(t *testing.T) {
	// The API captured at construction time must route through the finished
	// chain once it exists, not through the placeholder.
	var captured MiddlewareAPI[int]
	capture := func(api MiddlewareAPI[int]) Interceptor {
		captured = api
		return func(next Dispatcher) Dispatcher { return next }
	}

	tagged := 0
	tagger := func(api MiddlewareAPI[int]) Interceptor {
		return func(next Dispatcher) Dispatcher {
			return func(action any) (any, error) {
				tagged++
				return next(action)
			}
		}
	}

	st, err := New(counter, WithEnhancer(ApplyMiddleware(tagger, capture)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if _, err := captured.Dispatch(Action{"type": "INC"}); err != nil {
		t.Fatalf("captured API Dispatch error: %v", err)
	}
	if tagged != 1 {
		t.Fatalf("tagger saw %d dispatches, want 1", tagged)
	}
	if got := mustState(t, st); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
}

func TestApplyMiddlewareRejectsNilMiddleware(t *testing.T) {
	_, err := New(counter, WithEnhancer(ApplyMiddleware[int](nil)))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("New with nil middleware error = %v, want ErrInvalidArgument", err)
	}
}

func TestEnhancedStoreDelegatesEverythingButDispatch(t *testing.T) {
	st, err := New(counter,
		WithInitialState(10),
		WithEnhancer(ApplyMiddleware[int]()),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := mustState(t, st); got != 10 {
		t.Fatalf("state = %d, want 10 (initial state must reach the inner creator)", got)
	}

	calls := 0
	unsub, err := st.Subscribe(func() { calls++ })
	if err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	mustDispatch(t, st, Action{"type": "INC"})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if err := unsub(); err != nil {
		t.Fatalf("unsubscribe error: %v", err)
	}

	if err := st.ReplaceReducer(counter); err != nil {
		t.Fatalf("ReplaceReducer() error: %v", err)
	}
	if got := mustState(t, st); got != 11 {
		t.Fatalf("state = %d, want 11", got)
	}
}

func TestCustomEnhancerOwnsConstruction(t *testing.T) {
	built := 0
	enhancer := func(create StoreCreator[int]) StoreCreator[int] {
		return func(reducer Reducer[int], opts ...Option[int]) (Store[int], error) {
			built++
			return create(reducer, opts...)
		}
	}

	st, err := New(counter, WithInitialState(5), WithEnhancer(enhancer))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if built != 1 {
		t.Fatalf("enhancer creator ran %d times, want 1", built)
	}
	if got := mustState(t, st); got != 5 {
		t.Fatalf("state = %d, want 5", got)
	}
}
