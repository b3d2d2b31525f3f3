// Package keel is a predictable state container for Go applications.
//
// A store holds a single authoritative state value that can only change
// through a pure reducer. Rendering and side-effect layers subscribe to the
// store and re-read state after every committed round.
//
// # Core Types
//
// Store[S] owns the state and the dispatch loop:
//
//	st, err := keel.New(counter)
//	st.Dispatch(keel.Action{"type": "INC"})
//	state, err := st.State()
//
// Reducer[S] computes the next state from the current state and an action:
//
//	func counter(s int, action any) int {
//	    if typ, _ := keel.ActionType(action); typ == "INC" {
//	        return s + 1
//	    }
//	    return s
//	}
//
// # Middleware
//
// Dispatch can be wrapped by an ordered chain of interceptors via an
// enhancer:
//
//	st, err := keel.New(counter,
//	    keel.WithEnhancer(keel.ApplyMiddleware(
//	        middleware.Logger[int](),
//	        middleware.Prometheus[int](),
//	    )),
//	)
//
// # Re-entrancy
//
// A store runs at most one transition-plus-notification round at a time.
// Dispatch, State, Subscribe, and unsubscribe report ErrIllegalStateAccess
// when called while the reducer is running. Subscription changes made by a
// notified callback take effect from the next round onward.
//
// A Store confines all of its state to a single goroutine; it performs no
// internal locking and is not safe for concurrent use.
package keel
