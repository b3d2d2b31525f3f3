package keel

import "fmt"

// Reducer computes the next state from the current state and an action.
// Reducers must be pure: no side effects, and no mutation of the state
// argument. The store replaces its state wholesale with the return value.
type Reducer[S any] func(state S, action any) S

// Unsubscribe revokes a subscription. It is idempotent: calls after the
// first are no-ops. It returns ErrIllegalStateAccess when called while a
// round is in progress.
type Unsubscribe func() error

// Store holds a single authoritative state value.
//
// Dispatch is the only way to change state. Every successful dispatch runs
// one round: the reducer computes the next state, then every listener
// registered before the round started is notified in registration order.
type Store[S any] interface {
	// Dispatch runs one round for the given action and returns the action
	// unchanged, so callers can chain on it. The action must be a plain
	// record with a non-empty type discriminant.
	Dispatch(action any) (any, error)

	// State returns the current state. It fails with ErrIllegalStateAccess
	// while the reducer is running; the reducer already has the state as an
	// argument.
	State() (S, error)

	// Subscribe registers fn to run after every future committed round.
	// The registration is not visible to a round already in flight.
	Subscribe(fn func()) (Unsubscribe, error)

	// ReplaceReducer swaps the active reducer and runs one bootstrap round
	// so the new reducer observes and initializes its state.
	ReplaceReducer(r Reducer[S]) error

	// Observe returns a push-based adapter over the store for reactive
	// consumers.
	Observe() *StateObservable[S]
}

// listenerEntry pairs a callback with the ID used to remove it later.
// Callbacks are not comparable, IDs are.
type listenerEntry struct {
	id uint64
	fn func()
}

// store is the engine behind New. All fields are confined to the caller's
// goroutine; the dispatching flag is the only re-entrancy control.
type store[S any] struct {
	reducer Reducer[S]
	state   S

	// current is the listener sequence committed for the round in flight
	// (or the last round). next accumulates subscribe/unsubscribe calls.
	// The two share a backing array until the first mutation after a
	// commit; ensureForked copies on that first write.
	current []listenerEntry
	next    []listenerEntry
	forked  bool

	dispatching bool
}

// New builds a store around reducer. Options supply an initial state and at
// most one enhancer; with an enhancer present, construction is delegated to
// it entirely.
//
// Construction dispatches one bootstrap round with InitActionType so every
// part of a composite reducer reports its initial state.
func New[S any](reducer Reducer[S], opts ...Option[S]) (Store[S], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.enhancer != nil {
		return cfg.enhancer(newBase[S])(reducer, cfg.innerOptions()...)
	}
	return newBase(reducer, opts...)
}

// newBase is the unenhanced store creator. Enhancers receive it as the
// creator to wrap; it rejects enhancer options to keep the delegation from
// recursing.
func newBase[S any](reducer Reducer[S], opts ...Option[S]) (Store[S], error) {
	if reducer == nil {
		return nil, fmt.Errorf("%w: reducer must not be nil", ErrInvalidArgument)
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.enhancer != nil {
		return nil, fmt.Errorf("%w: enhancer passed to the base store creator", ErrInvalidArgument)
	}

	st := &store[S]{reducer: reducer, state: cfg.initial}
	if _, err := st.Dispatch(Action{"type": initActionType}); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *store[S]) State() (S, error) {
	if s.dispatching {
		var zero S
		return zero, fmt.Errorf("%w: State called while the reducer is running", ErrIllegalStateAccess)
	}
	return s.state, nil
}

func (s *store[S]) Dispatch(action any) (any, error) {
	if _, err := validateAction(action); err != nil {
		return nil, err
	}
	if s.dispatching {
		return nil, fmt.Errorf("%w: nested Dispatch", ErrIllegalStateAccess)
	}

	func() {
		s.dispatching = true
		// Reset unconditionally so a panicking reducer does not leave the
		// store stuck in the dispatching state.
		defer func() { s.dispatching = false }()
		s.state = s.reducer(s.state, action)
	}()

	// Commit: pending becomes the round's snapshot. Listeners run with the
	// flag already cleared, so they may subscribe or dispatch; such calls
	// take effect from the next round onward.
	s.current = s.next
	s.forked = false
	for _, l := range s.current {
		l.fn()
	}
	return action, nil
}

func (s *store[S]) Subscribe(fn func()) (Unsubscribe, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: Subscribe requires a non-nil callback", ErrInvalidArgument)
	}
	if s.dispatching {
		return nil, fmt.Errorf("%w: Subscribe called while the reducer is running", ErrIllegalStateAccess)
	}

	id := nextListenerID()
	s.ensureForked()
	s.next = append(s.next, listenerEntry{id: id, fn: fn})

	subscribed := true
	return func() error {
		if !subscribed {
			return nil
		}
		if s.dispatching {
			return fmt.Errorf("%w: unsubscribe called while the reducer is running", ErrIllegalStateAccess)
		}
		subscribed = false
		s.ensureForked()
		for i, l := range s.next {
			if l.id == id {
				s.next = append(s.next[:i], s.next[i+1:]...)
				break
			}
		}
		return nil
	}, nil
}

func (s *store[S]) ReplaceReducer(r Reducer[S]) error {
	if r == nil {
		return fmt.Errorf("%w: replacement reducer must not be nil", ErrInvalidArgument)
	}
	if s.dispatching {
		return fmt.Errorf("%w: ReplaceReducer called while the reducer is running", ErrIllegalStateAccess)
	}
	s.reducer = r
	_, err := s.Dispatch(Action{"type": replaceActionType})
	return err
}

// ensureForked copies the listener sequence on the first mutation after a
// commit, so a round notifying from the committed snapshot never observes
// the change.
func (s *store[S]) ensureForked() {
	if s.forked {
		return
	}
	s.next = make([]listenerEntry, len(s.current))
	copy(s.next, s.current)
	s.forked = true
}
