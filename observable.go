package keel

import "fmt"

// StateObservable adapts a store for push-based reactive consumers. It is
// built only on the store's public Subscribe and State operations.
type StateObservable[S any] struct {
	store Store[S]
}

func (s *store[S]) Observe() *StateObservable[S] {
	return &StateObservable[S]{store: s}
}

// Subscribe pushes the current state to observer immediately, then again
// after every future committed round. The returned Unsubscribe stops the
// pushes and is idempotent.
func (o *StateObservable[S]) Subscribe(observer func(S)) (Unsubscribe, error) {
	if observer == nil {
		return nil, fmt.Errorf("%w: observer must not be nil", ErrInvalidArgument)
	}
	push := func() {
		if state, err := o.store.State(); err == nil {
			observer(state)
		}
	}
	unsub, err := o.store.Subscribe(push)
	if err != nil {
		return nil, err
	}
	push()
	return unsub, nil
}
