package keel

import "errors"

// ErrInvalidArgument is returned when a required function argument is nil or
// otherwise not usable, for example a nil reducer passed to New or a nil
// callback passed to Subscribe.
var ErrInvalidArgument = errors.New("keel: invalid argument")

// ErrInvalidAction is returned by Dispatch when the action is not a plain
// record or is missing its type discriminant. See IsPlainRecord for what
// counts as a plain record.
var ErrInvalidAction = errors.New("keel: invalid action")

// ErrIllegalStateAccess is returned when Dispatch, State, Subscribe, or an
// unsubscribe function is called while a round is already in progress. The
// reducer receives the current state as an argument; re-reading or mutating
// the store from inside it is always a bug in the caller.
var ErrIllegalStateAccess = errors.New("keel: store accessed while dispatching")

// ErrPrematureDispatch is returned when a middleware factory invokes dispatch
// while the interceptor chain is still being built. Factories must only
// return interceptors to be called later, never dispatch synchronously at
// construction time.
var ErrPrematureDispatch = errors.New("keel: dispatch called while constructing middleware chain")
