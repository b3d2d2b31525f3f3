package middleware

import "github.com/keel-go/keel"

// ThunkFunc is a function action: instead of describing a state change, it
// receives the store capability and decides what to dispatch itself.
type ThunkFunc[S any] func(api keel.MiddlewareAPI[S]) (any, error)

// Thunk creates middleware that executes ThunkFunc actions instead of
// forwarding them. Thunk must run before any middleware that assumes plain
// record actions; the raw store would reject a function action anyway.
func Thunk[S any]() keel.Middleware[S] {
	return func(api keel.MiddlewareAPI[S]) keel.Interceptor {
		return func(next keel.Dispatcher) keel.Dispatcher {
			return func(action any) (any, error) {
				if fn, ok := action.(ThunkFunc[S]); ok {
					return fn(api)
				}
				return next(action)
			}
		}
	}
}
