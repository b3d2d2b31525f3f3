package keel

import "fmt"

// Dispatcher is the dispatch entry point as middleware sees it.
type Dispatcher func(action any) (any, error)

// Interceptor wraps a "next" dispatcher with augmented behavior.
type Interceptor func(next Dispatcher) Dispatcher

// Middleware builds an interceptor from the restricted store capability it
// is given. The MiddlewareAPI's Dispatch routes through the whole finished
// chain, not just the layers after this one.
type Middleware[S any] func(api MiddlewareAPI[S]) Interceptor

// StoreCreator is the store-construction function shape that enhancers wrap.
type StoreCreator[S any] func(reducer Reducer[S], opts ...Option[S]) (Store[S], error)

// Enhancer transforms a store creator, layering cross-cutting behavior onto
// dispatch.
type Enhancer[S any] func(create StoreCreator[S]) StoreCreator[S]

// MiddlewareAPI is the restricted capability handed to middleware: read
// state, and dispatch through the finished chain.
type MiddlewareAPI[S any] struct {
	state func() (S, error)
	cell  *dispatchCell
}

// State returns the underlying store's current state.
func (api MiddlewareAPI[S]) State() (S, error) { return api.state() }

// Dispatch sends an action through the full interceptor chain. Calling it
// while the chain is still being built fails with ErrPrematureDispatch.
func (api MiddlewareAPI[S]) Dispatch(action any) (any, error) { return api.cell.d(action) }

// dispatchCell is the one-slot indirection middleware closes over. Each
// factory receives the API eagerly, before the final augmented dispatch
// exists; the cell is retargeted exactly once after the chain is composed.
type dispatchCell struct {
	d Dispatcher
}

func prematureDispatch(any) (any, error) {
	return nil, fmt.Errorf("%w: middleware must not dispatch at construction time", ErrPrematureDispatch)
}

// ApplyMiddleware turns an ordered middleware chain into an enhancer. The
// first middleware sees the action first; the last one's "next" is the raw
// store dispatch.
func ApplyMiddleware[S any](mws ...Middleware[S]) Enhancer[S] {
	return func(create StoreCreator[S]) StoreCreator[S] {
		return func(reducer Reducer[S], opts ...Option[S]) (Store[S], error) {
			inner, err := create(reducer, opts...)
			if err != nil {
				return nil, err
			}

			cell := &dispatchCell{d: prematureDispatch}
			api := MiddlewareAPI[S]{state: inner.State, cell: cell}

			chain := make([]func(Dispatcher) Dispatcher, 0, len(mws))
			for _, mw := range mws {
				if mw == nil {
					return nil, fmt.Errorf("%w: nil middleware", ErrInvalidArgument)
				}
				chain = append(chain, mw(api))
			}

			dispatch := Compose(chain...)(inner.Dispatch)
			cell.d = dispatch

			return &enhancedStore[S]{Store: inner, dispatch: dispatch}, nil
		}
	}
}

// enhancedStore is the inner store with its dispatch swapped for the
// augmented chain. Everything else delegates unchanged.
type enhancedStore[S any] struct {
	Store[S]
	dispatch Dispatcher
}

func (e *enhancedStore[S]) Dispatch(action any) (any, error) {
	return e.dispatch(action)
}
