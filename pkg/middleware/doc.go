// Package middleware provides production-grade middleware for keel stores.
//
// This package includes:
//   - Structured logging middleware (log/slog)
//   - Prometheus metrics middleware
//   - OpenTelemetry tracing middleware
//   - Thunk middleware for function actions
//
// Middleware is installed through the store enhancer:
//
//	st, err := keel.New(reducer,
//	    keel.WithEnhancer(keel.ApplyMiddleware(
//	        middleware.Logger[AppState](),
//	        middleware.Prometheus[AppState](),
//	        middleware.OpenTelemetry[AppState](),
//	    )),
//	)
//
// Interceptors run in the order given; the last one's "next" is the raw
// store dispatch.
//
// # Prometheus Metrics
//
// The Prometheus middleware records a counter and a duration histogram per
// dispatched action type:
//
//	middleware.Prometheus[AppState](
//	    middleware.WithNamespace("myapp"),
//	    middleware.WithRegistry(registry),
//	)
//
// # OpenTelemetry
//
// The OpenTelemetry middleware opens one span per dispatch and records the
// action type and outcome:
//
//	middleware.OpenTelemetry[AppState](
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithDispatchFilter(func(action any) bool {
//	        typ, _ := keel.ActionType(action)
//	        return typ != "tick"
//	    }),
//	)
package middleware
