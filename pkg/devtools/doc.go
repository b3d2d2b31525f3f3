// Package devtools provides a live inspector for keel stores.
//
// A devtools Server wraps a store and exposes an HTTP surface for
// observability during development:
//
//	GET /state    latest committed state snapshot as JSON
//	GET /ws       WebSocket stream of per-round state and action events
//	GET /metrics  Prometheus metrics
//
// Build the server first, wire it into the store through its enhancer, and
// mount it on any mux:
//
//	srv := devtools.New[AppState]()
//	st, err := keel.New(reducer, keel.WithEnhancer(srv.Enhancer()))
//	http.ListenAndServe("localhost:6870", srv)
//
// The enhancer installs an action recorder in the dispatch chain and
// subscribes the server for per-round state snapshots. An existing store can
// be observed snapshot-only via Attach.
//
// The server never hands out a way to mutate the store; it observes through
// the public Subscribe and State operations only. HTTP handlers serve cached
// snapshots, so they never touch the store from another goroutine.
package devtools
