package devtools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keel-go/keel"
)

// Config configures the inspector server.
type Config struct {
	// Gatherer serves GET /metrics (default: prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer
}

// Option configures the inspector server.
type Option func(*Config)

// WithGatherer sets the Prometheus gatherer behind GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// Server observes one store and streams its rounds to inspector clients.
// It implements http.Handler.
//
// Build the server first, then hand its Enhancer to the store constructor:
//
//	srv := devtools.New[AppState]()
//	st, err := keel.New(reducer, keel.WithEnhancer(srv.Enhancer()))
//
// An already-built store can be observed without dispatch instrumentation
// via Attach.
type Server[S any] struct {
	store keel.Store[S]
	hub   *hub
	mux   chi.Router
	seq   atomic.Uint64

	// snapshot is the latest marshaled state, written from the store's
	// goroutine in the subscription callback and served by HTTP handlers.
	snapshotMu sync.RWMutex
	snapshot   json.RawMessage

	unsubscribe keel.Unsubscribe
}

// New builds a detached inspector server. It serves "null" state until a
// store is attached.
func New[S any](opts ...Option) *Server[S] {
	cfg := Config{Gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server[S]{
		hub:      newHub(),
		snapshot: json.RawMessage("null"),
	}

	mux := chi.NewRouter()
	mux.Get("/state", s.handleState)
	mux.Get("/ws", s.hub.handleWebSocket)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	s.mux = mux

	return s
}

// Enhancer wires the server into a store under construction: the dispatch
// chain gains the action recorder, and the server subscribes for state
// snapshots. Compose with other enhancers via keel.Compose if needed.
func (s *Server[S]) Enhancer() keel.Enhancer[S] {
	record := keel.ApplyMiddleware(s.Middleware())
	return func(create keel.StoreCreator[S]) keel.StoreCreator[S] {
		inner := record(create)
		return func(reducer keel.Reducer[S], opts ...keel.Option[S]) (keel.Store[S], error) {
			st, err := inner(reducer, opts...)
			if err != nil {
				return nil, err
			}
			if err := s.Attach(st); err != nil {
				return nil, err
			}
			return st, nil
		}
	}
}

// Attach subscribes the server to st for state snapshots. Use Enhancer
// instead when the store is still being constructed; Attach alone does not
// stream action events.
func (s *Server[S]) Attach(st keel.Store[S]) error {
	if s.store != nil {
		return fmt.Errorf("devtools: server already attached to a store")
	}

	state, err := st.State()
	if err != nil {
		return fmt.Errorf("devtools: reading initial state: %w", err)
	}

	s.store = st
	s.snapshotMu.Lock()
	s.snapshot = marshalState(state)
	s.snapshotMu.Unlock()

	unsub, err := st.Subscribe(s.onRound)
	if err != nil {
		return fmt.Errorf("devtools: subscribing to store: %w", err)
	}
	s.unsubscribe = unsub
	return nil
}

// marshalState renders state as JSON, falling back to the error text so a
// bad snapshot never kills the stream.
func marshalState(state any) json.RawMessage {
	data, err := json.Marshal(state)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return data
}

// onRound runs after every committed round: refresh the snapshot and stream
// it to connected clients.
func (s *Server[S]) onRound() {
	state, err := s.store.State()
	if err != nil {
		return
	}
	data := marshalState(state)

	s.snapshotMu.Lock()
	s.snapshot = data
	s.snapshotMu.Unlock()

	s.hub.broadcast(Event{
		Type:  EventTypeState,
		Seq:   s.seq.Add(1),
		State: data,
	})
}

// Middleware returns store middleware that streams one action event per
// dispatch, with duration and outcome. Enhancer installs it automatically;
// it is exported for chains assembled by hand.
func (s *Server[S]) Middleware() keel.Middleware[S] {
	return func(api keel.MiddlewareAPI[S]) keel.Interceptor {
		return func(next keel.Dispatcher) keel.Dispatcher {
			return func(action any) (any, error) {
				typ, _ := keel.ActionType(action)
				start := time.Now()

				out, err := next(action)

				event := Event{
					Type:       EventTypeAction,
					Seq:        s.seq.Add(1),
					Action:     typ,
					DurationMS: float64(time.Since(start).Microseconds()) / 1000,
				}
				if err != nil {
					event.Error = err.Error()
				}
				s.hub.broadcast(event)
				return out, err
			}
		}
	}
}

func (s *Server[S]) handleState(w http.ResponseWriter, r *http.Request) {
	s.snapshotMu.RLock()
	data := s.snapshot
	s.snapshotMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// ServeHTTP implements http.Handler.
func (s *Server[S]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ClientCount returns the number of connected inspector clients.
func (s *Server[S]) ClientCount() int {
	return s.hub.clientCount()
}

// Close detaches from the store and drops all inspector connections.
func (s *Server[S]) Close() error {
	var err error
	if s.unsubscribe != nil {
		err = s.unsubscribe()
	}
	s.hub.close()
	return err
}
