package middleware

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/keel-go/keel"
)

func TestOpenTelemetryMiddleware_PassesDispatchThrough(t *testing.T) {
	st := newStore(t, OpenTelemetry[int](
		WithTracerName("keel-test"),
		WithAttributeExtractor(func(action any) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))

	if _, err := st.Dispatch(keel.Action{"type": "INC"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if got := stateOf(t, st); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
}

func TestOpenTelemetryMiddleware_ErrorPropagates(t *testing.T) {
	st := newStore(t, OpenTelemetry[int]())

	if _, err := st.Dispatch(keel.Action{}); err == nil {
		t.Fatal("expected invalid action error to propagate through the span")
	}
}

func TestOpenTelemetryMiddleware_FilterSkipsTracing(t *testing.T) {
	filtered := 0
	st := newStore(t, OpenTelemetry[int](
		WithDispatchFilter(func(action any) bool {
			filtered++
			return false
		}),
	))

	if _, err := st.Dispatch(keel.Action{"type": "INC"}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if filtered != 1 {
		t.Fatalf("filter ran %d times, want 1", filtered)
	}
	if got := stateOf(t, st); got != 1 {
		t.Fatalf("state = %d, want 1 (filtered dispatches still reach the store)", got)
	}
}
