package keel

import "testing"

type behavioralAction struct{ Type string }

func (behavioralAction) Do() {}

type pointerReceiverAction struct{ Type string }

func (*pointerReceiverAction) Do() {}

func TestIsPlainRecord(t *testing.T) {
	plain := []any{
		Action{"type": "x"},
		map[string]any{"type": "x"},
		map[string]int{"n": 1},
		struct{ Type string }{"x"},
		struct{}{},
	}
	for _, v := range plain {
		if !IsPlainRecord(v) {
			t.Errorf("IsPlainRecord(%#v) = false, want true", v)
		}
	}

	notPlain := []any{
		nil,
		42,
		"action",
		3.14,
		[]string{"x"},
		func() {},
		make(chan int),
		&Action{"type": "x"},
		&struct{ Type string }{"x"},
		map[int]any{1: "x"},
		behavioralAction{Type: "x"},
		pointerReceiverAction{Type: "x"},
	}
	for _, v := range notPlain {
		if IsPlainRecord(v) {
			t.Errorf("IsPlainRecord(%#v) = true, want false", v)
		}
	}
}

func TestActionType(t *testing.T) {
	typ, ok := ActionType(Action{"type": "todo/add"})
	if !ok || typ != "todo/add" {
		t.Fatalf("ActionType(Action) = %q, %v", typ, ok)
	}

	typ, ok = ActionType(map[string]string{"type": "ping"})
	if !ok || typ != "ping" {
		t.Fatalf("ActionType(map[string]string) = %q, %v", typ, ok)
	}

	typ, ok = ActionType(struct {
		Type    string
		Payload int
	}{Type: "inc", Payload: 3})
	if !ok || typ != "inc" {
		t.Fatalf("ActionType(struct) = %q, %v", typ, ok)
	}

	for _, v := range []any{
		Action{},
		Action{"type": ""},
		Action{"type": 7},
		map[string]any{"kind": "x"},
		struct{ Kind string }{"x"},
		42,
		nil,
	} {
		if _, ok := ActionType(v); ok {
			t.Errorf("ActionType(%#v) reported a discriminant, want none", v)
		}
	}
}
