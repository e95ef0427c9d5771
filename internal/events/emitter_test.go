package events

import (
	"reflect"
	"testing"
)

func TestTriggerOrder(t *testing.T) {
	var e Emitter
	var calls []string

	e.On("tick", func(args ...any) { calls = append(calls, "first") })
	e.On("tick", func(args ...any) { calls = append(calls, "second") })

	e.Trigger("tick")

	want := []string{"first", "second"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}

	e.Trigger("tick")
	if len(calls) != 4 {
		t.Errorf("expected each handler once per trigger, got %d calls", len(calls))
	}
}

func TestTriggerWithoutListeners(t *testing.T) {
	var e Emitter
	e.Trigger("nothing", 1, 2, 3)
	if e.ListenerCount("nothing") != 0 {
		t.Error("expected no listeners")
	}
}

func TestTriggerPassesArguments(t *testing.T) {
	var e Emitter
	var got []any
	e.On("progress", func(args ...any) { got = args })

	e.Trigger("progress", 1, 3)

	if !reflect.DeepEqual(got, []any{1, 3}) {
		t.Errorf("args = %v, want [1 3]", got)
	}
}

func TestNoDeduplication(t *testing.T) {
	var e Emitter
	count := 0
	fn := func(args ...any) { count++ }
	e.On("resize", fn)
	e.On("resize", fn)

	e.Trigger("resize")

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestOff(t *testing.T) {
	var e Emitter
	var calls []string
	first := e.On("tick", func(args ...any) { calls = append(calls, "first") })
	e.On("tick", func(args ...any) { calls = append(calls, "second") })

	if !e.Off("tick", first) {
		t.Fatal("Off returned false for a registered listener")
	}
	if e.Off("tick", first) {
		t.Error("Off returned true for an already removed listener")
	}

	e.Trigger("tick")
	if !reflect.DeepEqual(calls, []string{"second"}) {
		t.Errorf("calls = %v, want [second]", calls)
	}
}

func TestOnce(t *testing.T) {
	var e Emitter
	count := 0
	e.Once("ready", func(args ...any) { count++ })

	e.Trigger("ready")
	e.Trigger("ready")

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if e.ListenerCount("ready") != 0 {
		t.Errorf("expected once listener removed, have %d", e.ListenerCount("ready"))
	}
}

func TestSubscribeDuringTrigger(t *testing.T) {
	var e Emitter
	late := 0
	e.On("tick", func(args ...any) {
		e.On("tick", func(args ...any) { late++ })
	})

	e.Trigger("tick")
	if late != 0 {
		t.Errorf("handler added during dispatch ran in the same trigger")
	}

	e.Trigger("tick")
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}

func TestUnsubscribeDuringTrigger(t *testing.T) {
	var e Emitter
	var calls []string
	var second ListenerID
	e.On("tick", func(args ...any) {
		calls = append(calls, "first")
		e.Off("tick", second)
	})
	second = e.On("tick", func(args ...any) { calls = append(calls, "second") })

	e.Trigger("tick")
	e.Trigger("tick")

	want := []string{"first", "second", "first"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestOffAll(t *testing.T) {
	var e Emitter
	e.On("resize", func(args ...any) {})
	e.On("resize", func(args ...any) {})
	e.OffAll("resize")
	if n := e.ListenerCount("resize"); n != 0 {
		t.Errorf("ListenerCount = %d, want 0", n)
	}
}
