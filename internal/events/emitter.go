// Package events provides a minimal named-event publish/subscribe primitive.
//
// An Emitter is not safe for concurrent use. Every On, Off and Trigger call
// for a given emitter must happen on the same goroutine (the frame loop).
package events

// Event names shared by the engine components.
const (
	EventResize   = "resize"
	EventTick     = "tick"
	EventReady    = "ready"
	EventError    = "error"
	EventProgress = "progress"
)

// Handler receives the arguments passed to Trigger.
type Handler func(args ...any)

// ListenerID identifies a subscription for Off.
type ListenerID uint64

type listener struct {
	id   ListenerID
	fn   Handler
	once bool
}

// Emitter keeps an ordered listener list per event name.
// The zero value is ready to use.
type Emitter struct {
	listeners map[string][]listener
	nextID    ListenerID
}

// On appends a handler for name. The same function may be registered more
// than once; each registration fires separately.
func (e *Emitter) On(name string, fn Handler) ListenerID {
	return e.add(name, fn, false)
}

// Once registers a handler that is removed before its first invocation.
func (e *Emitter) Once(name string, fn Handler) ListenerID {
	return e.add(name, fn, true)
}

func (e *Emitter) add(name string, fn Handler, once bool) ListenerID {
	if e.listeners == nil {
		e.listeners = make(map[string][]listener)
	}
	e.nextID++
	e.listeners[name] = append(e.listeners[name], listener{id: e.nextID, fn: fn, once: once})
	return e.nextID
}

// Off removes the subscription with the given id. It reports whether a
// subscription was removed.
func (e *Emitter) Off(name string, id ListenerID) bool {
	list := e.listeners[name]
	for i, l := range list {
		if l.id != id {
			continue
		}
		next := make([]listener, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(e.listeners, name)
		} else {
			e.listeners[name] = next
		}
		return true
	}
	return false
}

// OffAll removes every handler registered for name.
func (e *Emitter) OffAll(name string) {
	delete(e.listeners, name)
}

// Trigger calls every handler registered for name in subscription order.
// Handlers added during dispatch are not called until the next Trigger.
func (e *Emitter) Trigger(name string, args ...any) {
	list := e.listeners[name]
	if len(list) == 0 {
		return
	}
	// Off copies instead of mutating, so list is a stable snapshot.
	for _, l := range list {
		if l.once {
			e.Off(name, l.id)
		}
		l.fn(args...)
	}
}

// ListenerCount returns the number of handlers registered for name.
func (e *Emitter) ListenerCount(name string) int {
	return len(e.listeners[name])
}
