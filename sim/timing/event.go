package timing

import (
	"github.com/sarchlab/leorelay/sim/hooking"
)

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec = float64

// An Event is something going to happen in the future.
type Event interface {
	// Time returns the time that the event should happen.
	Time() VTimeInSec

	// Handler returns the handler that should handle the event.
	Handler() Handler
}

// EventHandle identifies a scheduled event so that it can be cancelled. The
// zero handle never refers to an event.
type EventHandle uint64

// HookPosBeforeEvent is a hook position that triggers before handling an event.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.time = t
	e.handler = handler

	return e
}

// Time returns the time that the event is going to happen.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler defines a domain for the events.
//
// An event is always handled by exactly one Handler. Handlers run to
// completion and must not block; new events only appear by scheduling them
// from inside a handler.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}

// FuncEvent is an event whose behavior is a closure captured when it was
// scheduled.
type FuncEvent struct {
	*EventBase

	fn func(now VTimeInSec) error
}

// NewFuncEvent creates an event that calls fn at time t.
func NewFuncEvent(t VTimeInSec, fn func(now VTimeInSec) error) *FuncEvent {
	evt := &FuncEvent{fn: fn}
	evt.EventBase = NewEventBase(t, HandlerFunc(evt.fire))

	return evt
}

func (e *FuncEvent) fire(_ Event) error {
	if e.fn == nil {
		return nil
	}

	return e.fn(e.Time())
}
