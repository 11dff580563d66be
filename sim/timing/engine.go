package timing

import (
	"errors"

	"github.com/sarchlab/leorelay/sim/hooking"
)

// ErrInvalidDelay is returned when an event would fire before the current
// virtual time, or at a time that is not a finite number.
var ErrInvalidDelay = errors.New("invalid delay")

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInSec
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	// Schedule inserts an event. It fails with ErrInvalidDelay if the event
	// time is earlier than Now.
	Schedule(e Event) (EventHandle, error)

	// ScheduleAfter runs fn once the given delay has elapsed. A negative
	// delay fails with ErrInvalidDelay.
	ScheduleAfter(delay VTimeInSec, fn func(now VTimeInSec) error) (
		EventHandle, error)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Cancel removes an event that has not fired yet. It reports whether
	// the event was still pending.
	Cancel(h EventHandle) bool

	// Run processes events until there are none left.
	Run() error

	// RunUntil processes events whose time is not later than stop. Events
	// after stop stay unconsumed.
	RunUntil(stop VTimeInSec) error

	// Pending returns the number of events not yet dispatched.
	Pending() int
}
