package timing

import (
	"fmt"
	"math"
	"reflect"

	"github.com/sarchlab/leorelay/sim/hooking"
)

// A SerialEngine is an Engine that always runs events one after another on
// the calling goroutine. It is not safe for concurrent use; parallelism
// belongs across engines, one per run.
type SerialEngine struct {
	hooking.HookableBase

	now        VTimeInSec
	queue      *eventQueue
	pending    map[EventHandle]*scheduledEvent
	lastHandle EventHandle
	dispatched uint64
	running    bool
}

// NewSerialEngine creates a SerialEngine at time 0.
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = newEventQueue()
	e.pending = make(map[EventHandle]*scheduledEvent)

	return e
}

// Name returns the name of the engine.
func (e *SerialEngine) Name() string {
	return "SerialEngine"
}

// Now returns the time of the event being handled, or of the last event
// handled.
func (e *SerialEngine) Now() VTimeInSec {
	return e.now
}

// Dispatched returns the number of events handled so far.
func (e *SerialEngine) Dispatched() uint64 {
	return e.dispatched
}

// Pending returns the number of events waiting to be dispatched.
func (e *SerialEngine) Pending() int {
	return e.queue.Len()
}

// Schedule registers an event to happen in the future.
func (e *SerialEngine) Schedule(evt Event) (EventHandle, error) {
	t := evt.Time()
	if math.IsNaN(t) || math.IsInf(t, 0) || t < e.now {
		return 0, fmt.Errorf("%w: %s @ %.10f, now %.10f",
			ErrInvalidDelay, reflect.TypeOf(evt), t, e.now)
	}

	e.lastHandle++
	se := &scheduledEvent{
		evt:    evt,
		handle: e.lastHandle,
	}

	e.queue.Push(se)
	e.pending[se.handle] = se

	return se.handle, nil
}

// ScheduleAfter schedules fn to run delay seconds from now.
func (e *SerialEngine) ScheduleAfter(
	delay VTimeInSec,
	fn func(now VTimeInSec) error,
) (EventHandle, error) {
	if math.IsNaN(delay) || delay < 0 {
		return 0, fmt.Errorf("%w: delay %.10f", ErrInvalidDelay, delay)
	}

	return e.Schedule(NewFuncEvent(e.now+delay, fn))
}

// Cancel removes a pending event.
func (e *SerialEngine) Cancel(h EventHandle) bool {
	se, ok := e.pending[h]
	if !ok {
		return false
	}

	e.queue.Remove(se)
	delete(e.pending, h)

	return true
}

// Run processes all the events scheduled in the SerialEngine.
func (e *SerialEngine) Run() error {
	return e.RunUntil(math.Inf(1))
}

// RunUntil processes events in time order until the queue is empty or the
// next event is later than stop. A handler error stops the loop and is
// returned; the failing event counts as consumed.
func (e *SerialEngine) RunUntil(stop VTimeInSec) error {
	if e.running {
		panic("engine is already running")
	}

	e.running = true
	defer func() { e.running = false }()

	for e.queue.Len() > 0 {
		next := e.queue.Peek()
		if next.evt.Time() > stop {
			return nil
		}

		e.queue.Pop()
		delete(e.pending, next.handle)

		if err := e.dispatch(next.evt); err != nil {
			return err
		}
	}

	return nil
}

func (e *SerialEngine) dispatch(evt Event) error {
	if evt.Time() < e.now {
		panic(fmt.Sprintf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), e.now,
		))
	}

	e.now = evt.Time()

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	e.dispatched++

	handler := evt.Handler()
	if handler != nil {
		if err := handler.Handle(evt); err != nil {
			return fmt.Errorf("handling %s @ %.10f: %w",
				reflect.TypeOf(evt), evt.Time(), err)
		}
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}
