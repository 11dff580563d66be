package timing

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/sim/hooking"
)

// EventLogger is a hook that logs every dispatched event at debug level.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger returns a new EventLogger which writes into logger.
func NewEventLogger(logger zerolog.Logger) *EventLogger {
	h := new(EventLogger)

	h.logger = logger

	return h
}

type named interface {
	Name() string
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	handlerName := "<nil>"
	if n, ok := evt.Handler().(named); ok {
		handlerName = n.Name()
	} else if evt.Handler() != nil {
		handlerName = reflect.TypeOf(evt.Handler()).String()
	}

	h.logger.Debug().
		Float64("time", evt.Time()).
		Str("event", reflect.TypeOf(evt).String()).
		Str("handler", handlerName).
		Msg("dispatch")
}
