package relay

import (
	"github.com/sarchlab/leorelay/sim/timing"
)

// SendEvent makes a Source emit its payload.
type SendEvent struct {
	*timing.EventBase
}

// NewSendEvent creates a SendEvent for source at time t.
func NewSendEvent(t timing.VTimeInSec, source *Source) *SendEvent {
	return &SendEvent{EventBase: timing.NewEventBase(t, source)}
}

// ArrivalEvent delivers a payload to the next stage after it crossed a link.
type ArrivalEvent struct {
	*timing.EventBase

	Payload  *Payload
	Position int
	HopID    string
}

// NewArrivalEvent creates an ArrivalEvent at time t for stage.
func NewArrivalEvent(
	t timing.VTimeInSec,
	stage Stage,
	payload *Payload,
	position int,
	hopID string,
) *ArrivalEvent {
	evt := &ArrivalEvent{
		EventBase: timing.NewEventBase(t, stage),
		Payload:   payload,
		Position:  position,
		HopID:     hopID,
	}
	evt.ID = hopID

	return evt
}
