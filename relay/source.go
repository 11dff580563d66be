package relay

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

// Source emits a single payload of a fixed size.
type Source struct {
	stageBase

	sizeBytes uint64
	sent      *Payload
}

// NewSource creates the Source stage of node.
func NewSource(ctx *RunContext, node topology.Node, sizeBytes uint64) *Source {
	s := &Source{sizeBytes: sizeBytes}
	s.node = node
	s.ctx = ctx

	return s
}

// ScheduleSend makes the Source emit its payload at time t.
func (s *Source) ScheduleSend(t timing.VTimeInSec) (timing.EventHandle, error) {
	return s.ctx.Engine.Schedule(NewSendEvent(t, s))
}

// Sent returns the payload emitted, or nil before the send.
func (s *Source) Sent() *Payload {
	return s.sent
}

// Handle processes send and arrival events.
func (s *Source) Handle(e timing.Event) error {
	switch e := e.(type) {
	case *SendEvent:
		return s.send()
	case *ArrivalEvent:
		return s.receive(s, e)
	default:
		panic("cannot handle event of type " + reflect.TypeOf(e).String())
	}
}

func (s *Source) send() error {
	if s.sent != nil {
		return fmt.Errorf("%s already sent %s", s.Name(), s.sent.ID)
	}

	p := s.ctx.newPayload(s.sizeBytes)
	s.sent = p

	s.ctx.Observations.observeDeparture(s.ctx.Engine.Now(), p.SizeBytes)

	tracing.StartTask(p.ID, "", s, tracing.KindPayload, "deliver", nil)

	return s.ctx.Forward(s, p)
}

// OnReceive forwards a payload routed back through the Source.
func (s *Source) OnReceive(ctx *RunContext, p *Payload) error {
	return ctx.Forward(s, p)
}
