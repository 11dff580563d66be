package relay

import (
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
)

// Sink terminates the route and stamps the arrival.
type Sink struct {
	stageBase

	received int
}

// NewSink creates the Sink stage of node.
func NewSink(ctx *RunContext, node topology.Node) *Sink {
	s := &Sink{}
	s.node = node
	s.ctx = ctx

	return s
}

// Received returns the number of payloads delivered.
func (s *Sink) Received() int {
	return s.received
}

// Handle processes arrival events.
func (s *Sink) Handle(e timing.Event) error {
	return s.receive(s, e)
}

// OnReceive delivers the payload.
func (s *Sink) OnReceive(ctx *RunContext, p *Payload) error {
	s.received++
	ctx.Deliver(s, p)

	return nil
}
