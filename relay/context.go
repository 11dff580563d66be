package relay

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/sim/id"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

// ErrUnreachableHop means the forwarding policy found no link, or no stage,
// for the next hop. The payload is dropped; the run itself goes on.
var ErrUnreachableHop = errors.New("unreachable hop")

// A RunContext owns every piece of mutable state of one run. Stages receive
// it instead of sharing globals, so runs never leak into each other and can
// execute in parallel.
type RunContext struct {
	Engine       timing.EventScheduler
	Topology     *topology.Topology
	Observations Observations
	Logger       zerolog.Logger

	payloadIDs id.IDGenerator
	hopIDs     id.IDGenerator
	stages     map[int]Stage
}

// NewRunContext creates the context of a run on engine and topo.
func NewRunContext(
	engine timing.EventScheduler,
	topo *topology.Topology,
	logger zerolog.Logger,
) *RunContext {
	return &RunContext{
		Engine:     engine,
		Topology:   topo,
		Logger:     logger,
		payloadIDs: id.NewPrefixedIDGenerator("pkt-"),
		hopIDs:     id.NewPrefixedIDGenerator("hop-"),
		stages:     make(map[int]Stage),
	}
}

// RegisterStage attaches a stage to its node. Registering two stages on the
// same node panics.
func (c *RunContext) RegisterStage(s Stage) {
	if _, ok := c.stages[s.NodeID()]; ok {
		panic(fmt.Sprintf("node %d already has a stage", s.NodeID()))
	}

	c.stages[s.NodeID()] = s
}

// Stage returns the stage attached to a node.
func (c *RunContext) Stage(nodeID int) (Stage, bool) {
	s, ok := c.stages[nodeID]
	return s, ok
}

// Stages returns every registered stage.
func (c *RunContext) Stages() []Stage {
	stages := make([]Stage, 0, len(c.stages))
	for _, n := range c.Topology.Nodes() {
		if s, ok := c.stages[n.ID]; ok {
			stages = append(stages, s)
		}
	}

	return stages
}

func (c *RunContext) newPayload(sizeBytes uint64) *Payload {
	return &Payload{
		ID:                c.payloadIDs.Generate(),
		SizeBytes:         sizeBytes,
		OriginalSizeBytes: sizeBytes,
		Position:          -1,
	}
}

// Forward sends p from stage to the next hop of the route. A missing link or
// stage drops the payload; only scheduling failures are returned.
func (c *RunContext) Forward(from Stage, p *Payload) error {
	p.State = StateForwarding

	nextPos := p.Position + 1
	next, ok := c.Topology.NextHop(p.Position)
	if !ok {
		c.Drop(from, p, fmt.Errorf("%w: no successor after position %d",
			ErrUnreachableHop, p.Position))
		return nil
	}

	link, ok := c.Topology.Link(from.NodeID(), next)
	if !ok {
		c.Drop(from, p, fmt.Errorf("%w: no link %d->%d",
			ErrUnreachableHop, from.NodeID(), next))
		return nil
	}

	target, ok := c.stages[next]
	if !ok {
		c.Drop(from, p, fmt.Errorf("%w: node %d has no stage",
			ErrUnreachableHop, next))
		return nil
	}

	delay := link.PropagationDelay +
		geometry.TransmissionDelay(p.SizeBytes, link.Rate)
	hopID := c.hopIDs.Generate()

	evt := NewArrivalEvent(
		c.Engine.Now()+delay, target, p, nextPos, hopID)
	if _, err := c.Engine.Schedule(evt); err != nil {
		return fmt.Errorf("forwarding %s from %s: %w", p.ID, from.Name(), err)
	}

	tracing.StartTask(hopID, p.ID, from, tracing.KindHop, "forward",
		tracing.HopDetail{
			PayloadID: p.ID,
			From:      from.NodeID(),
			To:        next,
			SizeBytes: p.SizeBytes,
		})

	return nil
}

// Drop moves p into the Dropped state at stage.
func (c *RunContext) Drop(at Stage, p *Payload, err error) {
	p.State = StateDropped
	p.Err = err

	c.Observations.observeDrop(c.Engine.Now(), at.NodeID(), p)

	c.Logger.Warn().
		Str("payload", p.ID).
		Str("at", at.Name()).
		Err(err).
		Msg("payload dropped")

	tracing.AddTaskStep(p.ID, at, "drop")
	tracing.EndTask(p.ID, at)
}

// Deliver moves p into the Delivered state at stage.
func (c *RunContext) Deliver(at Stage, p *Payload) {
	p.State = StateDelivered

	c.Observations.observeArrival(c.Engine.Now(), p)

	c.Logger.Debug().
		Str("payload", p.ID).
		Str("at", at.Name()).
		Int("hops", p.Hops).
		Float64("time", c.Engine.Now()).
		Msg("payload delivered")

	tracing.EndTask(p.ID, at)
}
