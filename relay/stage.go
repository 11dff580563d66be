// Package relay implements the roles a node can play in a run, Source, Relay
// and Sink, and the forwarding policy that moves a payload between them.
package relay

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/leorelay/sim/hooking"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

// A Stage is the behavior attached to a node.
type Stage interface {
	timing.Handler
	hooking.NamedHookable

	NodeID() int
	Role() topology.Role

	// OnReceive processes a payload that just arrived at the node.
	OnReceive(ctx *RunContext, p *Payload) error
}

type stageBase struct {
	hooking.HookableBase

	node topology.Node
	ctx  *RunContext
}

func (s *stageBase) Name() string {
	return s.node.Name()
}

func (s *stageBase) NodeID() int {
	return s.node.ID
}

func (s *stageBase) Role() topology.Role {
	return s.node.Role
}

// receive is the part of handling an arrival shared by all stages.
func (s *stageBase) receive(self Stage, e timing.Event) error {
	evt, ok := e.(*ArrivalEvent)
	if !ok {
		panic(fmt.Sprintf("%s cannot handle event of type %s",
			s.Name(), reflect.TypeOf(e)))
	}

	p := evt.Payload
	if p.State.Terminal() {
		return nil
	}

	tracing.EndTask(evt.HopID, self)

	p.Hops++
	p.Position = evt.Position
	p.State = StateReceived

	return self.OnReceive(s.ctx, p)
}

// Wire creates a stage for every node of the context's topology and returns
// the Source. The first relay of the path compresses with ratio.
func Wire(ctx *RunContext, sizeBytes uint64, ratio float64) *Source {
	var source *Source

	topo := ctx.Topology
	for _, n := range topo.Nodes() {
		switch n.Role {
		case topology.RoleSource:
			source = NewSource(ctx, n, sizeBytes)
			ctx.RegisterStage(source)
		case topology.RoleSink:
			ctx.RegisterStage(NewSink(ctx, n))
		default:
			compress := n.ID == topo.Compressor()
			ctx.RegisterStage(NewRelay(ctx, n, compress, ratio))
		}
	}

	return source
}
