package relay

import (
	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

// Relay forwards payloads along the path. The Compressor relay also shrinks
// each payload once.
type Relay struct {
	stageBase

	compressor bool
	ratio      float64
}

// NewRelay creates the Relay stage of node.
func NewRelay(
	ctx *RunContext,
	node topology.Node,
	compressor bool,
	ratio float64,
) *Relay {
	r := &Relay{compressor: compressor, ratio: ratio}
	r.node = node
	r.ctx = ctx

	return r
}

// IsCompressor tells if the relay compresses payloads.
func (r *Relay) IsCompressor() bool {
	return r.compressor
}

// Handle processes arrival events.
func (r *Relay) Handle(e timing.Event) error {
	return r.receive(r, e)
}

// OnReceive compresses the payload if needed and forwards it.
func (r *Relay) OnReceive(ctx *RunContext, p *Payload) error {
	if r.compressor && !p.Compressed {
		r.compress(ctx, p)
	}

	return ctx.Forward(r, p)
}

func (r *Relay) compress(ctx *RunContext, p *Payload) {
	p.SizeBytes = geometry.CompressedSize(p.SizeBytes, r.ratio)
	p.Compressed = true

	ctx.Observations.observeCompression(ctx.Engine.Now(), p.SizeBytes)

	tracing.AddTaskStep(p.ID, r, "compress")
}
