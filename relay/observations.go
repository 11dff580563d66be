package relay

import (
	"github.com/sarchlab/leorelay/sim/timing"
)

// Observations are the timestamps and sizes captured during one run. Every
// timestamp latches on its first occurrence.
type Observations struct {
	Departed           bool
	DepartureTime      timing.VTimeInSec
	DepartureSizeBytes uint64

	Compressed          bool
	CompressionTime     timing.VTimeInSec
	CompressedSizeBytes uint64

	// TotalCompressedBits accumulates every compression, unlike the latched
	// CompressedSizeBytes.
	TotalCompressedBits float64

	Delivered   bool
	ArrivalTime timing.VTimeInSec

	Dropped  bool
	DropTime timing.VTimeInSec
	DropNode int
	DropErr  error

	Hops       int
	FinalState State
}

func (o *Observations) observeDeparture(now timing.VTimeInSec, size uint64) {
	if o.Departed {
		return
	}

	o.Departed = true
	o.DepartureTime = now
	o.DepartureSizeBytes = size
}

func (o *Observations) observeCompression(now timing.VTimeInSec, size uint64) {
	o.TotalCompressedBits += float64(size) * 8

	if o.Compressed {
		return
	}

	o.Compressed = true
	o.CompressionTime = now
	o.CompressedSizeBytes = size
}

func (o *Observations) observeArrival(now timing.VTimeInSec, p *Payload) {
	o.Hops = p.Hops
	o.FinalState = p.State

	if o.Delivered {
		return
	}

	o.Delivered = true
	o.ArrivalTime = now
}

func (o *Observations) observeDrop(
	now timing.VTimeInSec,
	node int,
	p *Payload,
) {
	o.Hops = p.Hops
	o.FinalState = p.State

	if o.Dropped {
		return
	}

	o.Dropped = true
	o.DropTime = now
	o.DropNode = node
	o.DropErr = p.Err
}
