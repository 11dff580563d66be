package runner

import (
	"github.com/sarchlab/leorelay/relay"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/tracing"
)

// Epsilon replaces a time span that could not be observed, so throughputs
// stay finite.
const Epsilon = 1e-9

// A RunRecord is everything measured in one run. It is not modified after
// the run returns it.
type RunRecord struct {
	ID     string
	Params Params

	DepartureTime   timing.VTimeInSec
	CompressionTime timing.VTimeInSec
	ArrivalTime     timing.VTimeInSec
	Compressed      bool
	Delivered       bool

	DepartureBits float64

	UpTime         float64
	UpThroughput   float64
	DownBits       float64
	DownTime       float64
	DownThroughput float64
	TotalTime      float64

	Hops     int
	State    relay.State
	DropNode int
	DropErr  error

	// EndTime is the virtual time when the run stopped, and Cutoff tells if
	// events were still pending at the stop time.
	EndTime timing.VTimeInSec
	Cutoff  bool

	// HopLog lists the completed hops, InFlightHops counts those cut off by
	// the stop time, and Steps holds the payload milestones such as
	// compression or drop.
	HopLog       []tracing.Hop
	InFlightHops int
	Steps        []tracing.TaskStep
}

// UpThroughputMbps returns the uplink throughput in Mbit/s.
func (r RunRecord) UpThroughputMbps() float64 {
	return r.UpThroughput / 1e6
}

// DownThroughputMbps returns the downlink throughput in Mbit/s.
func (r RunRecord) DownThroughputMbps() float64 {
	return r.DownThroughput / 1e6
}

func computeMetrics(r *RunRecord, obs relay.Observations, ratio float64) {
	r.DepartureTime = obs.DepartureTime
	r.CompressionTime = obs.CompressionTime
	r.ArrivalTime = obs.ArrivalTime
	r.Compressed = obs.Compressed
	r.Delivered = obs.Delivered
	r.DepartureBits = float64(obs.DepartureSizeBytes) * 8

	r.UpTime = Epsilon
	if obs.Departed && obs.Compressed {
		r.UpTime = spanOrEpsilon(obs.CompressionTime - obs.DepartureTime)
	}
	r.UpThroughput = r.DepartureBits / r.UpTime

	r.DownBits = r.DepartureBits * ratio
	if obs.Compressed {
		r.DownBits = float64(obs.CompressedSizeBytes) * 8
	}

	r.DownTime = Epsilon
	if obs.Compressed && obs.Delivered {
		r.DownTime = spanOrEpsilon(obs.ArrivalTime - obs.CompressionTime)
	}
	r.DownThroughput = r.DownBits / r.DownTime

	if obs.Departed && obs.Delivered {
		r.TotalTime = obs.ArrivalTime - obs.DepartureTime
	}

	r.Hops = obs.Hops
	r.State = obs.FinalState
	if obs.Dropped {
		r.DropNode = obs.DropNode
		r.DropErr = obs.DropErr
	}
}

func spanOrEpsilon(span float64) float64 {
	if span > 0 {
		return span
	}

	return Epsilon
}
