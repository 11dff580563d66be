// Package geometry computes the physical delays of a link: propagation from
// the positions of its two ends, and transmission from payload size and link
// rate.
package geometry

import (
	"math"
)

// SpeedOfLight is the propagation speed used for every link, in m/s.
const SpeedOfLight = 3e8

// A Vector is a position in meters.
type Vector struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Length returns the Euclidean norm of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the Euclidean distance between a and b. Non-finite results
// are reported as 0.
func Distance(a, b Vector) float64 {
	d := b.Sub(a).Length()
	if !isFiniteNonNegative(d) {
		return 0
	}

	return d
}

// PropagationDelay returns the time light takes to travel from a to b, in
// seconds. Coincident positions give 0.
func PropagationDelay(a, b Vector) float64 {
	return Distance(a, b) / SpeedOfLight
}

// TransmissionDelay returns the time needed to put sizeBytes onto a link of
// rateBps bits per second. An unusable rate gives 0.
func TransmissionDelay(sizeBytes uint64, rateBps float64) float64 {
	if !isFiniteNonNegative(rateBps) || rateBps == 0 {
		return 0
	}

	return float64(sizeBytes) * 8 / rateBps
}

// CompressedSize shrinks sizeBytes by ratio, never going below one byte and
// never growing the payload. Ratios outside (0, 1] leave the size unchanged.
func CompressedSize(sizeBytes uint64, ratio float64) uint64 {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return sizeBytes
	}

	newSize := uint64(math.Floor(float64(sizeBytes) * ratio))
	if newSize < 1 {
		newSize = 1
	}

	if newSize > sizeBytes && sizeBytes > 0 {
		newSize = sizeBytes
	}

	return newSize
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
