// Package runner executes one relay run and turns its observations into a
// RunRecord.
package runner

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/topology"
)

// ErrInvalidParams is returned for run parameters that cannot be simulated.
var ErrInvalidParams = errors.New("invalid run parameters")

// Params are the inputs that vary between runs.
type Params struct {
	Path            topology.Path
	Ratio           float64
	PacketSizeBytes uint64
	DelayMode       geometry.DelayMode
}

// Validate checks that the ratio is in (0, 1] and the packet is not empty.
func (p Params) Validate() error {
	if !(p.Ratio > 0 && p.Ratio <= 1) || math.IsNaN(p.Ratio) {
		return fmt.Errorf("%w: ratio %g not in (0, 1]", ErrInvalidParams, p.Ratio)
	}

	if p.PacketSizeBytes == 0 {
		return fmt.Errorf("%w: packet size must be positive", ErrInvalidParams)
	}

	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("path=%s ratio=%g size=%d delay=%s",
		p.Path, p.Ratio, p.PacketSizeBytes, p.DelayMode)
}
