// Package experiment runs sweeps of relay runs over compression ratios,
// packet sizes and delay modes, and writes their results as CSV.
package experiment

import (
	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/runner"
	"github.com/sarchlab/leorelay/topology"
)

// A Sweep lists the values to combine. Every combination becomes one run.
type Sweep struct {
	Name        string
	Path        topology.Path
	Ratios      []float64
	PacketSizes []uint64
	DelayModes  []geometry.DelayMode
}

// DefaultSweep returns the reference sweep over the physical delay model.
func DefaultSweep(path topology.Path) Sweep {
	return Sweep{
		Name:        "sweep",
		Path:        path,
		Ratios:      []float64{1.0, 0.5, 0.2},
		PacketSizes: []uint64{1000, 5000, 10000},
		DelayModes:  []geometry.DelayMode{geometry.DelayModePhysical},
	}
}

// Params expands the sweep. Delay modes vary slowest and packet sizes
// fastest.
func (s Sweep) Params() []runner.Params {
	modes := s.DelayModes
	if len(modes) == 0 {
		modes = []geometry.DelayMode{geometry.DelayModePhysical}
	}

	params := make([]runner.Params, 0,
		len(modes)*len(s.Ratios)*len(s.PacketSizes))
	for _, mode := range modes {
		for _, ratio := range s.Ratios {
			for _, size := range s.PacketSizes {
				params = append(params, runner.Params{
					Path:            s.Path,
					Ratio:           ratio,
					PacketSizeBytes: size,
					DelayMode:       mode,
				})
			}
		}
	}

	return params
}

// A Result pairs the parameters of one run with its record, or with the
// error that prevented the run from completing.
type Result struct {
	Params runner.Params
	Record runner.RunRecord
	Err    error
}

// OK tells if the run completed and delivered its payload.
func (r Result) OK() bool {
	return r.Err == nil && r.Record.Delivered
}
