// Package config holds the constants of a relay scenario: where the nodes
// are, how fast links transmit, and when a run starts and stops.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sarchlab/leorelay/geometry"
)

// Position is an [x, y, z] coordinate in meters.
type Position [3]float64

// Vector converts the position to a geometry vector.
func (p Position) Vector() geometry.Vector {
	return geometry.Vector{X: p[0], Y: p[1], Z: p[2]}
}

// Scenario describes the fixed part of every run.
type Scenario struct {
	Positions  map[int]Position `yaml:"positions"`
	SourceID   int              `yaml:"source_id"`
	SinkID     int              `yaml:"sink_id"`
	RelayCount int              `yaml:"relay_count"`

	// DataRate is the link rate in bits per second.
	DataRate float64 `yaml:"data_rate"`

	// AppStart is when the source application starts, and SendOffset the
	// wait after that before the payload leaves.
	AppStart   float64 `yaml:"app_start"`
	SendOffset float64 `yaml:"send_offset"`
	StopTime   float64 `yaml:"stop_time"`

	DelayMode  string  `yaml:"delay_mode"`
	FixedDelay float64 `yaml:"fixed_delay"`
}

// Default returns the reference scenario: a ground source, seven satellites
// between 600 and 850 km, and a ground sink 270 km from the source.
func Default() Scenario {
	return Scenario{
		Positions: map[int]Position{
			0: {0, 0, 0},
			1: {80, 20, 600e3},
			2: {982, 340, 650e3},
			3: {1020, 3490, 700e3},
			4: {2320, 20000, 750e3},
			5: {673450, 9430e3, 800e3},
			6: {4657, 94200, 850e3},
			7: {13, 340e3, 600e3},
			8: {0, 270e3, 0},
		},
		SourceID:   0,
		SinkID:     8,
		RelayCount: 7,
		DataRate:   100e3,
		AppStart:   0.5,
		SendOffset: 0.1,
		StopTime:   60,
		DelayMode:  geometry.DelayModePhysical.String(),
	}
}

// SendTime returns the virtual time at which the payload departs.
func (s Scenario) SendTime() float64 {
	return s.AppStart + s.SendOffset
}

// Mode parses the delay mode.
func (s Scenario) Mode() (geometry.DelayMode, error) {
	return geometry.ParseDelayMode(s.DelayMode)
}

// Vectors returns the node positions as geometry vectors.
func (s Scenario) Vectors() map[int]geometry.Vector {
	vectors := make(map[int]geometry.Vector, len(s.Positions))
	for id, p := range s.Positions {
		vectors[id] = p.Vector()
	}

	return vectors
}

// RelayIDs returns the ids of the known relays in increasing order.
func (s Scenario) RelayIDs() []int {
	ids := make([]int, 0, len(s.Positions))
	for id := range s.Positions {
		if id == s.SourceID || id == s.SinkID {
			continue
		}

		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// Validate reports every problem found in the scenario.
func (s Scenario) Validate() error {
	var errs []error

	if !(s.DataRate > 0) || math.IsInf(s.DataRate, 0) {
		errs = append(errs, fmt.Errorf("data rate must be positive, got %g",
			s.DataRate))
	}

	if s.AppStart < 0 || s.SendOffset < 0 {
		errs = append(errs, errors.New("start times must not be negative"))
	}

	if !(s.StopTime >= s.SendTime()) {
		errs = append(errs, fmt.Errorf(
			"stop time %g is before the send time %g",
			s.StopTime, s.SendTime()))
	}

	if s.SourceID == s.SinkID {
		errs = append(errs, errors.New("source and sink must differ"))
	}

	if _, ok := s.Positions[s.SourceID]; !ok {
		errs = append(errs, fmt.Errorf("source %d has no position", s.SourceID))
	}

	if _, ok := s.Positions[s.SinkID]; !ok {
		errs = append(errs, fmt.Errorf("sink %d has no position", s.SinkID))
	}

	if s.RelayCount < 0 {
		errs = append(errs, errors.New("relay count must not be negative"))
	}

	mode, err := s.Mode()
	if err != nil {
		errs = append(errs, err)
	} else if mode == geometry.DelayModeFixed && s.FixedDelay < 0 {
		errs = append(errs, errors.New("fixed delay must not be negative"))
	}

	return errors.Join(errs...)
}
