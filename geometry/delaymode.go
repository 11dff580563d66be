package geometry

import (
	"fmt"
	"strings"
)

// DelayMode selects how the propagation delay of a link is derived.
type DelayMode int

// The supported delay modes.
const (
	// DelayModePhysical uses distance over the speed of light.
	DelayModePhysical DelayMode = iota
	// DelayModeZero ignores propagation; only transmission delay applies.
	DelayModeZero
	// DelayModeFixed gives every link the same configured delay.
	DelayModeFixed
)

var delayModeNames = map[DelayMode]string{
	DelayModePhysical: "physical",
	DelayModeZero:     "zero",
	DelayModeFixed:    "fixed",
}

func (m DelayMode) String() string {
	if name, ok := delayModeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("DelayMode(%d)", int(m))
}

// ParseDelayMode converts a name such as "physical" into a DelayMode. The
// empty string means DelayModePhysical.
func ParseDelayMode(s string) (DelayMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DelayModePhysical, nil
	}

	for mode, name := range delayModeNames {
		if name == s {
			return mode, nil
		}
	}

	return DelayModePhysical, fmt.Errorf("unknown delay mode %q", s)
}

// LinkDelay returns the propagation delay between a and b under mode. fixed
// is only used by DelayModeFixed and is clamped at 0.
func LinkDelay(mode DelayMode, a, b Vector, fixed float64) float64 {
	switch mode {
	case DelayModeZero:
		return 0
	case DelayModeFixed:
		if !isFiniteNonNegative(fixed) {
			return 0
		}

		return fixed
	default:
		return PropagationDelay(a, b)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m DelayMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DelayMode) UnmarshalText(text []byte) error {
	mode, err := ParseDelayMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}
