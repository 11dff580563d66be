package relay

import (
	"fmt"
)

// State is where a payload is in the forwarding state machine.
type State int

// The payload states. Delivered and Dropped are terminal.
const (
	StateCreated State = iota
	StateReceived
	StateForwarding
	StateDelivered
	StateDropped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateReceived:
		return "Received"
	case StateForwarding:
		return "Forwarding"
	case StateDelivered:
		return "Delivered"
	case StateDropped:
		return "Dropped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDelivered || s == StateDropped
}

// A Payload is the unit of data carried from Source to Sink. Only its size
// matters.
type Payload struct {
	ID                string
	SizeBytes         uint64
	OriginalSizeBytes uint64
	Compressed        bool

	// Position is the route position of the node holding the payload: -1 at
	// the Source, i at path[i], len(path) at the Sink.
	Position int

	// Hops counts the links the payload has crossed.
	Hops int

	State State
	Err   error
}

// SizeBits returns the current size in bits.
func (p *Payload) SizeBits() float64 {
	return float64(p.SizeBytes) * 8
}
