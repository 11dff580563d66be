package tracing

import (
	"github.com/sarchlab/leorelay/sim/timing"
)

// A TaskStep represents a milestone in the processing of task.
type TaskStep struct {
	Time timing.VTimeInSec `json:"time"`
	What string            `json:"what"`
}

// A Task is a span of virtual time during which something happens at a node:
// a payload crossing a link, or a payload's whole journey.
type Task struct {
	ID        string            `json:"id"`
	ParentID  string            `json:"parent_id"`
	Kind      string            `json:"kind"`
	What      string            `json:"what"`
	Where     string            `json:"where"`
	StartTime timing.VTimeInSec `json:"start_time"`
	EndTime   timing.VTimeInSec `json:"end_time"`
	Steps     []TaskStep        `json:"steps"`
	Detail    any               `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// AcceptAll is a TaskFilter that keeps every task.
func AcceptAll(Task) bool {
	return true
}

// KindIs returns a TaskFilter that keeps tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// The task kinds emitted by the relay stages.
const (
	KindPayload = "payload"
	KindHop     = "hop"
)

// HopDetail is attached to hop tasks.
type HopDetail struct {
	PayloadID string
	From      int
	To        int
	SizeBytes uint64
}
