package tracing

import (
	"sync"

	"github.com/sarchlab/leorelay/sim/timing"
)

// A Hop is one completed traversal of a link.
type Hop struct {
	PayloadID  string
	From       int
	To         int
	SizeBytes  uint64
	DepartTime timing.VTimeInSec
	ArriveTime timing.VTimeInSec
}

// HopTracer turns hop tasks into a hop log and keeps the steps reported for
// each payload.
type HopTracer struct {
	timeTeller timing.TimeTeller

	lock     sync.Mutex
	inflight map[string]Task
	hops     []Hop
	steps    map[string][]TaskStep
}

// NewHopTracer creates a HopTracer that reads time from timeTeller.
func NewHopTracer(timeTeller timing.TimeTeller) *HopTracer {
	return &HopTracer{
		timeTeller: timeTeller,
		inflight:   make(map[string]Task),
		steps:      make(map[string][]TaskStep),
	}
}

// StartTask records the departure of a hop.
func (t *HopTracer) StartTask(task Task) {
	if task.Kind != KindHop {
		return
	}

	task.StartTime = t.timeTeller.Now()

	t.lock.Lock()
	t.inflight[task.ID] = task
	t.lock.Unlock()
}

// StepTask records milestones such as compression or drop.
func (t *HopTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, s := range task.Steps {
		s.Time = t.timeTeller.Now()
		t.steps[task.ID] = append(t.steps[task.ID], s)
	}
}

// EndTask records the arrival of a hop.
func (t *HopTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	original, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	hop := Hop{
		DepartTime: original.StartTime,
		ArriveTime: t.timeTeller.Now(),
	}

	if detail, ok := original.Detail.(HopDetail); ok {
		hop.PayloadID = detail.PayloadID
		hop.From = detail.From
		hop.To = detail.To
		hop.SizeBytes = detail.SizeBytes
	}

	t.hops = append(t.hops, hop)
}

// Hops returns the completed hops in arrival order.
func (t *HopTracer) Hops() []Hop {
	t.lock.Lock()
	defer t.lock.Unlock()

	hops := make([]Hop, len(t.hops))
	copy(hops, t.hops)

	return hops
}

// InFlight returns the number of hops that departed but never arrived, for
// example because the run was cut off.
func (t *HopTracer) InFlight() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflight)
}

// Steps returns the milestones reported for a task.
func (t *HopTracer) Steps(taskID string) []TaskStep {
	t.lock.Lock()
	defer t.lock.Unlock()

	steps := make([]TaskStep, len(t.steps[taskID]))
	copy(steps, t.steps[taskID])

	return steps
}
