package timing

import (
	"container/heap"
)

type scheduledEvent struct {
	evt    Event
	handle EventHandle
	index  int
}

// eventQueue orders events by time, breaking ties by the order in which they
// were scheduled.
type eventQueue struct {
	events eventHeap
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.events = make(eventHeap, 0)
	heap.Init(&q.events)

	return q
}

func (q *eventQueue) Push(se *scheduledEvent) {
	heap.Push(&q.events, se)
}

func (q *eventQueue) Pop() *scheduledEvent {
	return heap.Pop(&q.events).(*scheduledEvent)
}

func (q *eventQueue) Remove(se *scheduledEvent) {
	heap.Remove(&q.events, se.index)
}

func (q *eventQueue) Len() int {
	return q.events.Len()
}

func (q *eventQueue) Peek() *scheduledEvent {
	return q.events[0]
}

type eventHeap []*scheduledEvent

func (h eventHeap) Len() int {
	return len(h)
}

func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].handle < h[j].handle
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	se := x.(*scheduledEvent)
	se.index = len(*h)
	*h = append(*h, se)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	se := old[n-1]
	old[n-1] = nil
	se.index = -1
	*h = old[0 : n-1]

	return se
}
