package tracing

import (
	"sync"

	"github.com/sarchlab/leorelay/sim/timing"
)

// WriterTracer stamps tasks with virtual time and hands finished tasks to a
// TraceWriter.
type WriterTracer struct {
	timeTeller timing.TimeTeller
	writer     TraceWriter
	filter     TaskFilter
	idPrefix   string

	lock          sync.Mutex
	inflightTasks map[string]Task
}

// NewWriterTracer creates a WriterTracer. A nil filter keeps every task.
func NewWriterTracer(
	timeTeller timing.TimeTeller,
	writer TraceWriter,
	filter TaskFilter,
) *WriterTracer {
	if filter == nil {
		filter = AcceptAll
	}

	return &WriterTracer{
		timeTeller:    timeTeller,
		writer:        writer,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}
}

// WithIDPrefix makes the tracer prefix the ids of the tasks it writes, so that
// tasks from several runs can share one writer.
func (t *WriterTracer) WithIDPrefix(prefix string) *WriterTracer {
	t.idPrefix = prefix
	return t
}

// StartTask records the task start time.
func (t *WriterTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	task.StartTime = t.timeTeller.Now()

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing.
func (t *WriterTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask writes the finished task.
func (t *WriterTracer) EndTask(task Task) {
	t.lock.Lock()
	original, ok := t.inflightTasks[task.ID]
	if ok {
		delete(t.inflightTasks, task.ID)
	}
	t.lock.Unlock()

	if !ok {
		return
	}

	original.EndTime = t.timeTeller.Now()
	original.ID = t.idPrefix + original.ID
	if original.ParentID != "" {
		original.ParentID = t.idPrefix + original.ParentID
	}

	t.writer.Write(original)
}
