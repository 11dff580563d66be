package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A TraceWriter stores finished tasks.
type TraceWriter interface {
	Init()
	Write(task Task)
	Flush()
}

// CSVTraceWriter is a TraceWriter that stores the tasks into a CSV file. It
// can be shared by runs executing in parallel.
type CSVTraceWriter struct {
	lock sync.Mutex
	path string
	file *os.File
	w    *csv.Writer

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. The ".csv" extension is
// appended to path.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file name, once Init has been called.
func (t *CSVTraceWriter) Path() string {
	return t.path + ".csv"
}

// Init creates the tracing csv file. An existing file is never overwritten.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "leorelay_trace_" + xid.New().String()
	}

	filename := t.Path()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}

	t.file = file
	t.w = csv.NewWriter(file)

	t.mustWrite([]string{
		"ID", "ParentID", "Kind", "What", "Where", "Start", "End",
	})

	atexit.Register(func() { t.Close() })
}

// Write buffers a task and flushes when the buffer is full.
func (t *CSVTraceWriter) Write(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.tasks = append(t.tasks, task)
	if len(t.tasks) >= t.bufferSize {
		t.flush()
	}
}

// Flush writes the buffered tasks to the CSV file.
func (t *CSVTraceWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flush()
}

func (t *CSVTraceWriter) flush() {
	if t.w == nil {
		return
	}

	for _, task := range t.tasks {
		t.mustWrite([]string{
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			strconv.FormatFloat(task.StartTime, 'f', 10, 64),
			strconv.FormatFloat(task.EndTime, 'f', 10, 64),
		})
	}

	t.tasks = nil

	t.w.Flush()
	if err := t.w.Error(); err != nil {
		panic(err)
	}
}

// Close flushes and closes the file. Closing twice is allowed.
func (t *CSVTraceWriter) Close() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.file == nil {
		return
	}

	t.flush()

	if err := t.file.Close(); err != nil {
		panic(err)
	}

	t.file = nil
	t.w = nil
}

func (t *CSVTraceWriter) mustWrite(record []string) {
	if err := t.w.Write(record); err != nil {
		panic(err)
	}
}
