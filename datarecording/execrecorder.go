package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfo is one property of the program execution that produced a
// database.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecInfoTable is the table holding ExecInfo entries.
const ExecInfoTable = "exec_info"

const execTimeLayout = "2006-01-02 15:04:05.000000000"

// execRecorder records when and how the program ran.
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
	now      func() time.Time
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		recorder: recorder,
		now:      time.Now,
	}

	e.recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return e
}

// Start logs the current execution.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", e.now().Format(execTimeLayout)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
}

// End writes the entries along with the program exit time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.recorder.InsertData(ExecInfoTable,
		ExecInfo{"End Time", e.now().Format(execTimeLayout)})

	e.entries = nil
}
