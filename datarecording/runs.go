package datarecording

import (
	"github.com/sarchlab/leorelay/runner"
)

// Tables written by a RunRecorder.
const (
	RunTable = "run_records"
	HopTable = "hop_log"
)

// RunEntry is the row of one run.
type RunEntry struct {
	RunID          string
	Path           string
	Ratio          float64
	PacketSize     uint64
	DelayMode      string
	State          string
	Delivered      bool
	Hops           int
	DepartureTime  float64
	ArrivalTime    float64
	UpTime         float64
	UpThroughput   float64
	DownBits       float64
	DownTime       float64
	DownThroughput float64
	TotalTime      float64
	DropNode       int
	DropReason     string
	Cutoff         bool
}

// HopEntry is the row of one link traversal.
type HopEntry struct {
	RunID      string
	PayloadID  string
	FromNode   int
	ToNode     int
	SizeBytes  uint64
	DepartTime float64
	ArriveTime float64
}

// NewRunEntry flattens a record into a row.
func NewRunEntry(r runner.RunRecord) RunEntry {
	e := RunEntry{
		RunID:          r.ID,
		Path:           r.Params.Path.String(),
		Ratio:          r.Params.Ratio,
		PacketSize:     r.Params.PacketSizeBytes,
		DelayMode:      r.Params.DelayMode.String(),
		State:          r.State.String(),
		Delivered:      r.Delivered,
		Hops:           r.Hops,
		DepartureTime:  r.DepartureTime,
		ArrivalTime:    r.ArrivalTime,
		UpTime:         r.UpTime,
		UpThroughput:   r.UpThroughput,
		DownBits:       r.DownBits,
		DownTime:       r.DownTime,
		DownThroughput: r.DownThroughput,
		TotalTime:      r.TotalTime,
		Cutoff:         r.Cutoff,
	}

	if r.DropErr != nil {
		e.DropNode = r.DropNode
		e.DropReason = r.DropErr.Error()
	}

	return e
}

// RunRecorder writes run records and their hop logs.
type RunRecorder struct {
	recorder DataRecorder
}

// NewRunRecorder creates the run and hop tables in recorder.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	recorder.CreateTable(RunTable, RunEntry{})
	recorder.CreateTable(HopTable, HopEntry{})

	return &RunRecorder{recorder: recorder}
}

// Record buffers one run and its hops.
func (r *RunRecorder) Record(rec runner.RunRecord) {
	r.recorder.InsertData(RunTable, NewRunEntry(rec))

	for _, h := range rec.HopLog {
		r.recorder.InsertData(HopTable, HopEntry{
			RunID:      rec.ID,
			PayloadID:  h.PayloadID,
			FromNode:   h.From,
			ToNode:     h.To,
			SizeBytes:  h.SizeBytes,
			DepartTime: h.DepartTime,
			ArriveTime: h.ArriveTime,
		})
	}
}

// RecordAll records every run and flushes.
func (r *RunRecorder) RecordAll(records []runner.RunRecord) {
	for _, rec := range records {
		r.Record(rec)
	}

	r.recorder.Flush()
}
