// Package monitoring serves the progress and results of a sweep over HTTP
// while it runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/leorelay/runner"
	"github.com/sarchlab/leorelay/sim/id"
)

// Monitor turns a sweep into a server that reports its progress and the
// records of finished runs.
type Monitor struct {
	portNumber int
	logger     zerolog.Logger
	barIDs     id.IDGenerator

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
	sweepBars        map[string]*ProgressBar

	recordsLock sync.Mutex
	records     []runner.RunRecord
	recordIndex map[string]int

	listener net.Listener
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		logger:      zerolog.Nop(),
		barIDs:      id.NewPrefixedIDGenerator("bar-"),
		sweepBars:   make(map[string]*ProgressBar),
		recordIndex: make(map[string]int),
	}
}

// minPortNumber is the lowest port the monitoring server may listen on.
const minPortNumber = 1000

// WithPortNumber sets the port number of the monitor. Port 0 picks a random
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < minPortNumber {
		m.logger.Warn().
			Int("port", portNumber).
			Msg("port not allowed for the monitoring server, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger.
func (m *Monitor) WithLogger(logger zerolog.Logger) *Monitor {
	m.logger = logger
	return m
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.barIDs.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// SweepStarted shows a progress bar for the sweep.
func (m *Monitor) SweepStarted(name string, total int) {
	bar := m.CreateProgressBar(name, uint64(total))

	m.progressBarsLock.Lock()
	m.sweepBars[name] = bar
	m.progressBarsLock.Unlock()
}

// RunStarted counts a run as in progress.
func (m *Monitor) RunStarted(name string, _ runner.Params) {
	if bar := m.sweepBar(name); bar != nil {
		bar.IncrementInProgress(1)
	}
}

// RunFinished counts a run as finished and keeps its record.
func (m *Monitor) RunFinished(name string, r runner.RunRecord, err error) {
	if bar := m.sweepBar(name); bar != nil {
		bar.MoveInProgressToFinished(1)

		if err != nil {
			bar.IncrementFailed(1)
		}
	}

	if err == nil {
		m.AddRecord(r)
	}
}

// SweepFinished removes the progress bar of the sweep.
func (m *Monitor) SweepFinished(name string) {
	m.progressBarsLock.Lock()
	bar := m.sweepBars[name]
	delete(m.sweepBars, name)
	m.progressBarsLock.Unlock()

	if bar != nil {
		m.CompleteProgressBar(bar)
	}
}

func (m *Monitor) sweepBar(name string) *ProgressBar {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	return m.sweepBars[name]
}

// AddRecord makes a run record available to the server.
func (m *Monitor) AddRecord(r runner.RunRecord) {
	m.recordsLock.Lock()
	defer m.recordsLock.Unlock()

	if i, ok := m.recordIndex[r.ID]; ok {
		m.records[i] = r
		return
	}

	m.recordIndex[r.ID] = len(m.records)
	m.records = append(m.records, r)
}

// Handler returns the router serving the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/records", m.listRecords)
	r.HandleFunc("/api/record/{id}", m.recordDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber >= minPortNumber {
		actualPort = fmt.Sprintf(":%d", m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("starting monitor: %w", err)
	}

	m.listener = listener
	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	m.logger.Info().Str("url", url).Msg("monitoring sweep")

	handler := m.Handler()
	go func() {
		err := http.Serve(listener, handler)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			m.logger.Error().Err(err).Msg("monitoring server stopped")
		}
	}()

	return url, nil
}

// StopServer closes the listener started by StartServer.
func (m *Monitor) StopServer() error {
	if m.listener == nil {
		return nil
	}

	err := m.listener.Close()
	m.listener = nil

	return err
}

// OpenInBrowser opens url with the default browser.
func OpenInBrowser(url string) error {
	return browser.OpenURL(url)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarSnapshot, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type recordSummary struct {
	ID            string  `json:"id"`
	Path          string  `json:"path"`
	Ratio         float64 `json:"ratio"`
	PacketSize    uint64  `json:"packet_size"`
	DelayMode     string  `json:"delay_mode"`
	State         string  `json:"state"`
	Hops          int     `json:"hops"`
	UpMbps        float64 `json:"up_mbps"`
	DownMbps      float64 `json:"down_mbps"`
	TotalTimeSecs float64 `json:"total_time"`
}

func (m *Monitor) listRecords(w http.ResponseWriter, _ *http.Request) {
	m.recordsLock.Lock()
	summaries := make([]recordSummary, 0, len(m.records))
	for _, r := range m.records {
		summaries = append(summaries, recordSummary{
			ID:            r.ID,
			Path:          r.Params.Path.String(),
			Ratio:         r.Params.Ratio,
			PacketSize:    r.Params.PacketSizeBytes,
			DelayMode:     r.Params.DelayMode.String(),
			State:         r.State.String(),
			Hops:          r.Hops,
			UpMbps:        r.UpThroughputMbps(),
			DownMbps:      r.DownThroughputMbps(),
			TotalTimeSecs: r.TotalTime,
		})
	}
	m.recordsLock.Unlock()

	writeJSON(w, summaries)
}

func (m *Monitor) recordDetails(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	m.recordsLock.Lock()
	i, ok := m.recordIndex[runID]
	var record runner.RunRecord
	if ok {
		record = m.records[i]
	}
	m.recordsLock.Unlock()

	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&record)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
