package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/experiment"
	"github.com/sarchlab/leorelay/relay"
	"github.com/sarchlab/leorelay/runner"
	"github.com/sarchlab/leorelay/topology"
)

var _ experiment.ProgressReporter = (*Monitor)(nil)

func sampleRecord(id string) runner.RunRecord {
	return runner.RunRecord{
		ID: id,
		Params: runner.Params{
			Path:            topology.Path{1, 2},
			Ratio:           0.5,
			PacketSizeBytes: 1000,
		},
		State:          relay.StateDelivered,
		Delivered:      true,
		Hops:           3,
		UpThroughput:   2e6,
		DownThroughput: 1e6,
		TotalTime:      0.2,
	}
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		server *httptest.Server
	)

	get := func(path string) (*http.Response, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())

		return rsp, body
	}

	BeforeEach(func() {
		m = NewMonitor()
		server = httptest.NewServer(m.Handler())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should track sweep progress", func() {
		m.SweepStarted("sweep", 3)
		m.RunStarted("sweep", runner.Params{})
		m.RunStarted("sweep", runner.Params{})
		m.RunFinished("sweep", sampleRecord("sweep-1"), nil)

		_, body := get("/api/progress")

		var bars []progressBarSnapshot
		Expect(json.Unmarshal(body, &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("sweep"))
		Expect(bars[0].Total).To(Equal(uint64(3)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))
		Expect(bars[0].Finished).To(Equal(uint64(1)))

		m.RunFinished("sweep", runner.RunRecord{}, errors.New("failed"))
		m.SweepFinished("sweep")

		_, body = get("/api/progress")
		Expect(string(body)).To(Equal("[]"))
	})

	It("should count failed runs", func() {
		bar := m.CreateProgressBar("manual", 2)
		bar.IncrementInProgress(1)
		bar.IncrementFailed(1)
		bar.IncrementFinished(1)

		snapshot := bar.snapshot()
		Expect(snapshot.Failed).To(Equal(uint64(1)))
		Expect(snapshot.Finished).To(Equal(uint64(1)))
		Expect(snapshot.ID).To(Equal("bar-1"))

		m.CompleteProgressBar(bar)
		Expect(m.progressBars).To(BeEmpty())
	})

	It("should list records", func() {
		m.AddRecord(sampleRecord("a"))
		m.AddRecord(sampleRecord("b"))
		m.AddRecord(sampleRecord("a"))

		_, body := get("/api/records")

		var summaries []recordSummary
		Expect(json.Unmarshal(body, &summaries)).To(Succeed())
		Expect(summaries).To(HaveLen(2))
		Expect(summaries[0].ID).To(Equal("a"))
		Expect(summaries[0].Path).To(Equal("1 2"))
		Expect(summaries[0].State).To(Equal("Delivered"))
		Expect(summaries[0].UpMbps).To(Equal(2.0))
		Expect(summaries[0].DownMbps).To(Equal(1.0))
	})

	It("should serialize a single record", func() {
		m.AddRecord(sampleRecord("a"))

		rsp, body := get("/api/record/a")

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).NotTo(BeEmpty())
	})

	It("should answer 404 for unknown records", func() {
		rsp, _ := get("/api/record/nope")

		Expect(rsp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should report process resources", func() {
		rsp, body := get("/api/resource")

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		var res resourceRsp
		Expect(json.Unmarshal(body, &res)).To(Succeed())
		Expect(res.MemorySize).To(BeNumerically(">", 0))
	})

	It("should start and stop a server on a random port", func() {
		url, err := m.WithPortNumber(80).StartServer()

		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(HavePrefix("http://localhost:"))
		Expect(m.StopServer()).To(Succeed())
		Expect(m.StopServer()).To(Succeed())
	})

	It("should pick a random port silently when none is given", func() {
		buf := new(bytes.Buffer)
		m.WithLogger(zerolog.New(buf)).WithPortNumber(0)

		Expect(buf.String()).To(BeEmpty())
		Expect(m.portNumber).To(Equal(0))
	})

	It("should accept the lowest allowed port", func() {
		buf := new(bytes.Buffer)
		m.WithLogger(zerolog.New(buf)).WithPortNumber(minPortNumber)

		Expect(buf.String()).To(BeEmpty())
		Expect(m.portNumber).To(Equal(minPortNumber))
	})

	It("should warn about low ports", func() {
		buf := new(bytes.Buffer)
		m.WithLogger(zerolog.New(buf)).WithPortNumber(minPortNumber - 1)

		Expect(buf.String()).To(ContainSubstring("port not allowed"))
		Expect(m.portNumber).To(Equal(0))
	})

	It("should listen on the requested port", func() {
		l, err := net.Listen("tcp", ":0")
		Expect(err).NotTo(HaveOccurred())
		port := l.Addr().(*net.TCPAddr).Port
		Expect(l.Close()).To(Succeed())

		url, err := m.WithPortNumber(port).StartServer()

		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal(fmt.Sprintf("http://localhost:%d", port)))
		Expect(m.StopServer()).To(Succeed())
	})
})
