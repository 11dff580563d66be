package tracing

import (
	"encoding/csv"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/leorelay/sim/hooking"
)

type sampleDomain struct {
	hooking.HookableBase
	name string
}

func (d *sampleDomain) Name() string {
	return d.name
}

var _ = Describe("HopTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		sender     *sampleDomain
		receiver   *sampleDomain
		tracer     *HopTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		sender = &sampleDomain{name: "Source[0]"}
		receiver = &sampleDomain{name: "Relay[1]"}
		tracer = NewHopTracer(timeTeller)

		CollectTrace(sender, tracer)
		CollectTrace(receiver, tracer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record a hop from start to end", func() {
		timeTeller.EXPECT().Now().Return(0.6)
		StartTask("hop-1", "pkt-1", sender, KindHop, "forward",
			HopDetail{PayloadID: "pkt-1", From: 0, To: 1, SizeBytes: 1000})

		Expect(tracer.InFlight()).To(Equal(1))

		timeTeller.EXPECT().Now().Return(0.682)
		EndTask("hop-1", receiver)

		hops := tracer.Hops()
		Expect(hops).To(HaveLen(1))
		Expect(hops[0]).To(Equal(Hop{
			PayloadID:  "pkt-1",
			From:       0,
			To:         1,
			SizeBytes:  1000,
			DepartTime: 0.6,
			ArriveTime: 0.682,
		}))
		Expect(tracer.InFlight()).To(Equal(0))
	})

	It("should ignore tasks that are not hops", func() {
		StartTask("pkt-1", "", sender, KindPayload, "deliver", nil)
		EndTask("pkt-1", receiver)

		Expect(tracer.Hops()).To(BeEmpty())
	})

	It("should keep steps", func() {
		timeTeller.EXPECT().Now().Return(1.5)
		AddTaskStep("pkt-1", receiver, "compress")

		steps := tracer.Steps("pkt-1")
		Expect(steps).To(HaveLen(1))
		Expect(steps[0].What).To(Equal("compress"))
		Expect(steps[0].Time).To(Equal(1.5))
	})

	It("should refuse the same tracer twice", func() {
		Expect(func() { CollectTrace(sender, tracer) }).To(Panic())
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() {
			StartTask("", "", sender, KindHop, "forward", nil)
		}).To(Panic())
	})
})

var _ = Describe("StartTask without hooks", func() {
	It("should do nothing", func() {
		d := &sampleDomain{name: "Sink[8]"}

		Expect(func() { StartTask("", "", d, "", "", nil) }).NotTo(Panic())
	})
})

var _ = Describe("WriterTracer with CSVTraceWriter", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		dir        string
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)

		var err error
		dir, err = os.MkdirTemp("", "leorelay-trace")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write finished tasks as csv rows", func() {
		writer := NewCSVTraceWriter(filepath.Join(dir, "trace"))
		writer.Init()

		domain := &sampleDomain{name: "Relay[2]"}
		tracer := NewWriterTracer(timeTeller, writer, KindIs(KindHop))
		CollectTrace(domain, tracer)

		timeTeller.EXPECT().Now().Return(1.0)
		StartTask("hop-3", "pkt-1", domain, KindHop, "forward", nil)
		StartTask("pkt-1", "", domain, KindPayload, "deliver", nil)
		timeTeller.EXPECT().Now().Return(1.25)
		EndTask("hop-3", domain)
		EndTask("pkt-1", domain)

		writer.Close()

		f, err := os.Open(writer.Path())
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][0]).To(Equal("ID"))
		Expect(rows[1]).To(Equal([]string{
			"hop-3", "pkt-1", "hop", "forward", "Relay[2]",
			"1.0000000000", "1.2500000000",
		}))
	})

	It("should refuse to overwrite a trace file", func() {
		path := filepath.Join(dir, "exists")
		Expect(os.WriteFile(path+".csv", []byte("x"), 0o644)).To(Succeed())

		Expect(func() { NewCSVTraceWriter(path).Init() }).To(Panic())
	})
})
