package relay

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/sim/timing"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

func testPositions() map[int]geometry.Vector {
	return map[int]geometry.Vector{
		0: {X: 0, Y: 0, Z: 0},
		1: {X: 0, Y: 0, Z: 600e3},
		2: {X: 0, Y: 0, Z: 900e3},
		8: {X: 0, Y: 0, Z: 0},
	}
}

var _ = Describe("Forwarding", func() {
	var (
		engine *timing.SerialEngine
		ctx    *RunContext
		source *Source
	)

	setup := func(path topology.Path, ratio float64) {
		topo := topology.MakeBuilder().
			WithPositions(testPositions()).
			Build(path)
		engine = timing.NewSerialEngine()
		ctx = NewRunContext(engine, topo, zerolog.Nop())
		source = Wire(ctx, 1000, ratio)

		_, err := source.ScheduleSend(0)
		Expect(err).NotTo(HaveOccurred())
	}

	It("should deliver along the path and compress once", func() {
		setup(topology.Path{1, 2}, 0.5)

		Expect(engine.Run()).To(Succeed())

		obs := ctx.Observations
		Expect(obs.Departed).To(BeTrue())
		Expect(obs.DepartureTime).To(Equal(timing.VTimeInSec(0)))
		Expect(obs.DepartureSizeBytes).To(Equal(uint64(1000)))
		Expect(obs.CompressionTime).To(BeNumerically("~", 0.082, 1e-12))
		Expect(obs.CompressedSizeBytes).To(Equal(uint64(500)))
		Expect(obs.Delivered).To(BeTrue())
		Expect(obs.ArrivalTime).To(BeNumerically("~", 0.166, 1e-12))
		Expect(obs.Hops).To(Equal(3))
		Expect(obs.FinalState).To(Equal(StateDelivered))

		p := source.Sent()
		Expect(p.OriginalSizeBytes).To(Equal(uint64(1000)))
		Expect(p.SizeBytes).To(Equal(uint64(500)))
		Expect(p.Position).To(Equal(2))
	})

	It("should follow revisits without compressing twice", func() {
		setup(topology.Path{1, 2, 1}, 0.5)

		Expect(engine.Run()).To(Succeed())

		obs := ctx.Observations
		Expect(obs.Delivered).To(BeTrue())
		Expect(obs.Hops).To(Equal(4))
		Expect(obs.CompressedSizeBytes).To(Equal(uint64(500)))
		Expect(obs.TotalCompressedBits).To(Equal(4000.0))
	})

	It("should drop when the successor is unknown", func() {
		setup(topology.Path{1, 9}, 0.5)

		Expect(engine.Run()).To(Succeed())

		obs := ctx.Observations
		Expect(obs.Delivered).To(BeFalse())
		Expect(obs.Dropped).To(BeTrue())
		Expect(obs.DropNode).To(Equal(1))
		Expect(errors.Is(obs.DropErr, ErrUnreachableHop)).To(BeTrue())
		Expect(obs.Hops).To(Equal(1))
		Expect(obs.FinalState).To(Equal(StateDropped))
		Expect(obs.Compressed).To(BeTrue())
	})

	It("should drop at the source when the first relay is unknown", func() {
		setup(topology.Path{9}, 0.5)

		Expect(engine.Run()).To(Succeed())

		obs := ctx.Observations
		Expect(obs.Dropped).To(BeTrue())
		Expect(obs.DropNode).To(Equal(0))
		Expect(obs.Hops).To(Equal(0))
		Expect(obs.Compressed).To(BeFalse())
	})

	It("should report hops to tracers", func() {
		setup(topology.Path{1, 2}, 1.0)

		tracer := tracing.NewHopTracer(engine)
		for _, s := range ctx.Stages() {
			tracing.CollectTrace(s, tracer)
		}

		Expect(engine.Run()).To(Succeed())

		hops := tracer.Hops()
		Expect(hops).To(HaveLen(3))
		Expect(hops[0].From).To(Equal(0))
		Expect(hops[0].To).To(Equal(1))
		Expect(hops[2].To).To(Equal(8))
		Expect(hops[2].ArriveTime).To(
			BeNumerically("~", ctx.Observations.ArrivalTime, 1e-12))
		Expect(tracer.InFlight()).To(BeZero())
		Expect(tracer.Steps(source.Sent().ID)).To(HaveLen(1))
	})

	It("should fail when the source sends twice", func() {
		setup(topology.Path{1}, 1.0)

		_, err := source.ScheduleSend(1)
		Expect(err).NotTo(HaveOccurred())

		Expect(engine.Run()).NotTo(Succeed())
	})

	It("should panic when a node gets two stages", func() {
		setup(topology.Path{1}, 1.0)

		node, _ := ctx.Topology.Node(1)
		Expect(func() {
			ctx.RegisterStage(NewRelay(ctx, node, false, 1))
		}).To(Panic())
	})
})

var _ = Describe("RunContext", func() {
	var (
		mockCtrl  *gomock.Controller
		scheduler *MockEventScheduler
		ctx       *RunContext
		relay     *Relay
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		scheduler = NewMockEventScheduler(mockCtrl)

		topo := topology.MakeBuilder().
			WithPositions(testPositions()).
			Build(topology.Path{1})
		ctx = NewRunContext(scheduler, topo, zerolog.Nop())

		node, _ := topo.Node(1)
		relay = NewRelay(ctx, node, true, 0.5)
		ctx.RegisterStage(relay)
		sinkNode, _ := topo.Node(8)
		ctx.RegisterStage(NewSink(ctx, sinkNode))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule the arrival after propagation and transmission", func() {
		p := ctx.newPayload(1000)
		p.Position = 0

		scheduler.EXPECT().Now().Return(timing.VTimeInSec(1)).AnyTimes()
		scheduler.EXPECT().
			Schedule(gomock.Any()).
			DoAndReturn(func(e timing.Event) (timing.EventHandle, error) {
				evt := e.(*ArrivalEvent)
				Expect(evt.Time()).To(BeNumerically("~", 1.082, 1e-12))
				Expect(evt.Position).To(Equal(1))
				Expect(evt.Payload).To(BeIdenticalTo(p))
				Expect(evt.Handler()).To(BeAssignableToTypeOf(&Sink{}))
				return 1, nil
			})

		Expect(ctx.Forward(relay, p)).To(Succeed())
		Expect(p.State).To(Equal(StateForwarding))
	})

	It("should return scheduling errors", func() {
		p := ctx.newPayload(1000)
		p.Position = 0

		scheduler.EXPECT().Now().Return(timing.VTimeInSec(1)).AnyTimes()
		scheduler.EXPECT().
			Schedule(gomock.Any()).
			Return(timing.EventHandle(0), timing.ErrInvalidDelay)

		err := ctx.Forward(relay, p)
		Expect(errors.Is(err, timing.ErrInvalidDelay)).To(BeTrue())
	})

	It("should drop payloads past the end of the route", func() {
		p := ctx.newPayload(1000)
		p.Position = 1

		scheduler.EXPECT().Now().Return(timing.VTimeInSec(2)).AnyTimes()

		Expect(ctx.Forward(relay, p)).To(Succeed())
		Expect(p.State).To(Equal(StateDropped))
		Expect(ctx.Observations.DropTime).To(Equal(timing.VTimeInSec(2)))
	})

	It("should hand out sequential payload ids", func() {
		Expect(ctx.newPayload(1).ID).To(Equal("pkt-1"))
		Expect(ctx.newPayload(1).ID).To(Equal("pkt-2"))
	})
})

var _ = Describe("State", func() {
	It("should tell terminal states", func() {
		Expect(StateDelivered.Terminal()).To(BeTrue())
		Expect(StateDropped.Terminal()).To(BeTrue())
		Expect(StateForwarding.Terminal()).To(BeFalse())
		Expect(StateReceived.String()).To(Equal("Received"))
		Expect(State(42).String()).To(Equal("State(42)"))
	})
})
