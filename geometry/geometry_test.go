package geometry

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Link delays", func() {
	It("should derive propagation delay from distance", func() {
		a := Vector{0, 0, 0}
		b := Vector{0, 0, 600e3}

		Expect(PropagationDelay(a, b)).To(BeNumerically("~", 0.002, 1e-12))
	})

	It("should give zero propagation delay for coincident nodes", func() {
		a := Vector{5, 5, 5}

		Expect(PropagationDelay(a, a)).To(Equal(0.0))
	})

	It("should never return NaN for degenerate positions", func() {
		a := Vector{math.NaN(), 0, 0}

		Expect(PropagationDelay(a, Vector{})).To(Equal(0.0))
		Expect(PropagationDelay(Vector{math.Inf(1), 0, 0}, Vector{})).
			To(Equal(0.0))
	})

	It("should derive transmission delay from size and rate", func() {
		Expect(TransmissionDelay(1000, 100000)).To(BeNumerically("~", 0.08, 1e-12))
		Expect(TransmissionDelay(0, 100000)).To(Equal(0.0))
	})

	It("should tolerate unusable rates", func() {
		Expect(TransmissionDelay(1000, 0)).To(Equal(0.0))
		Expect(TransmissionDelay(1000, -1)).To(Equal(0.0))
	})
})

var _ = Describe("CompressedSize", func() {
	DescribeTable("should floor and clamp",
		func(size uint64, ratio float64, expected uint64) {
			got := CompressedSize(size, ratio)

			Expect(got).To(Equal(expected))
			Expect(got).To(BeNumerically("<=", size))
		},
		Entry("no compression", uint64(1000), 1.0, uint64(1000)),
		Entry("half", uint64(5000), 0.5, uint64(2500)),
		Entry("fifth", uint64(5000), 0.2, uint64(1000)),
		Entry("floors", uint64(999), 0.5, uint64(499)),
		Entry("clamps at one byte", uint64(3), 0.2, uint64(1)),
		Entry("tiny ratio", uint64(10000), 1e-9, uint64(1)),
	)

	It("should hold for all valid ratios", func() {
		for size := uint64(1); size < 3000; size += 37 {
			for ratio := 0.01; ratio <= 1.0; ratio += 0.07 {
				got := CompressedSize(size, ratio)
				want := uint64(math.Max(1, math.Floor(float64(size)*ratio)))

				Expect(got).To(Equal(want))
				Expect(got).To(BeNumerically("<=", size))
			}
		}
	})

	It("should leave the size alone for out-of-range ratios", func() {
		Expect(CompressedSize(1000, 0)).To(Equal(uint64(1000)))
		Expect(CompressedSize(1000, 1.5)).To(Equal(uint64(1000)))
	})
})

var _ = Describe("DelayMode", func() {
	It("should parse names", func() {
		mode, err := ParseDelayMode("Fixed")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(DelayModeFixed))

		mode, err = ParseDelayMode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(mode).To(Equal(DelayModePhysical))

		_, err = ParseDelayMode("warp")
		Expect(err).To(HaveOccurred())
	})

	It("should compute link delay per mode", func() {
		a := Vector{0, 0, 0}
		b := Vector{0, 0, 3e8}

		Expect(LinkDelay(DelayModePhysical, a, b, 0.5)).To(Equal(1.0))
		Expect(LinkDelay(DelayModeZero, a, b, 0.5)).To(Equal(0.0))
		Expect(LinkDelay(DelayModeFixed, a, b, 0.5)).To(Equal(0.5))
		Expect(LinkDelay(DelayModeFixed, a, b, -2)).To(Equal(0.0))
	})

	It("should round trip through text", func() {
		var m DelayMode

		Expect(m.UnmarshalText([]byte("zero"))).To(Succeed())
		Expect(m).To(Equal(DelayModeZero))

		text, err := m.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal("zero"))
	})
})
