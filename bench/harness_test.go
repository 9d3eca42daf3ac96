package bench_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mataccel/bench"
	"github.com/sarchlab/mataccel/config"
	"github.com/sarchlab/mataccel/matrix"
	"github.com/sarchlab/mataccel/timer"
	"github.com/sarchlab/mataccel/util/valgen"
	"github.com/sarchlab/mataccel/verify"
)

type scriptedTimer struct {
	counts  []timer.CycleCount
	wrapped bool
	starts  int
}

func (t *scriptedTimer) Start() {
	t.starts++
}

func (t *scriptedTimer) StopAndRead() timer.CycleCount {
	c := t.counts[0]
	t.counts = t.counts[1:]
	return c
}

func (t *scriptedTimer) Wrapped() bool {
	return t.wrapped
}

type fakeAccelerator struct {
	results matrix.Results
	err     error
}

func (f *fakeAccelerator) Compute(a, b matrix.Matrix16) (matrix.Results, error) {
	return f.results, f.err
}

var _ = Describe("Speedup", func() {
	It("should use integer division", func() {
		s, clamped := bench.Speedup(100, 7)
		Expect(s).To(Equal(uint32(14)))
		Expect(clamped).To(BeFalse())
	})

	It("should clamp a zero hardware count to one cycle", func() {
		s, clamped := bench.Speedup(100, 0)
		Expect(s).To(Equal(uint32(100)))
		Expect(clamped).To(BeTrue())
	})
})

var _ = Describe("Harness", func() {
	var a, b matrix.Matrix16

	BeforeEach(func() {
		a = matrix.FromRows([4][4]int16{
			{1, 2, 3, 4},
			{5, 6, 7, 8},
			{9, 10, 11, 12},
			{13, 14, 15, 16},
		})
		b = matrix.Identity()
	})

	Context("with fake peripherals", func() {
		var (
			tm    *scriptedTimer
			accel *fakeAccelerator
			h     *bench.Harness
		)

		BeforeEach(func() {
			tm = &scriptedTimer{}
			accel = &fakeAccelerator{
				results: matrix.SoftwareEngine{}.Compute(a, b),
			}
			h = bench.HarnessBuilder{}.
				WithAccelerator(accel).
				WithTimer(tm).
				Build()
		})

		It("should not fault when the hardware measures zero cycles", func() {
			tm.counts = []timer.CycleCount{500, 0}

			r, err := h.Run(a, b)

			Expect(err).NotTo(HaveOccurred())
			Expect(tm.starts).To(Equal(2))
			Expect(r.HardwareCycles).To(BeZero())
			Expect(r.Speedup).To(Equal(uint32(500)))
			Expect(r.SpeedupClamped).To(BeTrue())
		})

		It("should compute the speedup from both counts", func() {
			tm.counts = []timer.CycleCount{1000, 30}

			r, err := h.Run(a, b)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.SoftwareCycles).To(Equal(timer.CycleCount(1000)))
			Expect(r.HardwareCycles).To(Equal(timer.CycleCount(30)))
			Expect(r.Speedup).To(Equal(uint32(33)))
			Expect(r.SpeedupClamped).To(BeFalse())
			Expect(r.Consistent()).To(BeTrue())
		})

		It("should record timer wraps", func() {
			tm.counts = []timer.CycleCount{10, 10}
			tm.wrapped = true

			r, err := h.Run(a, b)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.SoftwareWrapped).To(BeTrue())
			Expect(r.HardwareWrapped).To(BeTrue())
		})

		It("should report mismatching results", func() {
			tm.counts = []timer.CycleCount{10, 10}
			accel.results.Product[5]++

			r, err := h.Run(a, b)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Consistent()).To(BeFalse())
			Expect(r.Issues).To(ConsistOf(verify.Issue{
				Type:     verify.IssueProduct,
				Row:      1,
				Col:      1,
				Software: 6,
				Hardware: 7,
			}))
		})

		It("should return accelerator errors", func() {
			tm.counts = []timer.CycleCount{10, 10}
			accel.err = errors.New("bus fault")

			r, err := h.Run(a, b)

			Expect(r).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring("bus fault")))
			Expect(tm.counts).To(BeEmpty())
		})

		It("should write a readable report", func() {
			tm.counts = []timer.CycleCount{10, 0}
			r, err := h.Run(a, b)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			r.WriteReport(&buf)

			Expect(buf.String()).To(ContainSubstring("PERFORMANCE COMPARISON"))
			Expect(buf.String()).To(ContainSubstring("Speedup: 10x"))
			Expect(buf.String()).To(ContainSubstring("divisor clamped"))
			Expect(buf.String()).To(ContainSubstring("results match"))
		})
	})

	Context("on the simulated platform", func() {
		var p *config.Platform

		BeforeEach(func() {
			var err error
			p, err = config.MakeBuilder().Build()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should produce the identity example end to end", func() {
			r, err := p.Harness().Run(a, b)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < matrix.NumElements; i++ {
				Expect(r.Hardware.Sum[i]).To(Equal(int32(a[i]) + int32(b[i])))
				Expect(r.Hardware.Diff[i]).To(Equal(int32(a[i]) - int32(b[i])))
				Expect(r.Hardware.Product[i]).To(Equal(int32(a[i])))
			}
			Expect(r.Consistent()).To(BeTrue())
			Expect(r.HardwareCycles).To(BeNumerically(">", r.SoftwareCycles))
		})

		It("should agree with software on random safe operands", func() {
			h := p.Harness()
			gen := valgen.MakeRandomGen(2024, matrix.SafeInputMax)

			for i := 0; i < 50; i++ {
				x := valgen.Fill(gen)
				y := valgen.Fill(gen)

				r, err := h.Run(x, y)

				Expect(err).NotTo(HaveOccurred())
				Expect(r.Issues).To(BeEmpty())
				Expect(r.Hardware).To(Equal(r.Software))
			}
		})

		It("should agree at the edges of the safe range", func() {
			x := valgen.Fill(valgen.MakeConstGen(matrix.SafeInputMax))
			y := valgen.Fill(valgen.MakeConstGen(-matrix.SafeInputMax))

			r, err := p.Harness().Run(x, y)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Consistent()).To(BeTrue())
			Expect(r.Hardware.Product[0]).To(Equal(int32(-4 * 23170 * 23170)))
		})
	})
})
