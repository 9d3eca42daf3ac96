package device

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/mataccel/api"
)

var _ = Describe("Bus", func() {
	var (
		engine sim.Engine
		bus    *Bus
		accel  *Accelerator
		clock  EngineClock
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		bus = BusBuilder{}.
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			Build("Bus")
		accel = AcceleratorBuilder{}.
			WithEngine(engine).
			WithFreq(100 * sim.MHz).
			Build("Accel")
		clock = EngineClock{Engine: engine, Freq: 100 * sim.MHz}
	})

	It("should spend one cycle per access", func() {
		w := bus.Window(accel)

		before := clock.Now()
		w.Write32(api.OperandAOffset, 7)
		w.Write32(api.OperandBOffset, 8)
		Expect(w.Read32(api.OperandAOffset)).To(Equal(uint32(7)))

		Expect(bus.Accesses()).To(Equal(uint64(3)))
		Expect(clock.Now() - before).To(BeNumerically(">=", 3))
	})

	It("should let the device finish within the start access", func() {
		w := bus.Window(accel)
		w.Write32(api.OperandAOffset, 3)
		w.Write32(api.OperandBOffset, 4)
		w.Write32(api.ControlOffset, api.ControlStart)

		Expect(w.Read32(api.StatusOffset) & 1).To(Equal(uint32(1)))
		Expect(int32(w.Read32(api.SumOffset))).To(Equal(int32(7)))
		Expect(int32(w.Read32(api.ProductOffset))).To(Equal(int32(12)))
		Expect(accel.Busy()).To(BeFalse())
	})
})
