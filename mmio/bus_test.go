package mmio_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mataccel/mmio"
)

type access struct {
	write  bool
	offset uint32
	value  uint32
}

type recordingBus struct {
	words []uint32
	log   []access
}

func (b *recordingBus) Read32(offset uint32) uint32 {
	b.log = append(b.log, access{offset: offset, value: b.words[offset]})
	return b.words[offset]
}

func (b *recordingBus) Write32(offset uint32, value uint32) {
	b.log = append(b.log, access{write: true, offset: offset, value: value})
	b.words[offset] = value
}

var _ = Describe("Region", func() {
	var bus *recordingBus

	BeforeEach(func() {
		bus = &recordingBus{words: make([]uint32, 32)}
	})

	It("should translate indices to offsets", func() {
		r := mmio.NewRegion(bus, 16, 4)
		r.Store(3, 7)

		Expect(bus.words[19]).To(Equal(uint32(7)))
		Expect(r.Load(3)).To(Equal(uint32(7)))
		Expect(r.Len()).To(Equal(4))
		Expect(r.Offset()).To(Equal(uint32(16)))
	})

	It("should sign-extend 16-bit stores", func() {
		r := mmio.NewRegion(bus, 0, 2)
		r.StoreInt16(0, -2)
		r.StoreInt16(1, 0x1234)

		Expect(bus.words[0]).To(Equal(uint32(0xFFFFFFFE)))
		Expect(bus.words[1]).To(Equal(uint32(0x1234)))
	})

	It("should reinterpret loads as signed", func() {
		bus.words[5] = 0x80000000
		r := mmio.NewRegion(bus, 4, 2)

		Expect(r.LoadInt32(1)).To(Equal(int32(-2147483648)))
	})

	It("should refuse indices outside the region", func() {
		r := mmio.NewRegion(bus, 0, 16)

		Expect(func() { r.Load(16) }).To(Panic())
		Expect(func() { r.Store(-1, 0) }).To(Panic())
		Expect(bus.log).To(BeEmpty())
	})

	It("should make exactly one access per call", func() {
		r := mmio.NewRegion(bus, 8, 2)
		r.Store(0, 1)
		r.Load(0)
		r.Load(0)

		Expect(bus.log).To(Equal([]access{
			{write: true, offset: 8, value: 1},
			{offset: 8, value: 1},
			{offset: 8, value: 1},
		}))
	})
})

var _ = Describe("Register", func() {
	It("should test single bits", func() {
		bus := &recordingBus{words: make([]uint32, 4)}
		reg := mmio.NewRegister(bus, 3)

		reg.Store(0b10)

		Expect(reg.BitSet(0)).To(BeFalse())
		Expect(reg.BitSet(1)).To(BeTrue())
		Expect(reg.Load()).To(Equal(uint32(2)))
		Expect(reg.Offset()).To(Equal(uint32(3)))
	})
})

var _ = Describe("TracedBus", func() {
	It("should pass accesses through", func() {
		bus := &recordingBus{words: make([]uint32, 4)}
		traced := mmio.TracedBus{Name: "Test", Bus: bus}

		traced.Write32(1, 9)

		Expect(traced.Read32(1)).To(Equal(uint32(9)))
		Expect(bus.log).To(HaveLen(2))
	})

	Context("logging", func() {
		var (
			buf      *bytes.Buffer
			original *slog.Logger
		)

		useLevel := func(level slog.Level) {
			slog.SetDefault(slog.New(slog.NewTextHandler(buf,
				&slog.HandlerOptions{Level: level})))
		}

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			original = slog.Default()
		})

		AfterEach(func() {
			slog.SetDefault(original)
		})

		It("should be dropped at the info level", func() {
			useLevel(slog.LevelInfo)
			traced := mmio.TracedBus{Name: "Test",
				Bus: &recordingBus{words: make([]uint32, 4)}}

			traced.Write32(2, 5)

			Expect(mmio.LevelTrace).To(BeNumerically("<", slog.LevelDebug))
			Expect(buf.String()).To(BeEmpty())
		})

		It("should be written at the trace level", func() {
			useLevel(mmio.LevelTrace)
			traced := mmio.TracedBus{Name: "Test",
				Bus: &recordingBus{words: make([]uint32, 4)}}

			traced.Write32(2, 5)

			Expect(buf.String()).To(ContainSubstring("Behavior=Write"))
			Expect(buf.String()).To(ContainSubstring("Window=Test"))
		})
	})
})
