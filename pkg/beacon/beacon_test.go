package beacon_test

import (
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/beaconmesh/beacon-remote/mocks"
	"github.com/beaconmesh/beacon-remote/pkg/beacon"
	"github.com/beaconmesh/beacon-remote/pkg/command"
	"github.com/beaconmesh/beacon-remote/pkg/connector/sim"
	"github.com/beaconmesh/beacon-remote/pkg/display"
	"github.com/beaconmesh/beacon-remote/pkg/input"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

func short(key input.Key) input.Event {
	return input.Event{Key: key, Kind: input.KindShort}
}

// advertised decodes the sequence number and command from a payload.
func advertised(payload []byte) (uint16, string) {
	ExpectWithOffset(1, len(payload)).To(BeNumerically(">=", protocol.HeaderLength))
	return binary.LittleEndian.Uint16(payload[21:23]), string(payload[23:])
}

var _ = Describe("Beacon", func() {
	var (
		catalog *command.Catalog
		radio   *sim.Radio
		b       *beacon.Beacon
	)

	BeforeEach(func() {
		catalog = command.Default()
		radio = sim.New()
		var err error
		b, err = beacon.New(catalog, radio)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("New", func() {
		It("requires a radio and a catalog", func() {
			_, err := beacon.New(catalog, nil)
			Expect(err).To(MatchError(beacon.ErrNilRadio))
			_, err = beacon.New(nil, radio)
			Expect(err).To(MatchError(beacon.ErrNilCatalog))
		})

		It("does not touch the radio", func() {
			Expect(radio.Calls()).To(BeEmpty())
			Expect(b.State()).To(Equal(beacon.State{CommandIndex: 0, Sequence: 0, Advertising: true}))
		})
	})

	Describe("Start", func() {
		It("advertises the first command with sequence 0", func() {
			b.Start()
			Expect(radio.IsAdvertising()).To(BeTrue())
			Expect(radio.Payload()).To(Equal(protocol.Encode(protocol.DefaultServiceID, 0, []byte("HELLO")).Bytes()))
			Expect(b.Packet().Bytes()).To(Equal(radio.Payload()))
		})

		It("only pushes once", func() {
			b.Start()
			b.Start()
			Expect(radio.Count(sim.OpSet)).To(Equal(1))
			Expect(radio.Count(sim.OpStart)).To(Equal(1))
		})

		It("takes over a radio that is already advertising", func() {
			radio = sim.NewAdvertising([]byte("\x02\x01\x06"))
			b, _ = beacon.New(catalog, radio)
			b.Start()
			calls := radio.Calls()
			Expect(calls).To(HaveLen(3))
			Expect(calls[0].Op).To(Equal(sim.OpStop))
			Expect(calls[1].Op).To(Equal(sim.OpSet))
			Expect(calls[2].Op).To(Equal(sim.OpStart))
		})

		It("uses the configured service ID", func() {
			id := protocol.MustParseServiceID("00001234-0000-1000-8000-00805f9b34fb")
			b, _ = beacon.New(catalog, radio, beacon.WithServiceID(id))
			b.Start()
			got, _, err := protocol.ServiceData(radio.Payload())
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(id))
		})
	})

	Describe("Apply", func() {
		BeforeEach(func() {
			b.Start()
		})

		It("selects the next command with a new sequence number", func() {
			Expect(b.Apply(beacon.Next)).To(BeFalse())
			Expect(b.State()).To(Equal(beacon.State{CommandIndex: 1, Sequence: 1, Advertising: true}))
			payload := radio.Payload()
			Expect(payload[21:23]).To(Equal([]byte{0x01, 0x00}))
			Expect(string(payload[23:])).To(Equal("STOP"))
		})

		It("wraps around the catalog in both directions", func() {
			b.Apply(beacon.Previous)
			Expect(b.Command()).To(Equal("SAFE"))
			b.Apply(beacon.Next)
			Expect(b.Command()).To(Equal("HELLO"))
		})

		It("returns to the same command after a full cycle", func() {
			for i := 0; i < catalog.Count(); i++ {
				b.Apply(beacon.Next)
			}
			Expect(b.State().CommandIndex).To(Equal(0))
			Expect(b.State().Sequence).To(Equal(uint16(catalog.Count())))
		})

		It("undoes Next with Previous", func() {
			for start := 0; start < catalog.Count(); start++ {
				index := b.State().CommandIndex
				b.Apply(beacon.Next)
				b.Apply(beacon.Previous)
				Expect(b.State().CommandIndex).To(Equal(index))
				b.Apply(beacon.Next)
			}
		})

		It("resends the same command with a new sequence number", func() {
			b.Apply(beacon.Next)
			b.Apply(beacon.Resend)
			seq, cmd := advertised(radio.Payload())
			Expect(seq).To(Equal(uint16(2)))
			Expect(cmd).To(Equal("STOP"))
			Expect(radio.Count(sim.OpStart)).To(Equal(3))
		})

		It("wraps the sequence number", func() {
			for i := 0; i < 65535; i++ {
				b.Apply(beacon.Resend)
			}
			Expect(b.State().Sequence).To(Equal(uint16(65535)))
			b.Apply(beacon.Resend)
			Expect(b.State().Sequence).To(Equal(uint16(0)))
			Expect(radio.Payload()[21:23]).To(Equal([]byte{0x00, 0x00}))
		})

		It("stops advertising once on Exit", func() {
			Expect(b.Apply(beacon.Exit)).To(BeTrue())
			Expect(radio.IsAdvertising()).To(BeFalse())
			before := b.State()
			Expect(before.Advertising).To(BeFalse())
			Expect(before.Sequence).To(Equal(uint16(0)))

			Expect(b.Apply(beacon.Next)).To(BeTrue())
			Expect(b.Apply(beacon.Exit)).To(BeTrue())
			Expect(b.State()).To(Equal(before))
			Expect(radio.Count(sim.OpStop)).To(Equal(1))
			Expect(radio.Count(sim.OpStart)).To(Equal(1))
		})

		It("keeps going when the radio fails", func() {
			radio.FailNext(sim.OpSet, protocol.ErrRadioBusy)
			Expect(b.Apply(beacon.Next)).To(BeFalse())
			Expect(b.State().Sequence).To(Equal(uint16(1)))

			radio.FailNext(sim.OpStart, errors.New("controller reset"))
			b.Apply(beacon.Next)
			seq, cmd := advertised(radio.Payload())
			Expect(seq).To(Equal(uint16(2)))
			Expect(cmd).To(Equal("GO"))
		})
	})

	Describe("HandleEvent", func() {
		BeforeEach(func() {
			b.Start()
		})

		It("maps short presses to transitions", func() {
			b.HandleEvent(short(input.KeyUp))
			Expect(b.Command()).To(Equal("STOP"))
			b.HandleEvent(short(input.KeyDown))
			Expect(b.Command()).To(Equal("HELLO"))
			b.HandleEvent(short(input.KeyOK))
			Expect(b.State().Sequence).To(Equal(uint16(3)))
			Expect(b.HandleEvent(short(input.KeyBack))).To(BeTrue())
			Expect(radio.IsAdvertising()).To(BeFalse())
		})

		It("ignores everything that is not a short press", func() {
			for _, key := range []input.Key{input.KeyUp, input.KeyDown, input.KeyOK, input.KeyBack} {
				for _, kind := range []input.Kind{input.KindPress, input.KindRelease, input.KindLong, input.KindRepeat} {
					Expect(b.HandleEvent(input.Event{Key: key, Kind: kind})).To(BeFalse())
				}
			}
			Expect(b.HandleEvent(short(input.KeyLeft))).To(BeFalse())
			Expect(b.HandleEvent(short(input.KeyRight))).To(BeFalse())
			Expect(b.State()).To(Equal(beacon.State{Advertising: true}))
			Expect(radio.Calls()).To(HaveLen(2))
		})
	})

	Describe("Run", func() {
		It("returns after Back and leaves the radio silent", func() {
			events := make(chan input.Event, 4)
			events <- short(input.KeyUp)
			events <- short(input.KeyUp)
			events <- short(input.KeyBack)
			events <- short(input.KeyUp)

			Expect(b.Run(context.Background(), events)).To(Succeed())
			Expect(b.Command()).To(Equal("GO"))
			Expect(radio.IsAdvertising()).To(BeFalse())
			Expect(events).To(HaveLen(1))
		})

		It("silences the radio when the input closes", func() {
			events := make(chan input.Event)
			close(events)
			Expect(b.Run(context.Background(), events)).To(Succeed())
			Expect(radio.IsAdvertising()).To(BeFalse())
			Expect(radio.Count(sim.OpStop)).To(Equal(1))
		})

		It("silences the radio when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error)
			go func() {
				done <- b.Run(ctx, make(chan input.Event))
			}()
			Eventually(radio.IsAdvertising).Should(BeTrue())
			cancel()
			Eventually(done, time.Second).Should(Receive(MatchError(context.Canceled)))
			Expect(radio.IsAdvertising()).To(BeFalse())
		})

		It("handles a scripted session", func() {
			src := input.NewScript(strings.NewReader("up 2\nlong ok\nok\ndown\n"))
			events, wait := input.Stream(context.Background(), src)
			Expect(b.Run(context.Background(), events)).To(Succeed())
			Expect(wait()).To(Succeed())
			Expect(radio.IsAdvertising()).To(BeFalse())
			seq, cmd := advertised(radio.Payload())
			Expect(seq).To(Equal(uint16(4)))
			Expect(cmd).To(Equal("STOP"))
		})
	})
})

var _ = Describe("Beacon with mocks", func() {
	var (
		ctrl     *gomock.Controller
		radio    *mocks.MockRadio
		renderer *mocks.MockRenderer
		b        *beacon.Beacon
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		radio = mocks.NewMockRadio(ctrl)
		renderer = mocks.NewMockRenderer(ctrl)
		var err error
		b, err = beacon.New(command.Default(), radio, beacon.WithRenderer(renderer))
		Expect(err).ToNot(HaveOccurred())
	})

	It("claims the radio before the first push", func() {
		gomock.InOrder(
			radio.EXPECT().IsAdvertising().Return(true),
			radio.EXPECT().StopAdvertising().Return(nil),
			radio.EXPECT().SetAdvertisingPayload(protocol.Encode(protocol.DefaultServiceID, 0, []byte("HELLO")).Bytes()).Return(nil),
			radio.EXPECT().StartAdvertising().Return(nil),
			renderer.EXPECT().Render(display.View{Command: "HELLO", Sequence: 0, Advertising: true}).Return(nil),
		)
		b.Start()
	})

	It("proceeds when the claim fails", func() {
		gomock.InOrder(
			radio.EXPECT().IsAdvertising().Return(true),
			radio.EXPECT().StopAdvertising().Return(protocol.ErrRadioBusy),
			radio.EXPECT().SetAdvertisingPayload(gomock.Any()).Return(nil),
			radio.EXPECT().StartAdvertising().Return(nil),
		)
		renderer.EXPECT().Render(gomock.Any()).Return(nil)
		b.Start()
	})

	It("does not stop an idle radio on start", func() {
		radio.EXPECT().IsAdvertising().Return(false)
		radio.EXPECT().SetAdvertisingPayload(gomock.Any()).Return(nil)
		radio.EXPECT().StartAdvertising().Return(nil)
		renderer.EXPECT().Render(gomock.Any()).Return(nil)
		b.Start()
	})

	It("renders after every transition and once more on exit", func() {
		radio.EXPECT().IsAdvertising().Return(false)
		radio.EXPECT().SetAdvertisingPayload(gomock.Any()).Return(nil).Times(2)
		radio.EXPECT().StartAdvertising().Return(nil).Times(2)
		radio.EXPECT().StopAdvertising().Return(nil).Times(1)
		gomock.InOrder(
			renderer.EXPECT().Render(display.View{Command: "HELLO", Sequence: 0, Advertising: true}).Return(nil),
			renderer.EXPECT().Render(display.View{Command: "STOP", Sequence: 1, Advertising: true}).Return(errors.New("display gone")),
			renderer.EXPECT().Render(display.View{Command: "STOP", Sequence: 1, Advertising: false}).Return(nil),
		)
		b.Start()
		b.Apply(beacon.Next)
		b.Apply(beacon.Exit)
		b.Apply(beacon.Exit)
	})

	It("swallows radio errors", func() {
		radio.EXPECT().IsAdvertising().Return(false)
		radio.EXPECT().SetAdvertisingPayload(gomock.Any()).Return(protocol.ErrRadioUnavailable).Times(2)
		radio.EXPECT().StartAdvertising().Return(protocol.ErrRadioBusy).Times(2)
		renderer.EXPECT().Render(gomock.Any()).Return(nil).Times(2)
		b.Start()
		Expect(b.Apply(beacon.Resend)).To(BeFalse())
		Expect(b.State().Sequence).To(Equal(uint16(1)))
	})

	It("fills the payload with an eight byte command", func() {
		catalog, err := command.New("ABCDEFGH")
		Expect(err).ToNot(HaveOccurred())
		b, _ = beacon.New(catalog, radio)
		radio.EXPECT().IsAdvertising().Return(false)
		radio.EXPECT().SetAdvertisingPayload(gomock.Len(protocol.MaxPayloadLength)).Return(nil)
		radio.EXPECT().StartAdvertising().Return(nil)
		b.Start()
		Expect(b.Packet().Truncated()).To(BeFalse())
	})
})
