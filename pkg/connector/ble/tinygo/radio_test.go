package tinygo

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"tinygo.org/x/bluetooth"

	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

type fakeAdvertisement struct {
	calls    []string
	options  []bluetooth.AdvertisementOptions
	startErr error
}

func (f *fakeAdvertisement) Configure(options bluetooth.AdvertisementOptions) error {
	f.calls = append(f.calls, "configure")
	f.options = append(f.options, options)
	return nil
}

func (f *fakeAdvertisement) Start() error {
	f.calls = append(f.calls, "start")
	return f.startErr
}

func (f *fakeAdvertisement) Stop() error {
	f.calls = append(f.calls, "stop")
	return nil
}

var _ = Describe("Radio", func() {
	var (
		adv   *fakeAdvertisement
		radio *Radio
	)

	BeforeEach(func() {
		adv = &fakeAdvertisement{}
		radio = newRadioWithAdvertisement(adv)
	})

	It("re-expresses the payload as 128-bit service data", func() {
		p := protocol.Encode(protocol.DefaultServiceID, 0x0201, []byte("HELLO"))
		Expect(radio.SetAdvertisingPayload(p.Bytes())).To(Succeed())

		Expect(adv.options).To(HaveLen(1))
		options := adv.options[0]
		Expect(options.AdvertisementType).To(Equal(bluetooth.AdvertisingTypeNonConnInd))
		Expect(options.ServiceData).To(HaveLen(1))
		Expect(options.ServiceData[0].UUID.String()).To(Equal(protocol.DefaultServiceUUID))
		Expect(options.ServiceData[0].Data).To(Equal([]byte("\x01\x02HELLO")))
	})

	It("stops a running advertisement before reconfiguring it", func() {
		p := protocol.Encode(protocol.DefaultServiceID, 0, []byte("GO"))
		Expect(radio.IsAdvertising()).To(BeFalse())
		Expect(radio.SetAdvertisingPayload(p.Bytes())).To(Succeed())
		Expect(radio.StartAdvertising()).To(Succeed())
		Expect(radio.IsAdvertising()).To(BeTrue())

		p = protocol.Encode(protocol.DefaultServiceID, 1, []byte("GO"))
		Expect(radio.SetAdvertisingPayload(p.Bytes())).To(Succeed())
		Expect(radio.StartAdvertising()).To(Succeed())
		Expect(adv.calls).To(Equal([]string{"configure", "start", "stop", "configure", "start"}))
	})

	It("does not stop an idle advertisement", func() {
		Expect(radio.StopAdvertising()).To(Succeed())
		Expect(adv.calls).To(BeEmpty())
	})

	It("rejects payloads without service data", func() {
		err := radio.SetAdvertisingPayload([]byte("\x02\x01\x06"))
		Expect(err).To(MatchError(protocol.ErrMissingServiceData))
		Expect(adv.calls).To(BeEmpty())
	})

	It("classifies busy adapters as temporary", func() {
		adv.startErr = errors.New("org.bluez.Error.InProgress")
		err := radio.StartAdvertising()
		Expect(protocol.Temporary(err)).To(BeTrue())
		Expect(radio.IsAdvertising()).To(BeFalse())

		adv.startErr = errors.New("org.bluez.Error.Failed")
		err = radio.StartAdvertising()
		Expect(err).To(HaveOccurred())
		Expect(protocol.Temporary(err)).To(BeFalse())
	})

	It("refuses to work after Close", func() {
		Expect(radio.Close()).To(Succeed())
		Expect(radio.Close()).To(Succeed())
		Expect(radio.StartAdvertising()).To(MatchError(protocol.ErrRadioUnavailable))
	})
})
