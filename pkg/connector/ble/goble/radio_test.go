package goble

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

type fakeController struct {
	calls   []string
	ad      []byte
	failOn  string
	failErr error
}

func (f *fakeController) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return f.failErr
	}
	return nil
}

func (f *fakeController) SetAdvertisement(ad []byte, sr []byte) error {
	f.ad = append([]byte(nil), ad...)
	return f.call("set")
}

func (f *fakeController) Advertise() error {
	return f.call("start")
}

func (f *fakeController) StopAdvertising() error {
	return f.call("stop")
}

var _ = Describe("Radio", func() {
	var (
		ctrl  *fakeController
		radio *Radio
	)

	BeforeEach(func() {
		ctrl = &fakeController{}
		radio = newRadioWithController(ctrl)
	})

	It("assumes a fresh controller may be advertising", func() {
		Expect(radio.IsAdvertising()).To(BeTrue())
		Expect(radio.StopAdvertising()).To(Succeed())
		Expect(radio.IsAdvertising()).To(BeFalse())
	})

	It("passes the payload through unchanged", func() {
		p := protocol.Encode(protocol.DefaultServiceID, 9, []byte("GO"))
		Expect(radio.SetAdvertisingPayload(p.Bytes())).To(Succeed())
		Expect(radio.StartAdvertising()).To(Succeed())
		Expect(ctrl.ad).To(Equal(p.Bytes()))
		Expect(ctrl.calls).To(Equal([]string{"set", "start"}))
		Expect(radio.IsAdvertising()).To(BeTrue())
	})

	It("rejects payloads longer than an advertising PDU", func() {
		err := radio.SetAdvertisingPayload(make([]byte, 32))
		Expect(err).To(MatchError(protocol.ErrPayloadTooLong))
		Expect(ctrl.calls).To(BeEmpty())
	})

	It("marks disallowed commands as temporary", func() {
		ctrl.failOn = "start"
		ctrl.failErr = errors.New("Command Disallowed")
		err := radio.StartAdvertising()
		Expect(err).To(HaveOccurred())
		Expect(protocol.Temporary(err)).To(BeTrue())
		Expect(radio.IsAdvertising()).To(BeTrue(), "state is still unknown after a failed start")
	})

	It("does not mark other failures as temporary", func() {
		ctrl.failOn = "set"
		ctrl.failErr = errors.New("invalid parameters")
		err := radio.SetAdvertisingPayload([]byte{0x02, 0x01, 0x06})
		Expect(err).To(HaveOccurred())
		Expect(protocol.Temporary(err)).To(BeFalse())
	})

	It("is unusable after Close", func() {
		Expect(radio.Close()).To(Succeed())
		Expect(radio.Close()).To(Succeed())
		Expect(radio.StartAdvertising()).To(MatchError(protocol.ErrRadioUnavailable))
		Expect(radio.StopAdvertising()).To(MatchError(protocol.ErrRadioUnavailable))
	})
})
