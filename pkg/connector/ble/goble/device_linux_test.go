package goble

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseDeviceID", func() {
	It("accepts hciN and bare numbers", func() {
		Expect(parseDeviceID("hci0")).To(Equal(0))
		Expect(parseDeviceID("hci2")).To(Equal(2))
		Expect(parseDeviceID("1")).To(Equal(1))
	})

	It("rejects other names", func() {
		_, err := parseDeviceID("usb0")
		Expect(err).To(MatchError(ErrAdapterInvalidID))
		_, err = parseDeviceID("hci-1")
		Expect(err).To(MatchError(ErrAdapterInvalidID))
	})
})
