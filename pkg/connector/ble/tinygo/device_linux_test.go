package tinygo

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BlueZ adapter errors", func() {
	It("recognises a missing system bus", func() {
		err := errors.New("dial unix /var/run/dbus/system_bus_socket: connect: no such file or directory")
		Expect(IsAdapterError(err)).To(BeTrue())
	})

	It("recognises a missing bluetoothd", func() {
		err := errors.New("The name org.bluez was not provided by any .service files")
		Expect(IsAdapterError(err)).To(BeTrue())
	})

	It("does not treat advertising refusals as adapter errors", func() {
		Expect(IsAdapterError(errors.New("org.bluez.Error.InProgress"))).To(BeFalse())
	})

	It("points at the HCI radio as an alternative", func() {
		msg := AdapterErrorHelpMessage(errors.New("boom"))
		Expect(msg).To(ContainSubstring("boom"))
		Expect(msg).To(ContainSubstring("-radio hci"))
		Expect(msg).To(ContainSubstring("bluetoothctl list"))
	})

	It("rejects adapter names BlueZ cannot have", func() {
		_, err := newAdapter("usb0")
		Expect(err).To(MatchError(ErrAdapterInvalidID))
	})
})
