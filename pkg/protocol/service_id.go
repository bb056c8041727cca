package protocol

import (
	"encoding/binary"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// DefaultServiceUUID identifies beacon-remote advertisements. Listeners filter scan results on it.
const DefaultServiceUUID = "183e895c-2fc8-406c-941d-4032d84c6c9a"

// ServiceIDLength is the size of a 128-bit service UUID on air.
const ServiceIDLength = 16

// ServiceID is a 128-bit service UUID in transmission order, least-significant byte first. The
// canonical text form 183e895c-...-4c6c9a therefore starts with 0x9a on air.
type ServiceID [ServiceIDLength]byte

// DefaultServiceID is DefaultServiceUUID in transmission order.
var DefaultServiceID = MustParseServiceID(DefaultServiceUUID)

// ParseServiceID parses a canonical textual UUID and returns its on-air byte order.
func ParseServiceID(s string) (ServiceID, error) {
	uuid, err := bluetooth.ParseUUID(s)
	if err != nil {
		return ServiceID{}, fmt.Errorf("%w '%s': %s", ErrInvalidServiceID, s, err)
	}
	return ServiceIDFromUUID(uuid), nil
}

// MustParseServiceID is like ParseServiceID but panics if s is not a valid UUID.
func MustParseServiceID(s string) ServiceID {
	id, err := ParseServiceID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ServiceIDFromUUID converts a bluetooth.UUID into transmission order. The UUID stores its least
// significant 32-bit word first, so writing each word little-endian yields the on-air layout.
func ServiceIDFromUUID(uuid bluetooth.UUID) ServiceID {
	var id ServiceID
	for i, word := range uuid {
		binary.LittleEndian.PutUint32(id[4*i:], word)
	}
	return id
}

// UUID returns id as a bluetooth.UUID.
func (id ServiceID) UUID() bluetooth.UUID {
	var uuid bluetooth.UUID
	for i := range uuid {
		uuid[i] = binary.LittleEndian.Uint32(id[4*i:])
	}
	return uuid
}

// String returns the canonical textual form of id.
func (id ServiceID) String() string {
	return id.UUID().String()
}
