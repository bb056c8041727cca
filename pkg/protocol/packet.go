/*
Package protocol encodes beacon-remote advertisements.

An advertisement carries the selected command and a sequence number inside a single 128-bit
service data element:

	+-------------+--------+------+--------------+----------+---------------+
	| Flags       | Length | Type | Service UUID | Sequence | Command       |
	+-------------+--------+------+--------------+----------+---------------+
	| 02 01 06    | 1 byte | 0x21 | 16 bytes     | 2 bytes  | len(command)  |
	+-------------+--------+------+--------------+----------+---------------+

Length counts the type byte, the UUID, the sequence and the command. The UUID is stored least
significant byte first and the sequence is little-endian. The whole payload never exceeds
MaxPayloadLength bytes: longer encodings are cut at 31 bytes, dropping trailing command bytes.
*/
package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxPayloadLength is the largest legacy advertising payload a radio will accept.
	MaxPayloadLength = 31

	ADTypeFlags          = 0x01
	ADTypeServiceData128 = 0x21

	// Flags element bits.
	FlagsGeneralDiscoverable = 0x02
	FlagsBREDRNotSupported   = 0x04

	SequenceLength = 2

	flagsElementLength = 3
	elementHeaderSize  = 2 // length + type

	// HeaderLength is the number of payload bytes that precede the command text.
	HeaderLength = flagsElementLength + elementHeaderSize + ServiceIDLength + SequenceLength

	// MaxCommandLength is the longest command that is advertised without truncation.
	MaxCommandLength = MaxPayloadLength - HeaderLength

	packetCapacity = 32
)

// Packet is an encoded advertising payload. It is a fixed-capacity buffer, so encoding never
// allocates and never writes past MaxPayloadLength bytes.
type Packet struct {
	data      [packetCapacity]byte
	n         int
	rawLen    int
	truncated bool
}

// Encode builds the advertising payload for command at the given sequence number. The id must
// already be in transmission order.
func Encode(id ServiceID, sequence uint16, command []byte) Packet {
	var p Packet

	p.write(flagsElementLength-1, ADTypeFlags, FlagsGeneralDiscoverable|FlagsBREDRNotSupported)
	p.write(byte(1+ServiceIDLength+SequenceLength+len(command)), ADTypeServiceData128)
	p.write(id[:]...)

	var seq [SequenceLength]byte
	binary.LittleEndian.PutUint16(seq[:], sequence)
	p.write(seq[:]...)
	p.write(command...)

	if p.rawLen > MaxPayloadLength {
		p.n = MaxPayloadLength
		p.truncated = true
	}
	return p
}

func (p *Packet) write(b ...byte) {
	p.rawLen += len(b)
	p.n += copy(p.data[p.n:], b)
}

// Bytes returns the payload.
func (p Packet) Bytes() []byte {
	return p.data[:p.n]
}

// Len returns the payload length, at most MaxPayloadLength.
func (p Packet) Len() int {
	return p.n
}

// RawLen returns the length the payload would have had without truncation.
func (p Packet) RawLen() int {
	return p.rawLen
}

// Truncated reports whether trailing command bytes were dropped to fit MaxPayloadLength.
func (p Packet) Truncated() bool {
	return p.truncated
}

func (p Packet) String() string {
	return fmt.Sprintf("%02x", p.data[:p.n])
}
