package protocol

import (
	"encoding/binary"
	"errors"
)

// MaxHeaderSize is the upper bound on an encoded header, and therefore on
// a storage entry name carrying protocol traffic.
const MaxHeaderSize = 100

// Field tags of the header encoding. The order is fixed: sender,
// receiver, counter.
const (
	tagSender   = 0x01
	tagReceiver = 0x02
	tagCounter  = 0x03

	counterSize = 8
)

// ErrMalformedHeader indicates bytes that are not the canonical encoding
// of any message header. Scanners treat such entries as foreign files
// sharing the storage and skip them silently.
var ErrMalformedHeader = errors.New("malformed message header")

// MessageHeader is the addressing triple of a single message blob. Its
// canonical encoding is the blob's storage entry name; both peers derive
// it independently from their connection state.
type MessageHeader struct {
	Sender   Address
	Receiver Address
	Counter  uint64
}

// EncodeHeader returns the canonical byte encoding of h. Encoding is pure
// and total: equal headers encode to identical bytes on every platform,
// and distinct headers never collide.
func EncodeHeader(h MessageHeader) []byte {
	buf := make([]byte, 0, 6+h.Sender.Len()+h.Receiver.Len()+counterSize)
	buf = append(buf, tagSender, byte(h.Sender.Len()))
	buf = append(buf, h.Sender.data[:h.Sender.size]...)
	buf = append(buf, tagReceiver, byte(h.Receiver.Len()))
	buf = append(buf, h.Receiver.data[:h.Receiver.size]...)
	buf = append(buf, tagCounter, counterSize)
	buf = binary.BigEndian.AppendUint64(buf, h.Counter)
	return buf
}

// ParseHeader decodes a storage entry name back into a message header. It
// accepts only the exact canonical form produced by EncodeHeader; any
// deviation (wrong tag, wrong field order, out-of-range length,
// truncation, trailing bytes) yields ErrMalformedHeader.
func ParseHeader(name []byte) (MessageHeader, error) {
	if len(name) > MaxHeaderSize {
		return MessageHeader{}, ErrMalformedHeader
	}

	sender, rest, err := parseAddressField(name, tagSender)
	if err != nil {
		return MessageHeader{}, err
	}
	receiver, rest, err := parseAddressField(rest, tagReceiver)
	if err != nil {
		return MessageHeader{}, err
	}
	if len(rest) != 2+counterSize || rest[0] != tagCounter || rest[1] != counterSize {
		return MessageHeader{}, ErrMalformedHeader
	}
	counter := binary.BigEndian.Uint64(rest[2:])

	return MessageHeader{Sender: sender, Receiver: receiver, Counter: counter}, nil
}

// parseAddressField consumes one tagged address field from the front of b
// and returns the remainder.
func parseAddressField(b []byte, tag byte) (Address, []byte, error) {
	if len(b) < 2 || b[0] != tag {
		return Address{}, nil, ErrMalformedHeader
	}
	size := int(b[1])
	if size == 0 || size > MaxAddressSize || len(b) < 2+size {
		return Address{}, nil, ErrMalformedHeader
	}
	addr, err := AddressFromBytes(b[2 : 2+size])
	if err != nil {
		return Address{}, nil, ErrMalformedHeader
	}
	return addr, b[2+size:], nil
}
