package protocol

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// MaxAddressSize is the maximum length in bytes of an endpoint address.
const MaxAddressSize = 24

var (
	// ErrAddressEmpty indicates an attempt to build an address from zero bytes
	ErrAddressEmpty = errors.New("address is empty")

	// ErrAddressTooLong indicates an address exceeding MaxAddressSize bytes
	ErrAddressTooLong = errors.New("address exceeds maximum size")
)

// Address identifies a protocol endpoint. It is an opaque byte string of
// 1 to 24 bytes; the protocol assigns it no structure beyond byte equality.
// Address is a comparable value type and can be used as a map key directly.
type Address struct {
	data [MaxAddressSize]byte
	size uint8
}

// NewAddress returns a new cryptographically random 24-byte address.
// Collisions between independently generated addresses are negligible.
func NewAddress() (Address, error) {
	var addr Address
	if _, err := rand.Read(addr.data[:]); err != nil {
		return Address{}, fmt.Errorf("failed to generate address: %w", err)
	}
	addr.size = MaxAddressSize
	return addr, nil
}

// AddressFromBytes builds an address from a caller-supplied value. The
// caller is responsible for uniqueness of predefined addresses. The input
// must be 1 to 24 bytes; it is copied, so the caller may reuse the slice.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) == 0 {
		return Address{}, ErrAddressEmpty
	}
	if len(b) > MaxAddressSize {
		return Address{}, ErrAddressTooLong
	}
	var addr Address
	copy(addr.data[:], b)
	addr.size = uint8(len(b))
	return addr, nil
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, a.size)
	copy(out, a.data[:a.size])
	return out
}

// Len returns the address length in bytes.
func (a Address) Len() int {
	return int(a.size)
}

// String returns the hexadecimal rendering of the address.
func (a Address) String() string {
	return hex.EncodeToString(a.data[:a.size])
}
