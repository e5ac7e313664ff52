package ledger

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// AddressLen is the byte length of a ledger address.
const AddressLen = 32

// Address identifies an account on the ledger.
type Address [AddressLen]byte

// ZeroAddress is the all-zero address. No account can live there.
var ZeroAddress Address

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Equal(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// AddressFromBytes copies b into an Address. b must be exactly AddressLen bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("address must be %d bytes, got %d", AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a hex-encoded address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return AddressFromBytes(b)
}
