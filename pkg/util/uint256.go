package util

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32 byte long unsigned integer, typically used to hold a
// double SHA-256 hash (a transaction id, a block hash).
type Uint256 [Uint256Size]byte

// Uint256DecodeStringLE attempts to decode the given string (in little
// endian representation) into a Uint256.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesLE(b)
}

// Uint256DecodeBytesLE attempts to decode the given bytes (in little endian
// representation) into a Uint256.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns a big-endian byte array representation of u.
func (u Uint256) BytesBE() []byte {
	return ToArrayReverse(u[:])
}

// BytesLE returns a little-endian byte array representation of u.
func (u Uint256) BytesLE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// Equals returns true when u and other have the same value.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// StringLE returns the hex representation (little endian, same as the
// on-wire order) of u with a "0x" prefix.
func (u Uint256) StringLE() string {
	return "0x" + hex.EncodeToString(u.BytesLE())
}

// String implements the fmt.Stringer interface.
func (u Uint256) String() string {
	return u.StringLE()
}

// ToArrayReverse returns a new slice that contains a reversed version of b.
func ToArrayReverse(b []byte) []byte {
	dest := make([]byte, len(b))
	for i, j := 0, len(b)-1; j >= 0; i, j = i+1, j-1 {
		dest[i] = b[j]
	}
	return dest
}
