package util

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20 byte long unsigned integer, typically used to hold a
// script hash (account, contract).
type Uint160 [Uint160Size]byte

// Uint160DecodeStringLE attempts to decode the given string (in little
// endian representation) into a Uint160.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesLE(b)
}

// Uint160DecodeBytesLE attempts to decode the given bytes (in little endian
// representation) into a Uint160.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns a big-endian byte array representation of u.
func (u Uint160) BytesBE() []byte {
	return ToArrayReverse(u[:])
}

// BytesLE returns a little-endian byte array representation of u.
func (u Uint160) BytesLE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// Equals returns true when u and other have the same value.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// StringLE returns the hex representation (little endian) of u with a "0x"
// prefix.
func (u Uint160) StringLE() string {
	return "0x" + hex.EncodeToString(u.BytesLE())
}

// String implements the fmt.Stringer interface.
func (u Uint160) String() string {
	return u.StringLE()
}

// Less imposes an arbitrary but total, deterministic byte-lexicographic
// ordering over Uint160 values, used when a stable traversal order over
// script hashes is required.
func (u Uint160) Less(other Uint160) bool {
	for i := range u {
		if u[i] != other[i] {
			return u[i] < other[i]
		}
	}
	return false
}
