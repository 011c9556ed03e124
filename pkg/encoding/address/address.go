// Package address converts between script hashes and the base58check
// address strings wallets and config files use (spec §6, §4.D signer
// accounts).
package address

import (
	"errors"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/util"
	"github.com/mr-tron/base58"
)

// Prefix is the address version byte. 'N'-prefixed addresses (0x35) match
// the network this node's designated-oracle accounts live on.
const Prefix = 0x35

// ErrInvalidAddress is returned by StringToUint160 for malformed input.
var ErrInvalidAddress = errors.New("invalid address")

// Uint160ToString encodes u as a base58check address string.
func Uint160ToString(u util.Uint160) string {
	b := make([]byte, 0, 25)
	b = append(b, Prefix)
	b = append(b, u.BytesBE()...)
	cs := checksum(b)
	b = append(b, cs...)
	return base58.Encode(b)
}

// StringToUint160 decodes a base58check address string back to its script
// hash, verifying the version byte and checksum.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.Decode(s)
	if err != nil {
		return u, ErrInvalidAddress
	}
	if len(b) != 25 {
		return u, ErrInvalidAddress
	}
	if b[0] != Prefix {
		return u, ErrInvalidAddress
	}
	cs := checksum(b[:21])
	for i, c := range cs {
		if b[21+i] != c {
			return u, ErrInvalidAddress
		}
	}
	copy(u[:], b[1:21])
	return u, nil
}

func checksum(b []byte) []byte {
	h := hash.DoubleSha256(b)
	return h[:4]
}
