// Package hash collects the hash functions this service uses to derive
// transaction signing hashes and script hashes.
package hash

import (
	"crypto/sha256"

	"github.com/Tommo-L/neo-modules/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // matches the hash family NEO scripts are defined over.
)

// Sha256 computes a single SHA-256 round over b.
func Sha256(b []byte) util.Uint256 {
	return sha256.Sum256(b)
}

// DoubleSha256 computes SHA-256 twice over b.
func DoubleSha256(b []byte) util.Uint256 {
	first := Sha256(b)
	return Sha256(first[:])
}

// RipeMD160 computes a RIPEMD-160 hash over b.
func RipeMD160(b []byte) (h util.Uint160) {
	hasher := ripemd160.New()
	_, _ = hasher.Write(b)
	copy(h[:], hasher.Sum(nil))
	return h
}

// Hash160 computes SHA-256 followed by RIPEMD-160, the construction NEO uses
// to turn a verification script into its script hash.
func Hash160(b []byte) util.Uint160 {
	sha := sha256.Sum256(b)
	return RipeMD160(sha[:])
}

// Checksum returns the first four bytes of DoubleSha256(b) as a little
// endian uint32, used by WIF/address encodings.
func Checksum(b []byte) uint32 {
	h := DoubleSha256(b)
	return uint32(h[0]) | uint32(h[1])<<8 | uint32(h[2])<<16 | uint32(h[3])<<24
}
