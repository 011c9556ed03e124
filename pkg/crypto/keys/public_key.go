package keys

import (
	"bytes"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"math/big"
	"sort"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/encoding/address"
	"github.com/Tommo-L/neo-modules/pkg/util"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// opPushData1 and opCheckSig mirror the opcodes pkg/smartcontract uses to
// build verification scripts; duplicated here (rather than imported) to
// avoid a keys<->smartcontract import cycle, since smartcontract already
// depends on keys for multisig assembly.
const (
	opPushData1 = 0x0c
	opCheckSig  = 0x9c
)

// PublicKey is an ECDSA public key over the oracle curve, (de)serialized in
// 33-byte compressed form.
type PublicKey struct {
	X, Y  *big.Int
	Curve elliptic.Curve
}

// NewPublicKeyFromBytes decodes a compressed (33-byte) or uncompressed
// (65-byte) public key.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{X: pub.X(), Y: pub.Y(), Curve: secp256k1.S256()}, nil
}

// NewPublicKeyFromString decodes a hex-encoded compressed public key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns the 33-byte compressed encoding of p, or a single 0x00 byte
// for the point at infinity (an empty PublicKey).
func (p *PublicKey) Bytes() []byte {
	if p == nil || p.X == nil || p.Y == nil {
		return []byte{0x00}
	}
	pub := secp256k1.NewPublicKey(toFieldVal(p.X), toFieldVal(p.Y))
	return pub.SerializeCompressed()
}

func toFieldVal(v *big.Int) *secp256k1.FieldVal {
	var f secp256k1.FieldVal
	f.SetByteSlice(v.Bytes())
	return &f
}

// Verify reports whether sig (a 64-byte r||s signature) is a valid
// signature of hashedData under p.
func (p *PublicKey) Verify(sig []byte, hashedData []byte) bool {
	if p == nil || p.X == nil || p.Y == nil {
		return false
	}
	if len(sig) != 64 {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) {
		return false // overflowed the group order
	}
	if s.SetByteSlice(sig[32:]) {
		return false
	}
	pub := secp256k1.NewPublicKey(toFieldVal(p.X), toFieldVal(p.Y))
	signature := dcrecdsa.NewSignature(&r, &s)
	return signature.Verify(hashedData, pub)
}

// GetScriptHash returns the script hash of p's single-key verification
// script, the account a wallet address is derived from.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	b := p.Bytes()
	script := make([]byte, 0, len(b)+2)
	script = append(script, opPushData1, byte(len(b)))
	script = append(script, b...)
	script = append(script, opCheckSig)
	return hash.Hash160(script)
}

// Address returns the base58check address string for p's account.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Equals reports whether p and other encode the same point.
func (p *PublicKey) Equals(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return bytes.Equal(p.Bytes(), other.Bytes())
}

// ErrInvalidPublicKey is returned when a byte string does not decode to a
// valid point on the curve.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKeys is a slice of *PublicKey with a deterministic, compressed-byte
// lexicographic ordering, the ordering the multisig assembly rule (spec
// §4.E, §9) requires.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
}

// Sort sorts keys in ascending compressed-byte order, in place.
func (keys PublicKeys) Sort() {
	sort.Sort(keys)
}

// Contains reports whether keys contains a key equal to pub.
func (keys PublicKeys) Contains(pub *PublicKey) bool {
	for _, k := range keys {
		if k.Equals(pub) {
			return true
		}
	}
	return false
}
