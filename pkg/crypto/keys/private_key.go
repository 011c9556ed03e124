// Package keys implements the ECDSA key material oracle nodes use to sign
// response transactions and peer-gossip envelopes, over the secp256k1 curve
// of github.com/decred/dcrd/dcrec/secp256k1.
package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/mr-tron/base58"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// wifVersion and wifCompressed are the version/suffix bytes a WIF-encoded
// private key carries (spec §6 "UnlockWallet", wallet file key material).
const (
	wifVersion    = 0x80
	wifCompressed = 0x01
)

// ErrInvalidWIF is returned when a string fails to decode as a WIF key.
var ErrInvalidWIF = errors.New("invalid WIF")

// PrivateKey is an ECDSA private key over the oracle curve.
type PrivateKey struct {
	b []byte
	ecdsa.PrivateKey
}

// NewPrivateKey creates a new random PrivateKey.
func NewPrivateKey() (*PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return privFromScalar(priv), nil
}

func privFromScalar(priv *secp256k1.PrivateKey) *PrivateKey {
	pk := priv.ToECDSA()
	return &PrivateKey{
		b:          priv.Serialize(),
		PrivateKey: *pk,
	}
}

// NewPrivateKeyFromHex creates a PrivateKey from its hex-encoded scalar.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes creates a PrivateKey from a 32-byte scalar.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, errors.New("invalid private key length")
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	return privFromScalar(priv), nil
}

// NewPrivateKeyFromWIF decodes a base58check WIF-encoded private key.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	b, err := base58.Decode(wif)
	if err != nil {
		return nil, ErrInvalidWIF
	}
	if len(b) != 38 || b[0] != wifVersion || b[33] != wifCompressed {
		return nil, ErrInvalidWIF
	}
	payload, checksum := b[:34], b[34:]
	want := hash.DoubleSha256(payload)
	for i, c := range want[:4] {
		if checksum[i] != c {
			return nil, ErrInvalidWIF
		}
	}
	return NewPrivateKeyFromBytes(b[1:33])
}

// WIF returns the base58check WIF encoding of p.
func (p *PrivateKey) WIF() string {
	payload := make([]byte, 0, 34)
	payload = append(payload, wifVersion)
	payload = append(payload, p.Bytes()...)
	payload = append(payload, wifCompressed)
	cs := hash.DoubleSha256(payload)
	payload = append(payload, cs[:4]...)
	return base58.Encode(payload)
}

// Address returns the base58check address string for p's account.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// Bytes returns the 32-byte scalar representation of p.
func (p *PrivateKey) Bytes() []byte {
	b := make([]byte, 32)
	copy(b, p.b)
	return b
}

// String returns the hex-encoded scalar.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// PublicKey returns the PublicKey matching p.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{
		X:     p.PrivateKey.PublicKey.X,
		Y:     p.PrivateKey.PublicKey.Y,
		Curve: p.PrivateKey.PublicKey.Curve,
	}
}

// Sign signs data (it is hashed with SHA-256 first) and returns a 64-byte
// r||s signature.
func (p *PrivateKey) Sign(data []byte) []byte {
	h := hash.Sha256(data)
	return p.SignHash(h)
}

// SignHash signs a pre-computed SHA-256 hash and returns a 64-byte r||s
// signature.
func (p *PrivateKey) SignHash(h [32]byte) []byte {
	priv := secp256k1.PrivKeyFromBytes(p.b)
	sig := dcrecdsa.SignCompact(priv, h[:], false)
	// SignCompact prepends a 1-byte recovery id; strip it and pad r/s to
	// 32 bytes each to get a fixed-width 64-byte signature.
	return rsFromCompact(sig)
}

func rsFromCompact(compact []byte) []byte {
	out := make([]byte, 64)
	copy(out, compact[1:])
	return out
}

// Destroy zeroes the private scalar, best-effort, once the key is no longer
// needed.
func (p *PrivateKey) Destroy() {
	for i := range p.b {
		p.b[i] = 0
	}
	p.D = new(big.Int)
}
