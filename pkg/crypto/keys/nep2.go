package keys

import (
	"bytes"
	"crypto/aes"
	"crypto/sha256"
	"errors"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/scrypt"
)

// NEP-2 is the passphrase-encrypted private key format wallet files store
// (spec §6 "UnlockWallet" unlocks one of these at startup).
const (
	nep2ScryptN = 16384
	nep2ScryptR = 8
	nep2ScryptP = 8

	nep2Flag      = 0xe0
	nep2Version1  = 0x01
	nep2Version2  = 0x42
)

// ErrInvalidNEP2Format is returned when a string fails to decode as NEP-2.
var ErrInvalidNEP2Format = errors.New("invalid NEP-2 format")

// NEP2Encrypt encrypts priv with passphrase, NEP-2 style, returning the
// base58check-encoded ciphertext a wallet file persists.
func NEP2Encrypt(priv *PrivateKey, passphrase string) (string, error) {
	addrHash := addressHash(priv.Address())

	derived, err := scrypt.Key([]byte(passphrase), addrHash[:], nep2ScryptN, nep2ScryptR, nep2ScryptP, 64)
	if err != nil {
		return "", err
	}
	derived1, derived2 := derived[:32], derived[32:]

	xored := make([]byte, 32)
	privBytes := priv.Bytes()
	for i := range xored {
		xored[i] = privBytes[i] ^ derived1[i]
	}

	encrypted, err := aesECBEncrypt(xored, derived2)
	if err != nil {
		return "", err
	}

	buf := make([]byte, 0, 39)
	buf = append(buf, nep2Version1, nep2Version2, nep2Flag)
	buf = append(buf, addrHash[:]...)
	buf = append(buf, encrypted...)
	cs := hash.DoubleSha256(buf)
	buf = append(buf, cs[:4]...)
	return base58.Encode(buf), nil
}

// NEP2Decrypt decrypts a NEP-2 encoded string with passphrase, returning the
// hex-encoded private key scalar.
func NEP2Decrypt(encrypted, passphrase string) (string, error) {
	b, err := base58.Decode(encrypted)
	if err != nil {
		return "", ErrInvalidNEP2Format
	}
	if len(b) != 43 || b[0] != nep2Version1 || b[1] != nep2Version2 || b[2] != nep2Flag {
		return "", ErrInvalidNEP2Format
	}
	payload, checksum := b[:39], b[39:]
	want := hash.DoubleSha256(payload)
	for i, c := range want[:4] {
		if checksum[i] != c {
			return "", ErrInvalidNEP2Format
		}
	}
	addrHash, cipherText := b[3:7], b[7:39]

	derived, err := scrypt.Key([]byte(passphrase), addrHash, nep2ScryptN, nep2ScryptR, nep2ScryptP, 64)
	if err != nil {
		return "", err
	}
	derived1, derived2 := derived[:32], derived[32:]

	xored, err := aesECBDecrypt(cipherText, derived2)
	if err != nil {
		return "", err
	}

	privBytes := make([]byte, 32)
	for i := range privBytes {
		privBytes[i] = xored[i] ^ derived1[i]
	}

	priv, err := NewPrivateKeyFromBytes(privBytes)
	if err != nil {
		return "", err
	}
	gotHash := addressHash(priv.Address())
	if !bytes.Equal(addrHash, gotHash[:]) {
		return "", ErrInvalidNEP2Format
	}
	return priv.String(), nil
}

func addressHash(addr string) (h [4]byte) {
	sum := sha256.Sum256([]byte(addr))
	sum = sha256.Sum256(sum[:])
	copy(h[:], sum[:4])
	return h
}

// aesECBEncrypt/aesECBDecrypt implement AES-256 in ECB mode over 32-byte
// (two-block) inputs, the mode NEP-2 specifies. Go's standard library
// deliberately omits an ECB cipher.BlockMode, so blocks are XOR-free
// enciphered one at a time here.
func aesECBEncrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	bs := block.BlockSize()
	for i := 0; i < len(data); i += bs {
		block.Encrypt(out[i:i+bs], data[i:i+bs])
	}
	return out, nil
}

func aesECBDecrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	bs := block.BlockSize()
	for i := 0; i < len(data); i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	return out, nil
}
