// Package wallet gives the oracle node access to the private key(s) it
// signs response transactions and peer-gossip envelopes with (spec §6
// "UnlockWallet", §4.D/§4.F signing).
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
)

// Wallet is a single unlocked key, the shape the oracle service needs: one
// account whose public key may sit in the chain's designated-oracle list.
type Wallet struct {
	Address    string
	WIF        string
	PublicKey  []byte
	PrivateKey *keys.PrivateKey
}

// NewFromWIF builds a Wallet directly from a plaintext WIF string, useful
// for tests and non-interactive deployments.
func NewFromWIF(wif string) (*Wallet, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("invalid WIF: %w", err)
	}
	return fromPrivateKey(priv), nil
}

// Decrypt builds a Wallet from a NEP-2 encrypted WIF and its passphrase.
func Decrypt(encryptedWIF, passphrase string) (*Wallet, error) {
	hexKey, err := keys.NEP2Decrypt(encryptedWIF, passphrase)
	if err != nil {
		return nil, fmt.Errorf("invalid NEP-2 key: %w", err)
	}
	priv, err := keys.NewPrivateKeyFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	return fromPrivateKey(priv), nil
}

func fromPrivateKey(priv *keys.PrivateKey) *Wallet {
	return &Wallet{
		Address:    priv.Address(),
		WIF:        priv.WIF(),
		PublicKey:  priv.PublicKey().Bytes(),
		PrivateKey: priv,
	}
}

// file is the on-disk NEP-6-style layout a wallet Path (spec §6
// "UnlockWallet.Path") points at: a single encrypted account record, kept
// deliberately smaller than the chain-wide NEP-6 format since this node
// only ever needs the one oracle-signing key.
type file struct {
	Account struct {
		Address string `json:"address"`
		Key     string `json:"key"` // NEP-2 encrypted WIF
	} `json:"account"`
}

// NewFromFile loads path and decrypts its single account with passphrase.
func NewFromFile(path, passphrase string) (*Wallet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet %s: %w", path, err)
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse wallet %s: %w", path, err)
	}
	w, err := Decrypt(f.Account.Key, passphrase)
	if err != nil {
		return nil, err
	}
	if f.Account.Address != "" && f.Account.Address != w.Address {
		return nil, fmt.Errorf("wallet %s: address mismatch between file and decrypted key", path)
	}
	return w, nil
}

// Save writes w to path, NEP-2 encrypting its key with passphrase.
func (w *Wallet) Save(path, passphrase string) error {
	enc, err := keys.NEP2Encrypt(w.PrivateKey, passphrase)
	if err != nil {
		return err
	}
	var f file
	f.Account.Address = w.Address
	f.Account.Key = enc
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// PublicKeyHex returns the hex-encoded compressed public key, the form the
// chain's designated-oracle list and peer-gossip signature verification
// compare against.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.PublicKey)
}
