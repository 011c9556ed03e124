package wallet

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tommo-L/neo-modules/internal/keytestcases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		if testCase.Invalid {
			continue
		}
		wall, err := NewFromWIF(testCase.Wif)
		require.NoError(t, err)
		compareFields(t, testCase, wall)
	}
}

func TestDecryptWallet(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		if testCase.Invalid {
			continue
		}
		wall, err := Decrypt(testCase.EncryptedWif, testCase.Passphrase)
		require.NoError(t, err)
		compareFields(t, testCase, wall)
	}
}

func TestNewFromWIF_Invalid(t *testing.T) {
	_, err := NewFromWIF("not a wif")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	testCase := keytestcases.Arr[0]
	wall, err := NewFromWIF(testCase.Wif)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.json")
	require.NoError(t, wall.Save(path, testCase.Passphrase))

	loaded, err := NewFromFile(path, testCase.Passphrase)
	require.NoError(t, err)
	compareFields(t, testCase, loaded)
}

func TestLoad_WrongPassphrase(t *testing.T) {
	testCase := keytestcases.Arr[0]
	wall, err := NewFromWIF(testCase.Wif)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.json")
	require.NoError(t, wall.Save(path, testCase.Passphrase))

	_, err = NewFromFile(path, "definitely the wrong passphrase")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "missing.json"), "pass")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, statErr)
}

func compareFields(t *testing.T, tc keytestcases.Ktype, wall *Wallet) {
	assert.Equal(t, tc.Address, wall.Address)
	assert.Equal(t, tc.Wif, wall.WIF)
	assert.Equal(t, tc.PublicKey, hex.EncodeToString(wall.PublicKey))
	assert.Equal(t, tc.PrivateKey, wall.PrivateKey.String())
}
