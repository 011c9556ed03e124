package keys

import (
	"testing"

	"github.com/Tommo-L/neo-modules/internal/keytestcases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNEP2Encrypt(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		if testCase.Invalid {
			continue
		}
		privKey, err := NewPrivateKeyFromHex(testCase.PrivateKey)
		require.NoError(t, err)

		encryptedWif, err := NEP2Encrypt(privKey, testCase.Passphrase)
		require.NoError(t, err)
		assert.Equal(t, testCase.EncryptedWif, encryptedWif)
	}
}

func TestNEP2Decrypt(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		if testCase.Invalid {
			continue
		}
		privKeyString, err := NEP2Decrypt(testCase.EncryptedWif, testCase.Passphrase)
		require.NoError(t, err)
		assert.Equal(t, testCase.PrivateKey, privKeyString)
	}
}

func TestNEP2Decrypt_WrongPassphrase(t *testing.T) {
	testCase := keytestcases.Arr[0]
	_, err := NEP2Decrypt(testCase.EncryptedWif, "not the right passphrase")
	assert.Error(t, err)
}

func TestNEP2Decrypt_Malformed(t *testing.T) {
	_, err := NEP2Decrypt("not valid base58check at all", "whatever")
	assert.ErrorIs(t, err, ErrInvalidNEP2Format)
}
