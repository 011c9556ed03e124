package keys

import (
	"testing"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubKeyVerify(t *testing.T) {
	var data = []byte("sample")
	hashedData := hash.Sha256(data)

	privKey, err := NewPrivateKey()
	assert.Nil(t, err)
	signedData := privKey.Sign(data)
	pubKey := privKey.PublicKey()
	assert.True(t, pubKey.Verify(signedData, hashedData[:]))

	// Small signature, no panic.
	assert.False(t, pubKey.Verify([]byte{1, 2, 3}, hashedData[:]))

	empty := &PublicKey{}
	assert.False(t, empty.Verify(signedData, hashedData[:]))
}

func TestWrongPubKey(t *testing.T) {
	sample := []byte("sample")
	hashedData := hash.Sha256(sample)

	privKey, _ := NewPrivateKey()
	signedData := privKey.Sign(sample)

	secondPrivKey, _ := NewPrivateKey()
	wrongPubKey := secondPrivKey.PublicKey()

	assert.False(t, wrongPubKey.Verify(signedData, hashedData[:]))
}

func TestPrivateKeyFromBytesRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	priv2, err := NewPrivateKeyFromBytes(priv.Bytes())
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().Bytes(), priv2.PublicKey().Bytes())
}

func TestPublicKeysSort(t *testing.T) {
	var pubs PublicKeys
	for i := 0; i < 5; i++ {
		priv, err := NewPrivateKey()
		require.NoError(t, err)
		pubs = append(pubs, priv.PublicKey())
	}
	pubs.Sort()
	for i := 1; i < len(pubs); i++ {
		require.True(t, pubs.Less(i-1, i) || pubs[i-1].Equals(pubs[i]))
	}
}

func TestDestroy(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	oldBytes := append([]byte(nil), priv.Bytes()...)
	priv.Destroy()
	require.NotEqual(t, oldBytes, priv.Bytes())
}
