package native

import (
	"testing"

	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/io"
	"github.com/stretchr/testify/require"
)

func TestThreshold(t *testing.T) {
	cases := map[int]int{1: 1, 4: 3, 7: 5, 10: 7, 32: 22}
	for n, want := range cases {
		require.Equal(t, want, Threshold(n), "n=%d", n)
	}
	for n := 1; n <= 32; n++ {
		require.Equal(t, n-(n-1)/3, Threshold(n))
	}
}

func TestIDList_Remove(t *testing.T) {
	l := IDList{1, 4, 5}

	require.False(t, l.Remove(2))
	require.Equal(t, IDList{1, 4, 5}, l)

	require.True(t, l.Remove(4))
	require.Equal(t, IDList{1, 5}, l)

	require.True(t, l.Remove(5))
	require.Equal(t, IDList{1}, l)
}

func TestIDList_EncodeDecode(t *testing.T) {
	l := IDList{1, 4, 5}
	bw := io.NewBufBinWriter()
	l.EncodeBinary(bw.BinWriter)

	var out IDList
	br := io.NewBinReaderFromBuf(bw.Bytes())
	out.DecodeBinary(br)
	require.NoError(t, br.Err)
	require.Equal(t, l, out)
}

func TestNodeList_EncodeDecode(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	l := NodeList{priv.PublicKey()}
	bw := io.NewBufBinWriter()
	l.EncodeBinary(bw.BinWriter)

	var out NodeList
	br := io.NewBinReaderFromBuf(bw.Bytes())
	out.DecodeBinary(br)
	require.NoError(t, br.Err)
	require.Equal(t, l[0].Bytes(), out[0].Bytes())
}
