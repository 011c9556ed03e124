package oracle

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSignGossipMessage_VerifiesRoundTrip(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()

	msg := signGossipMessage(pub, 12345, []byte("tx-signature"))
	sig := priv.Sign(msg)

	h := hash.Sha256(msg)
	require.True(t, pub.Verify(sig, h[:]))
}

func TestParseInboundParams(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	txSig := []byte("sig")
	msg := signGossipMessage(pub, 7, txSig)
	msgSig := priv.Sign(msg)

	params := []interface{}{
		b64(pub.Bytes()),
		uint64(7),
		b64(txSig),
		b64(msgSig),
	}
	raw := marshalParams(t, params)

	p, err := parseInboundParams(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(7), p.ID)
	require.Equal(t, pub.Bytes(), p.PubKey)
	require.Equal(t, txSig, p.TxSig)
	require.Equal(t, msgSig, p.MsgSig)
}

func TestParseInboundParams_WrongArity(t *testing.T) {
	_, err := parseInboundParams(marshalParams(t, []interface{}{"a", "b"}))
	require.Error(t, err)
}

func TestGossipOne_LogsPeerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(rpcResponse{Error: &rpcError{Code: -100, Message: "Invalid sign"}})
	}))
	defer srv.Close()

	// gossipOne only logs; it must not panic or block regardless of the
	// peer's response shape.
	done := make(chan struct{})
	go func() {
		gossipOne(srv.Client(), srv.URL, submitMethod, []interface{}{"a", uint64(1), "b", "c"}, zap.NewNop(), 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("gossipOne did not return")
	}
}

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func marshalParams(t *testing.T, params []interface{}) []json.RawMessage {
	t.Helper()
	raw := make([]json.RawMessage, len(params))
	for i, p := range params {
		b, err := json.Marshal(p)
		require.NoError(t, err)
		raw[i] = b
	}
	return raw
}
