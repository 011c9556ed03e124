package oracle

import (
	"testing"
	"time"

	"github.com/Tommo-L/neo-modules/pkg/config"
	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStillDesignated(t *testing.T) {
	c := chain.NewFakeChain()
	w, path := newTestWallet(t)
	other := testOracles(t, 2)
	c.SetOracles(append(keys.PublicKeys{w.PrivateKey.PublicKey()}, other...))

	cfg := config.OracleConfiguration{Enabled: true, MaxConcurrentRequests: 1, UnlockWallet: config.Wallet{Path: path, Password: "pass"}}
	svc, err := New(cfg, c, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.True(t, svc.stillDesignated(1))

	c.SetOracles(other) // svc's key is rotated out.
	require.False(t, svc.stillDesignated(1))
}

// TestRunJanitor_SelfStopsWhenNoLongerDesignated exercises the spec §4.I
// liveness self-check end to end: once the local key drops out of the
// designated oracle set, the next persisted block must make the service
// stop itself, without anyone calling Stop directly.
func TestRunJanitor_SelfStopsWhenNoLongerDesignated(t *testing.T) {
	c := chain.NewFakeChain()
	w, path := newTestWallet(t)
	c.SetOracles(keys.PublicKeys{w.PrivateKey.PublicKey()})

	cfg := config.OracleConfiguration{Enabled: true, MaxConcurrentRequests: 1, UnlockWallet: config.Wallet{Path: path, Password: "pass"}}
	svc, err := New(cfg, c, zaptest.NewLogger(t))
	require.NoError(t, err)

	svc.Start()
	defer svc.Stop()

	c.SetOracles(nil) // svc's key is no longer a designated oracle anywhere.
	c.SetHeight(1)

	select {
	case <-svc.Stopped():
	case <-time.After(2 * time.Second):
		t.Fatal("service did not self-stop after losing oracle designation")
	}
}

func TestResend_OnlyRegossipsStoredBackupSignature(t *testing.T) {
	c := chain.NewFakeChain()
	w, path := newTestWallet(t)
	cfg := config.OracleConfiguration{Enabled: true, MaxConcurrentRequests: 1, UnlockWallet: config.Wallet{Path: path, Password: "pass"}}
	svc, err := New(cfg, c, zaptest.NewLogger(t))
	require.NoError(t, err)

	// No backup signature recorded yet: resend is a no-op, not a panic.
	svc.resend(1)

	task := svc.aggregator.getOrCreateTask(1)
	pub := w.PrivateKey.PublicKey()
	task.mtx.Lock()
	task.backupSigns[string(pub.Bytes())] = []byte("backup-sig")
	task.mtx.Unlock()

	svc.resend(1) // should gossip without panicking; no peers configured.
}
