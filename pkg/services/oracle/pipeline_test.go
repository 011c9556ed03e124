package oracle

import (
	"testing"

	"github.com/Tommo-L/neo-modules/pkg/config"
	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestProcessRequest_BackupBuildsWhenPrimaryAborts exercises the fix for a
// builder that only aborts for a genuine ErrTxNotHalted: the primary tx
// failing to build must never suppress the backup tx, which doesn't share
// its failure mode (spec §4.D, §9 "ConsensusUnreachable is independent").
func TestProcessRequest_BackupBuildsWhenPrimaryAborts(t *testing.T) {
	c := chain.NewFakeChain()
	w, path := newTestWallet(t)
	c.SetOracles(keys.PublicKeys{w.PrivateKey.PublicKey()})
	c.SetHeight(1)
	c.VerifyF = func(tx *transaction.Transaction) (int64, bool) {
		resp := tx.OracleResponse()
		if resp != nil && resp.Code == transaction.Success {
			return 0, false // the primary (fetch succeeded) never halts.
		}
		return 1 << 20, true
	}

	cfg := config.OracleConfiguration{
		Enabled:               true,
		MaxConcurrentRequests: 1,
		UnlockWallet:          config.Wallet{Path: path, Password: "pass"},
	}
	svc, err := New(cfg, c, zaptest.NewLogger(t))
	require.NoError(t, err)

	stubFetch := ProtocolFunc(func(string) (transaction.OracleResponseCode, []byte) {
		return transaction.Success, []byte(`{"ok":true}`)
	})
	svc.RegisterProtocol("https", stubFetch)

	req := testOracleRequest(t)
	c.AddRequest(1, req, 1)

	require.NoError(t, svc.processRequest(1))

	task := svc.aggregator.getOrCreateTask(1)
	task.mtx.Lock()
	tx, backupTx := task.tx, task.backupTx
	_, backupSigned := task.backupSigns[string(w.PrivateKey.PublicKey().Bytes())]
	task.mtx.Unlock()

	require.Nil(t, tx)
	require.NotNil(t, backupTx)
	require.True(t, backupSigned)
}
