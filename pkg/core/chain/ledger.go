// Package chain defines the narrow read/write contract the oracle service
// needs from the blockchain node (spec §1 non-goals, §6 "Chain collaborator
// contract"). The ledger itself — block production, mempool, storage — is
// explicitly out of scope; this package only describes what the service
// calls.
package chain

import (
	"github.com/Tommo-L/neo-modules/pkg/core/state"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/util"
)

// MaxValidUntilBlockIncrement bounds how far into the future a response
// transaction's ValidUntilBlock may be set relative to the original
// request's transaction (spec §4.D step 2).
const MaxValidUntilBlockIncrement = 5760 // roughly one day at 15s blocks.

// Snapshot is a read-only, height-pinned view of chain state, acquired once
// per pipeline run so every value the builder reads (designated oracles,
// policy, requests) is mutually consistent (spec §4.D "Deterministic;
// identical inputs across all honest oracles MUST produce byte-identical
// transactions").
type Snapshot interface {
	// Height is the block height this snapshot was taken at.
	Height() uint32

	// DesignatedOracles returns the oracle public keys designated at the
	// given block height, in no particular order (callers sort as needed).
	DesignatedOracles(height uint32) (keys.PublicKeys, error)

	// GetRequest returns the request with the given id, or ErrRequestNotFound.
	GetRequest(id uint64) (*state.OracleRequest, error)

	// PendingRequestIDs enumerates every request id the chain has not yet
	// seen a finished OracleResponse for.
	PendingRequestIDs() ([]uint64, error)

	// OriginalTxBlockIndex returns the block index of the transaction that
	// created a request, used to derive ValidUntilBlock.
	OriginalTxBlockIndex(txID util.Uint256) (uint32, error)

	// ExecFeeFactor and FeePerByte are the network's current policy
	// parameters used in the network fee computation (spec §4.D step 5-7).
	ExecFeeFactor() int64
	FeePerByte() int64

	// VerifyOracleResponseTx runs the native Oracle contract's `verify`
	// method over a cloned snapshot under a verification execution engine.
	// It returns the gas consumed and whether the run HALTed. Implemented
	// by the chain collaborator; this package never embeds a VM (spec §1).
	VerifyOracleResponseTx(tx *transaction.Transaction) (gasConsumed int64, halted bool)
}

// ErrRequestNotFound is returned by Snapshot.GetRequest when no such
// request exists (or has already been served) on the chain.
var ErrRequestNotFound = errRequestNotFound{}

type errRequestNotFound struct{}

func (errRequestNotFound) Error() string { return "oracle request not found" }

// Ledger is the long-lived handle the service keeps on the blockchain
// collaborator: taking snapshots, submitting finished transactions, and
// subscribing to newly persisted blocks (spec §4.I "on every new persisted
// block").
type Ledger interface {
	// Snapshot takes a new, height-pinned read-only view of chain state.
	Snapshot() Snapshot

	// OracleContractHash is the fixed script hash of the native Oracle
	// contract account that co-signs every response transaction.
	OracleContractHash() util.Uint160

	// SubmitTransaction hands tx to the mempool. This is fire-and-forget
	// actor-style messaging (spec §9 "tell blockchain"): the core does not
	// wait for, or learn of, acceptance/rejection.
	SubmitTransaction(tx *transaction.Transaction)

	// SubscribeBlocks registers ch to receive the height of every newly
	// persisted block, used to drive the liveness self-check (spec §4.I).
	SubscribeBlocks(ch chan<- uint32)

	// UnsubscribeBlocks reverses SubscribeBlocks.
	UnsubscribeBlocks(ch chan<- uint32)
}
