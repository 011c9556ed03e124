package chain

import (
	"sync"

	"github.com/Tommo-L/neo-modules/pkg/core/state"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/util"
)

// FakeChain is an in-memory Ledger used by tests; it does not implement any
// real chain functionality.
type FakeChain struct {
	mu sync.Mutex

	height          uint32
	oracles         keys.PublicKeys
	requests        map[uint64]*state.OracleRequest
	originalBlocks  map[util.Uint256]uint32
	execFeeFactor   int64
	feePerByte      int64
	contractHash    util.Uint160
	VerifyF         func(tx *transaction.Transaction) (int64, bool)
	Submitted       []*transaction.Transaction
	submittedHashes map[util.Uint256]bool
	blockSubs       []chan<- uint32
}

// NewFakeChain returns an empty FakeChain with reasonable default policy
// values.
func NewFakeChain() *FakeChain {
	return &FakeChain{
		requests:        make(map[uint64]*state.OracleRequest),
		originalBlocks:  make(map[util.Uint256]uint32),
		submittedHashes: make(map[util.Uint256]bool),
		execFeeFactor:   30,
		feePerByte:      1000,
		VerifyF:         func(*transaction.Transaction) (int64, bool) { return 1 << 20, true },
	}
}

// SetOracles sets the designated oracle set returned for every height.
func (c *FakeChain) SetOracles(pubs keys.PublicKeys) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oracles = pubs
}

// AddRequest registers a pending request and its originating block index.
func (c *FakeChain) AddRequest(id uint64, r *state.OracleRequest, originalBlock uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[id] = r
	c.originalBlocks[r.OriginalTxID] = originalBlock
}

// RemoveRequest drops a request, simulating it having been served already.
func (c *FakeChain) RemoveRequest(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.requests, id)
}

// SetHeight sets the current height and notifies block subscribers.
func (c *FakeChain) SetHeight(h uint32) {
	c.mu.Lock()
	c.height = h
	subs := append([]chan<- uint32(nil), c.blockSubs...)
	c.mu.Unlock()
	for _, ch := range subs {
		ch <- h
	}
}

// Snapshot implements Ledger.
func (c *FakeChain) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	requests := make(map[uint64]*state.OracleRequest, len(c.requests))
	for k, v := range c.requests {
		requests[k] = v
	}
	originalBlocks := make(map[util.Uint256]uint32, len(c.originalBlocks))
	for k, v := range c.originalBlocks {
		originalBlocks[k] = v
	}
	return &fakeSnapshot{
		height:         c.height,
		oracles:        c.oracles,
		requests:       requests,
		originalBlocks: originalBlocks,
		execFeeFactor:  c.execFeeFactor,
		feePerByte:     c.feePerByte,
		verifyF:        c.VerifyF,
	}
}

// OracleContractHash implements Ledger.
func (c *FakeChain) OracleContractHash() util.Uint160 {
	return c.contractHash
}

// SubmitTransaction implements Ledger. A transaction sharing a signing hash
// with one already submitted is dropped, mirroring mempool dedup on a real
// chain: every oracle node can independently reach the signature threshold
// and try to submit, so duplicates here are expected, not a bug.
func (c *FakeChain) SubmitTransaction(tx *transaction.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := tx.SigningHash()
	if c.submittedHashes[h] {
		return
	}
	c.submittedHashes[h] = true
	c.Submitted = append(c.Submitted, tx)
}

// SubmittedTxs returns a snapshot of the transactions submitted so far; it
// exists so tests can poll Submitted from a goroutine other than the one
// that called SubmitTransaction without racing on the slice header.
func (c *FakeChain) SubmittedTxs() []*transaction.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*transaction.Transaction(nil), c.Submitted...)
}

// SubscribeBlocks implements Ledger.
func (c *FakeChain) SubscribeBlocks(ch chan<- uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockSubs = append(c.blockSubs, ch)
}

// UnsubscribeBlocks implements Ledger.
func (c *FakeChain) UnsubscribeBlocks(ch chan<- uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.blockSubs {
		if s == ch {
			c.blockSubs = append(c.blockSubs[:i], c.blockSubs[i+1:]...)
			return
		}
	}
}

type fakeSnapshot struct {
	height         uint32
	oracles        keys.PublicKeys
	requests       map[uint64]*state.OracleRequest
	originalBlocks map[util.Uint256]uint32
	execFeeFactor  int64
	feePerByte     int64
	verifyF        func(tx *transaction.Transaction) (int64, bool)
}

func (s *fakeSnapshot) Height() uint32 { return s.height }

func (s *fakeSnapshot) DesignatedOracles(uint32) (keys.PublicKeys, error) {
	return s.oracles, nil
}

func (s *fakeSnapshot) GetRequest(id uint64) (*state.OracleRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return r, nil
}

func (s *fakeSnapshot) PendingRequestIDs() ([]uint64, error) {
	ids := make([]uint64, 0, len(s.requests))
	for id := range s.requests {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeSnapshot) OriginalTxBlockIndex(txID util.Uint256) (uint32, error) {
	idx, ok := s.originalBlocks[txID]
	if !ok {
		return 0, ErrRequestNotFound
	}
	return idx, nil
}

func (s *fakeSnapshot) ExecFeeFactor() int64 { return s.execFeeFactor }
func (s *fakeSnapshot) FeePerByte() int64    { return s.feePerByte }

func (s *fakeSnapshot) VerifyOracleResponseTx(tx *transaction.Transaction) (int64, bool) {
	return s.verifyF(tx)
}
