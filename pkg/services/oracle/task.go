package oracle

import (
	"errors"
	"sync"
	"time"

	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/core/native"
	"github.com/Tommo-L/neo-modules/pkg/core/state"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	lru "github.com/hashicorp/golang-lru"
)

// finishedCacheSize bounds the finished_cache LRU independent of its TTL
// sweep, so a burst of requests can't grow it without bound between
// janitor ticks (spec §4.E "finished_cache").
const finishedCacheSize = 1 << 16

// Errors returned by task signature aggregation (spec §4.E, §4.G RPC error
// mapping).
var (
	ErrAlreadyFinished = errors.New("request has already finished")
	ErrInvalidSignature = errors.New("invalid response transaction sign")
	ErrRequestNotFound  = chain.ErrRequestNotFound
)

// oracleTask tracks one in-flight request's accumulated partial signatures,
// for both the primary and backup response transactions (spec §4.E, §9
// "speculative dual-book signature storage": a peer's signature for a tx
// we haven't built yet is still worth keeping).
type oracleTask struct {
	mtx sync.Mutex

	request   *state.OracleRequest
	tx        *transaction.Transaction
	backupTx  *transaction.Transaction

	signs       map[string][]byte // pubkey bytes -> tx signature
	backupSigns map[string][]byte

	finalized bool
	createdAt time.Time
}

func newOracleTask() *oracleTask {
	return &oracleTask{
		signs:       make(map[string][]byte),
		backupSigns: make(map[string][]byte),
		createdAt:   time.Now(),
	}
}

// aggregator owns every in-flight oracleTask plus the recently-finished
// cache, guarded by a single process-wide mutex (spec §5 "concurrency
// model: single mutex").
type aggregator struct {
	mtx    sync.Mutex
	tasks  map[uint64]*oracleTask
	// finished records when a request id was finalized, so late-arriving
	// gossip can be answered with ErrAlreadyFinished without re-deriving
	// the transaction; swept after finishedTTL (spec §4.E "finished_cache,
	// 3-day TTL").
	finished *lru.Cache

	ledger chain.Ledger
	// onFinalize, if set, is called once per request id immediately after
	// its response transaction is assembled and submitted (spec §6
	// "Prometheus metrics: finalized count").
	onFinalize func()
	// store, if attached, persists finished_cache entries to disk (spec §3
	// "finished_cache" restart durability).
	store *finishedStore
}

// attachStore wires a persistent finished_cache: it loads any entries
// recorded before a restart into the in-memory LRU, then keeps writing
// new ones through store as they finalize.
func (a *aggregator) attachStore(store *finishedStore) error {
	entries, err := store.LoadAll()
	if err != nil {
		return err
	}
	a.mtx.Lock()
	for id, t := range entries {
		a.finished.Add(id, t)
	}
	a.store = store
	a.mtx.Unlock()
	return nil
}

const finishedTTL = 3 * 24 * time.Hour

func newAggregator(ledger chain.Ledger) *aggregator {
	c, _ := lru.New(finishedCacheSize) // error only for a non-positive size.
	return &aggregator{
		tasks:    make(map[uint64]*oracleTask),
		finished: c,
		ledger:   ledger,
	}
}

// taskCount reports how many requests are currently in flight.
func (a *aggregator) taskCount() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return len(a.tasks)
}

func (a *aggregator) getOrCreateTask(id uint64) *oracleTask {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	t, ok := a.tasks[id]
	if !ok {
		t = newOracleTask()
		a.tasks[id] = t
	}
	return t
}

// isFinished reports whether id was already finalized (and swept into the
// finished cache) within the TTL window.
func (a *aggregator) isFinished(id uint64) bool {
	return a.finished.Contains(id)
}

// setSkeleton attaches the freshly-built primary/backup transactions to the
// task for id, creating it if this is the first time the local node has
// processed the request.
func (a *aggregator) setSkeleton(id uint64, req *state.OracleRequest, tx, backupTx *transaction.Transaction) *oracleTask {
	t := a.getOrCreateTask(id)
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.request = req
	t.tx = tx
	t.backupTx = backupTx
	return t
}

// sigVerifies reports whether sig is pub's signature over tx's signing
// hash; a nil tx (not built locally yet) never verifies.
func sigVerifies(pub *keys.PublicKey, sig []byte, tx *transaction.Transaction) bool {
	if tx == nil {
		return false
	}
	h := tx.SigningHash()
	return pub.Verify(sig, h[:])
}

// AddResponseTxSign records a peer's partial signature for request id,
// disambiguating which response transaction it belongs to purely by which
// one it verifies against, and finalizes+submits a transaction once enough
// signatures accumulate for it (spec §4.E steps 1-6):
//  1. reject if id is already in finished_cache;
//  2. try sig against the primary tx first; on success, store it in signs;
//  3. otherwise try it against the backup tx; on success, store it in
//     backup_signs;
//  4. if neither tx has been built locally yet, the signature can't be
//     checked against anything: keep it speculatively in BOTH books,
//     since it's bound to whichever one turns out to match once a
//     skeleton exists (spec §9 "speculative dual-book signatures");
//  5. if both transactions exist and neither verifies, the signature is
//     invalid;
//  6. once >= M valid signatures are held for whichever book changed,
//     assemble and submit that transaction, then move the request into
//     finished_cache and drop its task.
func (a *aggregator) AddResponseTxSign(id uint64, pub *keys.PublicKey, sig []byte, oracles keys.PublicKeys) error {
	if a.isFinished(id) {
		return ErrAlreadyFinished
	}

	t := a.getOrCreateTask(id)
	t.mtx.Lock()

	if t.finalized {
		t.mtx.Unlock()
		return nil
	}

	var book map[string][]byte
	var tx *transaction.Transaction
	switch {
	case t.tx == nil && t.backupTx == nil:
		t.signs[string(pub.Bytes())] = sig
		t.backupSigns[string(pub.Bytes())] = sig
		t.mtx.Unlock()
		return nil
	case sigVerifies(pub, sig, t.tx):
		book, tx = t.signs, t.tx
	case sigVerifies(pub, sig, t.backupTx):
		book, tx = t.backupSigns, t.backupTx
	default:
		t.mtx.Unlock()
		return ErrInvalidSignature
	}
	book[string(pub.Bytes())] = sig

	ready := len(oracles) > 0
	var witness *transaction.Witness
	var err error
	if ready {
		m := native.Threshold(len(oracles))
		ready = len(book) >= m
		if ready {
			witness, err = assembleWitness(m, oracles, book, tx.Scripts[1].VerificationScript)
			ready = err == nil
		}
	}
	if ready {
		tx.Scripts[1] = *witness
		t.finalized = true
	}
	t.mtx.Unlock()

	// finish (and the SubmitTransaction call it implies) happens after
	// releasing t.mtx: holding a task's own lock while acquiring the
	// aggregator's is the only lock order this package uses, and eviction
	// (which takes the aggregator lock first) must never have to wait on
	// a task lock held by this call (spec §5 "concurrency model").
	if ready {
		a.ledger.SubmitTransaction(tx)
		a.finish(id)
	}
	return nil
}

func (a *aggregator) finish(id uint64) {
	now := time.Now()
	a.mtx.Lock()
	delete(a.tasks, id)
	store := a.store
	a.mtx.Unlock()
	a.finished.Add(id, now)
	if store != nil {
		// Best-effort: the in-memory LRU already has the entry, so a
		// failed write only risks re-finalizing after a restart, not the
		// correctness of this call.
		_ = store.Put(id, now)
	}
	if a.onFinalize != nil {
		a.onFinalize()
	}
}

// sweepFinished evicts finished_cache entries older than finishedTTL (spec
// §4.I janitor responsibility). The LRU's own size cap handles unbounded
// growth between ticks; this sweep handles the TTL the lru package itself
// doesn't implement in this version.
func (a *aggregator) sweepFinished(now time.Time) {
	for _, id := range a.finished.Keys() {
		v, ok := a.finished.Peek(id)
		if !ok {
			continue
		}
		if now.Sub(v.(time.Time)) > finishedTTL {
			a.finished.Remove(id)
		}
	}
}

// evictStale drops tasks older than maxAge, reporting their ids (spec
// §4.I "MaxTaskTimeout eviction").
func (a *aggregator) evictStale(maxAge time.Duration, now time.Time) []uint64 {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	var evicted []uint64
	for id, t := range a.tasks {
		t.mtx.Lock()
		age := now.Sub(t.createdAt)
		t.mtx.Unlock()
		if age > maxAge {
			delete(a.tasks, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// staleForResend returns the ids of tasks older than since but not yet
// finalized, the re-gossip window the janitor re-sends partial signatures
// for (spec §4.I, §9 Open Question "same-unit resend window").
func (a *aggregator) staleForResend(since, until time.Duration, now time.Time) []uint64 {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	var ids []uint64
	for id, t := range a.tasks {
		t.mtx.Lock()
		age := now.Sub(t.createdAt)
		finalized := t.finalized
		t.mtx.Unlock()
		if !finalized && age > since && age <= until {
			ids = append(ids, id)
		}
	}
	return ids
}
