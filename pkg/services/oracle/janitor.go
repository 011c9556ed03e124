package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// runJanitor ticks every RefreshInterval, re-gossiping tasks stuck between
// one and two intervals old, evicting tasks older than MaxTaskTimeout, and
// sweeping the finished_cache TTL (spec §4.I). It also watches new blocks
// for two reasons: a long gap between notifications means this node's
// Ledger collaborator may be stuck, worth logging loudly; and on every
// persisted block it re-checks whether the local wallet's key is still a
// designated oracle for the next one, stopping the service if it no longer
// is (spec §4.I liveness self-check, §8 "self-stop", §9 "cyclic dependency
// on chain state").
func (s *Service) runJanitor(ctx context.Context) {
	tick := time.NewTicker(s.refreshInterval)
	defer tick.Stop()

	blocks := make(chan uint32, 1)
	s.ledger.SubscribeBlocks(blocks)
	defer s.ledger.UnsubscribeBlocks(blocks)

	lastBlock := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case h := <-blocks:
			lastBlock = time.Now()
			if !s.stillDesignated(h) {
				s.log.Warn("local oracle key no longer designated for the next block; stopping", zap.Uint32("height", h))
				go s.Stop()
				return
			}
		case now := <-tick.C:
			s.janitorTick(now)
			if since := now.Sub(lastBlock); since > 2*s.refreshInterval {
				s.log.Warn("no new blocks observed recently; chain collaborator may be stuck", zap.Duration("since", since))
			}
		}
	}
}

// stillDesignated reports whether the locally configured oracle key
// remains a designated oracle for the block after persistedHeight. A chain
// read error is treated as transient and retried on the next persisted
// block, the same as any other chain read failure (spec §7); a node with
// no unlocked key has nothing to lose designation of.
func (s *Service) stillDesignated(persistedHeight uint32) bool {
	acc := s.account()
	if acc == nil {
		return true
	}
	oracles, err := s.ledger.Snapshot().DesignatedOracles(persistedHeight + 1)
	if err != nil {
		return true
	}
	return oracles.Contains(acc.PrivateKey.PublicKey())
}

func (s *Service) janitorTick(now time.Time) {
	s.metrics.pendingTasks.Set(float64(s.aggregator.taskCount()))
	s.aggregator.sweepFinished(now)

	evicted := s.aggregator.evictStale(s.maxTaskTimeout, now)
	for _, id := range evicted {
		s.log.Debug("evicted stale oracle task", zap.Uint64("id", id))
	}

	// The resend window is [RefreshInterval, 2*RefreshInterval): a task
	// that age hasn't finalized within one tick gets its partial
	// signatures re-gossiped once, in case the first round was lost.
	for _, id := range s.aggregator.staleForResend(s.refreshInterval, 2*s.refreshInterval, now) {
		s.resend(id)
	}
}

// resend re-gossips the local node's own backup signature for id, if it
// has one recorded, in case the first round of gossip was lost (spec §4.I:
// "for every locally owned oracle key that already appears in
// t.backup_signs, re-gossip that backup signature"). It resends the
// existing stored signature rather than re-deriving it, and only the
// backup one — the primary tx is the one peers are expected to have
// reached consensus on already if it was going to finalize at all.
func (s *Service) resend(id uint64) {
	acc := s.account()
	if acc == nil {
		return
	}
	task := s.aggregator.getOrCreateTask(id)
	pub := acc.PrivateKey.PublicKey()

	task.mtx.Lock()
	sig, ok := task.backupSigns[string(pub.Bytes())]
	task.mtx.Unlock()
	if !ok {
		return
	}

	sendResponse(s.peerClient, s.peers, s.log, acc.PrivateKey, id, sig)
}
