package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// pollInterval is the cooperative poll period over the chain's pending
// request set (spec §4.H).
const pollInterval = 500 * time.Millisecond

// runPoller periodically lists pending requests and hands any the node
// hasn't started (or already finished) into the request pipeline, until
// ctx is cancelled (spec §4.H "Request poller").
func (s *Service) runPoller(ctx context.Context) {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.pollOnce()
		}
	}
}

func (s *Service) pollOnce() {
	snap := s.ledger.Snapshot()
	ids, err := snap.PendingRequestIDs()
	if err != nil {
		s.log.Warn("failed to list pending oracle requests", zap.Error(err))
		return
	}
	for _, id := range ids {
		if s.aggregator.isFinished(id) {
			continue
		}
		task := s.aggregator.getOrCreateTask(id)
		task.mtx.Lock()
		started := task.tx != nil
		task.mtx.Unlock()
		if started {
			continue
		}
		select {
		case s.requestCh <- id:
		default:
			// pipeline is saturated; this id will be retried on the next
			// poll tick.
		}
	}
}
