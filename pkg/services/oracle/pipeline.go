package oracle

import (
	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"go.uber.org/zap"
)

// runPipelineWorker drains requestCh, processing one request id at a time
// until ctx is cancelled, the way the teacher's request worker pool drains
// its own request channel (spec §4.A-§4.D "request-processing pipeline").
func (s *Service) runPipelineWorker() {
	for id := range s.requestCh {
		if err := s.processRequest(id); err != nil {
			s.log.Debug("failed to process oracle request", zap.Uint64("id", id), zap.Error(err))
		}
	}
}

// processRequest runs the full pipeline for a single pending request:
// fetch (§4.A/§4.B/§4.C), filter (§4.C), build both response transactions
// (§4.D), sign them locally, fold the local signature into the aggregator,
// and gossip it to peers (§4.F). The backup tx (ConsensusUnreachable) is
// always built regardless of whether the primary one could be — they don't
// share a failure mode, so one genuinely aborting (ErrTxNotHalted) must
// never suppress the other's construction and gossip.
func (s *Service) processRequest(id uint64) error {
	snap := s.ledger.Snapshot()
	req, err := snap.GetRequest(id)
	if err != nil {
		return err
	}

	code, body := s.protocols.process(req.URL)
	result := body
	if code == transaction.Success && req.Filter != nil {
		filtered, err := filter(body, *req.Filter)
		if err != nil {
			code, result = transaction.Error, nil
		} else {
			result = filtered
		}
	}
	if code != transaction.Success {
		result = nil
		s.metrics.fetchFailures.Inc()
	}

	oracleHash := s.ledger.OracleContractHash()
	tx, txErr := buildResponseTx(snap, oracleHash, id, req, code, result)
	backupTx, backupErr := buildResponseTx(snap, oracleHash, id, req, transaction.ConsensusUnreachable, nil)
	if txErr != nil && backupErr != nil {
		return txErr
	}
	if txErr != nil {
		s.log.Debug("primary response tx aborted", zap.Uint64("id", id), zap.Error(txErr))
	}
	if backupErr != nil {
		s.log.Debug("backup response tx aborted", zap.Uint64("id", id), zap.Error(backupErr))
	}

	task := s.aggregator.setSkeleton(id, req, tx, backupTx)

	acc := s.account()
	if acc == nil {
		return nil // no unlocked key able to sign; still keep the skeleton for gossip.
	}

	oracles, err := snap.DesignatedOracles(snap.Height() + 1)
	if err != nil {
		return err
	}
	pub := acc.PrivateKey.PublicKey()

	if tx != nil {
		sig := acc.PrivateKey.SignHash(tx.SigningHash())
		if err := s.aggregator.AddResponseTxSign(id, pub, sig, oracles); err != nil && err != chain.ErrRequestNotFound {
			s.log.Debug("local signature rejected", zap.Uint64("id", id), zap.Error(err))
		}
		sendResponse(s.peerClient, s.peers, s.log, acc.PrivateKey, id, sig)
	}
	if backupTx != nil {
		sig := acc.PrivateKey.SignHash(backupTx.SigningHash())
		if err := s.aggregator.AddResponseTxSign(id, pub, sig, oracles); err != nil && err != chain.ErrRequestNotFound {
			s.log.Debug("local backup signature rejected", zap.Uint64("id", id), zap.Error(err))
		}
		sendResponse(s.peerClient, s.peers, s.log, acc.PrivateKey, id, sig)
	}
	return nil
}
