// Package oracle implements the oracle node service: it pulls pending
// requests off the chain, fetches and filters their off-chain resource,
// deterministically builds a response transaction, and collaborates with
// its peers to assemble an M-of-N multisignature witness for it (spec §1
// OVERVIEW, §4 components A-I).
package oracle

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Tommo-L/neo-modules/pkg/config"
	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const defaultMaxConcurrentRequests = 10

// Service runs the oracle node: it owns the request pipeline, the
// signature aggregator, the peer gossip client, and the janitor (spec §4,
// §6 "Service wiring").
type Service struct {
	cfg    config.OracleConfiguration
	ledger chain.Ledger
	log    *zap.Logger

	protocols  *protocols
	aggregator *aggregator
	httpClient *http.Client // SSRF-guarded; used only to fetch oracle request URLs.
	peerClient *http.Client // plain client for gossip to explicitly configured peers.
	peers      []string

	refreshInterval time.Duration
	maxTaskTimeout  time.Duration

	requestCh chan uint64

	accMtx sync.RWMutex
	acc    *wallet.Wallet

	cancel context.CancelFunc
	wg     sync.WaitGroup

	stopOnce sync.Once
	stopped  chan struct{}

	metrics serviceMetrics
}

type serviceMetrics struct {
	pendingTasks   prometheus.Gauge
	finalizedTotal prometheus.Counter
	fetchFailures  prometheus.Counter
}

func newServiceMetrics() serviceMetrics {
	return serviceMetrics{
		pendingTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "oracle_node",
			Name:      "pending_tasks",
			Help:      "Number of oracle requests currently being processed.",
		}),
		finalizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oracle_node",
			Name:      "finalized_total",
			Help:      "Total number of oracle responses finalized and submitted.",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oracle_node",
			Name:      "fetch_failures_total",
			Help:      "Total number of oracle requests whose fetch did not succeed.",
		}),
	}
}

// Register registers the service's metrics with reg (spec §6
// "Prometheus metrics").
func (s *Service) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.metrics.pendingTasks, s.metrics.finalizedTotal, s.metrics.fetchFailures} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// New builds a Service from cfg, unlocking the configured wallet (spec §6
// "UnlockWallet") and registering the built-in Protocol handlers (spec
// §4.A-§4.B).
func New(cfg config.OracleConfiguration, ledger chain.Ledger, log *zap.Logger) (*Service, error) {
	if cfg.MaxConcurrentRequests == 0 {
		cfg.MaxConcurrentRequests = defaultMaxConcurrentRequests
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = 3 * time.Minute
	}
	if cfg.MaxTaskTimeout == 0 {
		cfg.MaxTaskTimeout = time.Hour
	}

	w, err := wallet.NewFromFile(cfg.UnlockWallet.Path, cfg.UnlockWallet.Password)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:             cfg,
		ledger:          ledger,
		log:             log,
		aggregator:      newAggregator(ledger),
		httpClient:      getDefaultClient(cfg),
		peerClient:      &http.Client{Timeout: cfg.RequestTimeout()},
		peers:           cfg.Nodes,
		refreshInterval: cfg.RefreshInterval,
		maxTaskTimeout:  cfg.MaxTaskTimeout,
		requestCh:       make(chan uint64, cfg.MaxConcurrentRequests),
		acc:             w,
		stopped:         make(chan struct{}),
		metrics:         newServiceMetrics(),
	}

	s.protocols = newProtocols()
	s.protocols.register("http", newHTTPSProtocol(cfg))
	s.protocols.register("https", newHTTPSProtocol(cfg))
	s.aggregator.onFinalize = s.metrics.finalizedTotal.Inc

	if cfg.FinishedCachePath != "" {
		store, err := openFinishedStore(cfg.FinishedCachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open finished_cache store: %w", err)
		}
		if err := s.aggregator.attachStore(store); err != nil {
			return nil, fmt.Errorf("failed to load finished_cache store: %w", err)
		}
	}

	return s, nil
}

// RegisterProtocol adds or replaces the Protocol handler for scheme. It
// exists so a deployment that has a real NeoFS network client can plug it
// in as the "neofs" scheme (spec §4.A "Protocol Handlers"); this package
// only ships the URL-parsing half of that protocol (pkg/services/oracle/neofs),
// not the network round trip itself.
func (s *Service) RegisterProtocol(scheme string, p Protocol) {
	s.protocols.register(scheme, p)
}

func (s *Service) account() *wallet.Wallet {
	s.accMtx.RLock()
	defer s.accMtx.RUnlock()
	return s.acc
}

// Start launches the request pipeline workers, poller, and janitor. It
// returns immediately; call Stop to shut the service down (spec §4.H-§4.I
// "Service wiring").
func (s *Service) Start() {
	if !s.cfg.Enabled {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for i := 0; i < s.cfg.MaxConcurrentRequests; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runPipelineWorker()
		}()
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.runPoller(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runJanitor(ctx)
	}()

	s.log.Info("oracle service started", zap.String("address", s.acc.Address))
}

// Stop cancels the poller/janitor and closes the request channel, letting
// pipeline workers drain before returning. It is idempotent and safe to
// call more than once — including from within the janitor itself, when the
// liveness self-check (spec §4.I) decides the service should stop without
// waiting for an operator or a signal.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		defer close(s.stopped)
		if s.cancel == nil {
			return
		}
		s.cancel()
		close(s.requestCh)
		s.wg.Wait()
		if s.aggregator.store != nil {
			if err := s.aggregator.store.Close(); err != nil {
				s.log.Warn("failed to close finished_cache store", zap.Error(err))
			}
		}
		s.log.Info("oracle service stopped")
	})
}

// Stopped returns a channel that's closed once Stop has fully run,
// regardless of whether it was triggered by a caller or by the service's
// own liveness self-check (spec §4.I, §8 scenario "self-stop"). A caller
// that only waits on an external shutdown signal needs this to also learn
// when the service stopped itself.
func (s *Service) Stopped() <-chan struct{} {
	return s.stopped
}
