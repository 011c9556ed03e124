// Package config holds the YAML-loadable configuration surface of the
// oracle node, following the teacher's per-concern struct layout
// (pkg/config/oracle_config.go, pkg/config/logger.go).
package config

import "time"

// OracleConfiguration is the config for the oracle service (spec §6
// "Configuration").
type OracleConfiguration struct {
	Enabled bool `yaml:"Enabled"`
	// Nodes is the set of peer RPC URLs partial signatures are gossiped to.
	Nodes []string `yaml:"Nodes"`
	// MaxTaskTimeout is the duration after which an unfulfilled task is
	// evicted from the pending queue.
	MaxTaskTimeout time.Duration `yaml:"MaxTaskTimeout"`
	// RefreshInterval is the janitor tick period; resend/eviction windows
	// are measured in multiples of it (spec §4.I, §9 Open Question).
	RefreshInterval time.Duration `yaml:"RefreshInterval"`
	// MaxConcurrentRequests bounds how many pipeline runs (fetch+build) may
	// be in flight at once.
	MaxConcurrentRequests int `yaml:"MaxConcurrentRequests"`
	// AllowPrivateHost, when false, makes the HTTPS fetcher reject
	// addresses that resolve to a private/internal network (spec §4.B).
	AllowPrivateHost bool `yaml:"AllowPrivateHost"`
	// AllowedContentTypes is the media-type allowlist the HTTPS fetcher
	// enforces (spec §4.B, §6).
	AllowedContentTypes []string `yaml:"AllowedContentTypes"`
	// Https holds HTTPS-fetcher-specific settings.
	Https HTTPSConfiguration `yaml:"Https"`
	// UnlockWallet identifies the wallet holding this node's oracle keys.
	UnlockWallet Wallet `yaml:"UnlockWallet"`
	// FinishedCachePath, if set, persists finished_cache entries to a bolt
	// database at this path so a restart doesn't re-finalize (and
	// double-submit) requests answered before the restart.
	FinishedCachePath string `yaml:"FinishedCachePath"`
}

// HTTPSConfiguration groups HTTPS-fetcher-specific settings (spec §6
// "Https.Timeout").
type HTTPSConfiguration struct {
	// Timeout is the total wall-clock budget per HTTPS request, in
	// milliseconds, spanning connect, headers and body read (spec §4.B).
	Timeout int `yaml:"Timeout"`
}

// RequestTimeout returns Https.Timeout as a time.Duration.
func (c OracleConfiguration) RequestTimeout() time.Duration {
	return time.Duration(c.Https.Timeout) * time.Millisecond
}
