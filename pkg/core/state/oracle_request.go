// Package state holds the read-only snapshots the oracle node pulls from
// the chain collaborator (spec §3, §6 "Chain collaborator contract: Read").
package state

import "github.com/Tommo-L/neo-modules/pkg/util"

// OracleRequest is an immutable snapshot of a pending on-chain oracle
// request (spec §3 "Request").
type OracleRequest struct {
	// OriginalTxID is the id of the transaction that created this request.
	OriginalTxID util.Uint256
	// GasForResponse is the amount of GAS set aside to pay for the response
	// transaction's fees.
	GasForResponse uint64
	// URL is the off-chain resource to fetch.
	URL string
	// Filter is an optional JSONPath-like selector applied to the fetched
	// body; nil means "no filter".
	Filter *string
	// CallbackContract and CallbackMethod identify the contract method that
	// consumes the response, forwarded opaquely into the response script.
	CallbackContract util.Uint160
	CallbackMethod   string
	// UserData is opaque caller-supplied data forwarded into the callback.
	UserData []byte
}
