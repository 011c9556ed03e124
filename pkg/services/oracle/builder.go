package oracle

import (
	"errors"
	"fmt"

	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/core/native"
	"github.com/Tommo-L/neo-modules/pkg/core/state"
	"github.com/Tommo-L/neo-modules/pkg/core/transaction"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/smartcontract"
	"github.com/Tommo-L/neo-modules/pkg/util"
)

// ErrTxNotHalted is returned when the chain collaborator reports the
// skeleton transaction would not execute to completion (spec §4.D step 5).
// Unlike a too-large result or an unaffordable fee, this isn't something the
// builder can rewrite its way out of: it means the request itself can't be
// answered this round, so the caller treats it as "do not sign this one".
var ErrTxNotHalted = errors.New("response transaction would not halt")

// buildResponseTx deterministically builds the oracle response transaction
// answering req with code/result, following the fixed construction order
// every honest oracle must reproduce byte for byte (spec §4.D). oracleHash
// is the native Oracle contract's account, used as the first, zero-scope
// signer.
//
// If the result doesn't fit MaxOracleResultSize, or the fee the finished tx
// would need exceeds req.GasForResponse, the response is rewritten in place
// to (ResponseTooLarge, nil) or (InsufficientFunds, nil) and construction
// continues against the smaller payload (spec §4.D steps 6-7, §8 scenario
// "too-large result"): every honest oracle reaches the same rewritten code,
// so signatures over it still aggregate. Only ErrTxNotHalted aborts outright.
func buildResponseTx(
	snap chain.Snapshot,
	oracleHash util.Uint160,
	id uint64,
	req *state.OracleRequest,
	code transaction.OracleResponseCode,
	result []byte,
) (*transaction.Transaction, error) {
	// Step 1: designated oracle set at the height the response will land
	// in, and the honest-majority threshold over it.
	oracles, err := snap.DesignatedOracles(snap.Height() + 1)
	if err != nil {
		return nil, fmt.Errorf("designated oracles: %w", err)
	}
	if len(oracles) == 0 {
		return nil, errors.New("no designated oracles")
	}
	m := native.Threshold(len(oracles))

	// Step 2: ValidUntilBlock is pinned to the block that created the
	// original request, not the current height, so every oracle that
	// started from the same request agrees on it.
	origBlock, err := snap.OriginalTxBlockIndex(req.OriginalTxID)
	if err != nil {
		return nil, fmt.Errorf("original tx block index: %w", err)
	}
	validUntilBlock := origBlock + chain.MaxValidUntilBlockIncrement

	multisigScript, err := smartcontract.CreateMultiSigRedeemScript(m, oracles)
	if err != nil {
		return nil, fmt.Errorf("multisig script: %w", err)
	}
	multisigHash := smartcontract.ScriptHash(multisigScript)

	// Step 3-5: assemble the skeleton for (code, result) and ask the chain
	// collaborator whether it halts and what it burns.
	tx, gasConsumed, err := skeletonTx(snap, oracleHash, multisigHash, multisigScript, id, code, result, validUntilBlock)
	if err != nil {
		return nil, err
	}

	// Step 6: network fee = execution cost + verification cost of the
	// multisig witness, plus the per-byte cost of the serialized tx (size
	// excluding attributes, plus the attributes' own size back in).
	netFee := responseNetFee(snap, m, len(oracles), gasConsumed, tx)

	switch {
	case code == transaction.Success && len(result) > transaction.MaxOracleResultSize:
		code, result = transaction.ResponseTooLarge, nil
	case netFee < 0 || uint64(netFee) > req.GasForResponse:
		code, result = transaction.InsufficientFunds, nil
	default:
		tx.NetworkFee = netFee
		tx.SystemFee = int64(req.GasForResponse) - netFee
		return tx, nil
	}

	// Rewrite-and-continue: every honest oracle hits the same rewritten
	// (code, result), rebuilds the same smaller skeleton, and re-derives
	// its fee against that — not against the oversized or unaffordable
	// candidate above (spec §4.D steps 6-7).
	tx, gasConsumed, err = skeletonTx(snap, oracleHash, multisigHash, multisigScript, id, code, result, validUntilBlock)
	if err != nil {
		return nil, err
	}
	netFee = responseNetFee(snap, m, len(oracles), gasConsumed, tx)
	tx.NetworkFee = netFee
	tx.SystemFee = int64(req.GasForResponse) - netFee
	return tx, nil
}

// skeletonTx builds the unsigned response transaction for (code, result)
// and verifies it against the chain collaborator (spec §4.D steps 3-5).
func skeletonTx(
	snap chain.Snapshot,
	oracleHash, multisigHash util.Uint160,
	multisigScript []byte,
	id uint64,
	code transaction.OracleResponseCode,
	result []byte,
	validUntilBlock uint32,
) (*transaction.Transaction, int64, error) {
	resp := &transaction.OracleResponse{ID: id, Code: code, Result: result}
	tx := transaction.New(oracleResponseScript, validUntilBlock)
	tx.Attributes = []transaction.Attribute{{Type: transaction.OracleResponseT, Value: resp}}

	// Two signers in fixed order — the native Oracle contract account
	// (scope None, it only needs to be present to authorize the
	// callback), then the oracle multisig account (scope
	// CustomContracts, restricted to the Oracle contract itself).
	tx.Signers = []transaction.Signer{
		{Account: oracleHash, Scopes: transaction.None},
		{
			Account:          multisigHash,
			Scopes:           transaction.CustomContracts,
			AllowedContracts: []util.Uint160{oracleHash},
		},
	}
	// Witnesses are assigned positionally, matching Signers order; both
	// are filled in by the caller once enough partial signatures are
	// assembled (finalize), so they start out as placeholders with the
	// right verification scripts.
	tx.Scripts = []transaction.Witness{
		{InvocationScript: nil, VerificationScript: nil},
		{InvocationScript: nil, VerificationScript: multisigScript},
	}

	gasConsumed, halted := snap.VerifyOracleResponseTx(tx)
	if !halted {
		return nil, 0, ErrTxNotHalted
	}
	return tx, gasConsumed, nil
}

// responseNetFee is the network fee a response tx needs: execution cost
// plus the multisig witness's verification cost, plus the per-byte cost of
// the serialized transaction (spec §4.D steps 6-7).
func responseNetFee(snap chain.Snapshot, m, n int, gasConsumed int64, tx *transaction.Transaction) int64 {
	netFee := gasConsumed + snap.ExecFeeFactor()*smartcontract.MultiSignatureContractCost(m, n)
	return netFee + int64(tx.Size())*snap.FeePerByte()
}

// oracleResponseScript is the fixed invocation script every response
// transaction carries; it hands control to the native Oracle contract's
// finish-callback entry point, the same way every real response tx does
// regardless of request content (spec §4.D, "fixed oracle script").
var oracleResponseScript = []byte{
	0x10,       // PUSH0: argument count placeholder for "finish"
	0x0c, 0x06, // PUSHDATA1 "finish"
	'f', 'i', 'n', 'i', 's', 'h',
	0x41, // SYSCALL
}

// assembleWitness builds the final multisig witness from exactly m
// signatures, ordered ascending by the signer's public key, matching the
// order CreateMultiSigRedeemScript lists them in (spec §4.E step "assemble
// M signatures").
func assembleWitness(m int, oracles keys.PublicKeys, sigs map[string][]byte, verificationScript []byte) (*transaction.Witness, error) {
	sorted := make(keys.PublicKeys, len(oracles))
	copy(sorted, oracles)
	sorted.Sort()

	inv := make([]byte, 0, m*66)
	have := 0
	for _, pub := range sorted {
		sig, ok := sigs[string(pub.Bytes())]
		if !ok {
			continue
		}
		inv = append(inv, 0x0c, byte(len(sig)))
		inv = append(inv, sig...)
		have++
		if have == m {
			break
		}
	}
	if have < m {
		return nil, fmt.Errorf("have %d signatures, need %d", have, m)
	}
	return &transaction.Witness{InvocationScript: inv, VerificationScript: verificationScript}, nil
}
