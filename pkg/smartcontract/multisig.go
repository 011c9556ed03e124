// Package smartcontract builds the multisignature verification scripts the
// response-transaction builder assigns to the Oracle multisig signer (spec
// §4.D step 3, §9 "threshold assembly ordering").
package smartcontract

import (
	"errors"

	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/io"
	"github.com/Tommo-L/neo-modules/pkg/util"
)

// Opcode values used by the tiny subset of script construction this
// package needs. They follow the NeoVM numbering so a verification script
// built here is byte-compatible with what the chain's VM expects; nothing
// in this module interprets them (the VM itself is an external
// collaborator, spec §1).
const (
	opPushInt8     = 0x00
	opPushData1    = 0x0c
	opCheckMultisig = 0x9e
	opCheckSig     = 0x9c
)

// ErrInvalidThreshold is returned when m is out of [1, len(pubs)] range.
var ErrInvalidThreshold = errors.New("invalid multisig threshold")

// CreateMultiSigRedeemScript builds the verification script for an m-of-n
// multisignature account over pubs. pubs does not need to be pre-sorted;
// the script always lists keys in ascending compressed-byte order, matching
// the convention CHECKMULTISIG and every honest oracle's builder rely on.
func CreateMultiSigRedeemScript(m int, pubs keys.PublicKeys) ([]byte, error) {
	n := len(pubs)
	if m <= 0 || m > n || n == 0 {
		return nil, ErrInvalidThreshold
	}
	sorted := make(keys.PublicKeys, n)
	copy(sorted, pubs)
	sorted.Sort()

	bw := io.NewBufBinWriter()
	pushInt(bw, m)
	for _, p := range sorted {
		b := p.Bytes()
		bw.WriteB(opPushData1)
		bw.WriteB(byte(len(b)))
		bw.WriteBytes(b)
	}
	pushInt(bw, n)
	bw.WriteB(opCheckMultisig)
	return bw.Bytes(), bw.Error()
}

// CreateSignatureRedeemScript builds the verification script for a single
// -key account, the account wallet addresses (as opposed to the oracle
// multisig account) are derived from.
func CreateSignatureRedeemScript(pub *keys.PublicKey) []byte {
	b := pub.Bytes()
	bw := io.NewBufBinWriter()
	bw.WriteB(opPushData1)
	bw.WriteB(byte(len(b)))
	bw.WriteBytes(b)
	bw.WriteB(opCheckSig)
	return bw.Bytes()
}

func pushInt(bw *io.BufBinWriter, v int) {
	// PUSH1..PUSH16 are encoded as a single opcode byte = base + (v-1) for
	// the small values this package ever needs (m, n are oracle counts,
	// always <= 32 but realistically <= 16 signers here).
	const opPush1 = 0x51
	if v >= 1 && v <= 16 {
		bw.WriteB(byte(opPush1 + v - 1))
		return
	}
	bw.WriteB(opPushInt8)
	bw.WriteB(byte(v))
}

// ScriptHash returns the script hash (account) a verification script
// corresponds to.
func ScriptHash(script []byte) util.Uint160 {
	return hash.Hash160(script)
}

// MultiSignatureContractCost estimates the GAS cost of verifying an m-of-n
// multisignature witness, the same shape of formula the native Oracle
// contract's fee computation uses (spec §4.D step 5): a fixed per-signature
// verification price times the number of signatures actually checked.
func MultiSignatureContractCost(m, n int) int64 {
	const signatureVerificationPrice = 1 << 15
	return int64(signatureVerificationPrice) * int64(m)
}
