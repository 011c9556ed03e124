package transaction

import (
	"github.com/Tommo-L/neo-modules/pkg/crypto/hash"
	"github.com/Tommo-L/neo-modules/pkg/io"
	"github.com/Tommo-L/neo-modules/pkg/util"
)

// WitnessScope restricts which contracts a signer's witness is valid for.
type WitnessScope byte

// WitnessScope values used by response transactions.
const (
	// None means the witness is only valid for the transaction itself.
	None WitnessScope = 0
	// CalledByEntry restricts a witness to direct invocations.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts restricts a witness to an explicit AllowedContracts list.
	CustomContracts WitnessScope = 0x10
)

// Signer pairs an account with the scope its witness is valid under (spec
// §4.D step 3: "two signers in fixed order").
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
}

// Witness carries the invocation/verification script pair proving a
// Signer authorized the transaction.
type Witness struct {
	InvocationScript   []byte
	VerificationScript []byte
}

// ScriptHash returns the script hash the witness's verification script
// corresponds to.
func (w *Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Attribute is a generic transaction attribute; the oracle service only
// ever attaches an OracleResponse.
type Attribute struct {
	Type  AttrType
	Value *OracleResponse
}

// AttrType enumerates transaction attribute kinds.
type AttrType byte

// OracleResponseT is the only attribute type the oracle service emits.
const OracleResponseT AttrType = 0x11

// Transaction is the minimal, deterministic subset of a NEO transaction the
// oracle node needs: enough fields to compute a signing hash and carry two
// fixed signers/witnesses (spec §4.D step 3-4).
type Transaction struct {
	Version         byte
	Nonce           uint32
	ValidUntilBlock uint32
	Script          []byte
	SystemFee       int64
	NetworkFee      int64
	Attributes      []Attribute
	Signers         []Signer
	Scripts         []Witness

	hash     *util.Uint256
	sigHash  *util.Uint256
}

// New creates a new, unsigned Transaction with the given script and
// valid-until-block height.
func New(script []byte, validUntilBlock uint32) *Transaction {
	return &Transaction{
		Script:          script,
		ValidUntilBlock: validUntilBlock,
	}
}

func (t *Transaction) encodeUnsigned(w *io.BinWriter) {
	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteU64LE(uint64(t.SystemFee))
	w.WriteU64LE(uint64(t.NetworkFee))
	w.WriteU32LE(t.ValidUntilBlock)
	w.WriteVarUint(uint64(len(t.Signers)))
	for _, s := range t.Signers {
		w.WriteBytes(s.Account.BytesBE())
		w.WriteB(byte(s.Scopes))
		if s.Scopes&CustomContracts != 0 {
			w.WriteVarUint(uint64(len(s.AllowedContracts)))
			for _, c := range s.AllowedContracts {
				w.WriteBytes(c.BytesBE())
			}
		}
	}
	w.WriteVarUint(uint64(len(t.Attributes)))
	for _, a := range t.Attributes {
		w.WriteB(byte(a.Type))
		if a.Value != nil {
			a.Value.EncodeBinary(w)
		}
	}
	w.WriteVarBytes(t.Script)
}

// Bytes returns the unsigned serialized form of t (attributes included,
// witnesses excluded). Every honest oracle that built the same logical
// transaction produces the exact same bytes here (spec §4.D, §8 round-trip
// property).
func (t *Transaction) Bytes() []byte {
	bw := io.NewBufBinWriter()
	t.encodeUnsigned(bw.BinWriter)
	return bw.Bytes()
}

// SigningHash is the hash every oracle signs and verifies partial
// signatures against (spec §3 "Signing hash").
func (t *Transaction) SigningHash() util.Uint256 {
	if t.sigHash != nil {
		return *t.sigHash
	}
	h := hash.Sha256(t.Bytes())
	t.sigHash = &h
	return h
}

// Size returns the serialized size of the unsigned transaction in bytes,
// used by the fee/truncation policy (spec §4.D step 6).
func (t *Transaction) Size() int {
	return len(t.Bytes())
}

// AttributesSize returns the serialized size contributed by t.Attributes
// alone, used because step 6 computes size "excluding attributes" and step
// 7 re-adds it.
func (t *Transaction) AttributesSize() int {
	bw := io.NewBufBinWriter()
	bw.WriteVarUint(uint64(len(t.Attributes)))
	for _, a := range t.Attributes {
		bw.WriteB(byte(a.Type))
		if a.Value != nil {
			a.Value.EncodeBinary(bw.BinWriter)
		}
	}
	return bw.Len()
}

// ScriptHashesForVerifying returns the script hash each Signer/Witness pair
// must verify against, in Signers order (spec §4.D step 4 "positional").
func (t *Transaction) ScriptHashesForVerifying() []util.Uint160 {
	hashes := make([]util.Uint160, len(t.Signers))
	for i, s := range t.Signers {
		hashes[i] = s.Account
	}
	return hashes
}

// OracleResponse returns the transaction's OracleResponse attribute, or nil
// if it doesn't carry one.
func (t *Transaction) OracleResponse() *OracleResponse {
	for _, a := range t.Attributes {
		if a.Type == OracleResponseT {
			return a.Value
		}
	}
	return nil
}
