package transaction

import (
	"errors"

	"github.com/Tommo-L/neo-modules/pkg/io"
)

// OracleResponseCode is the closed set of outcomes a response transaction
// can carry (spec §3 "OracleResponseCode").
type OracleResponseCode byte

// OracleResponseCode values, in the order the spec lists them.
const (
	Success               OracleResponseCode = 0x00
	ProtocolNotSupported  OracleResponseCode = 0x10
	ConsensusUnreachable  OracleResponseCode = 0x12
	NotFound              OracleResponseCode = 0x14
	Timeout               OracleResponseCode = 0x16
	Forbidden             OracleResponseCode = 0x18
	ResponseTooLarge      OracleResponseCode = 0x1a
	InsufficientFunds     OracleResponseCode = 0x1c
	Error                 OracleResponseCode = 0xff
)

// IsValid reports whether c is one of the defined response codes.
func (c OracleResponseCode) IsValid() bool {
	switch c {
	case Success, ProtocolNotSupported, ConsensusUnreachable, NotFound,
		Timeout, Forbidden, ResponseTooLarge, InsufficientFunds, Error:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c OracleResponseCode) String() string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// MaxOracleResultSize is the maximum number of bytes a non-error response
// result may carry (spec §4.D step 6, §8 boundary behavior).
const MaxOracleResultSize = 0xFFFF

// ErrInvalidResponseCode is returned when decoding an OracleResponse whose
// code byte isn't a member of OracleResponseCode.
var ErrInvalidResponseCode = errors.New("invalid oracle response code")

// ErrInvalidResult is returned when decoding an OracleResponse whose result
// is non-empty despite a non-Success code.
var ErrInvalidResult = errors.New("invalid oracle response result")

// OracleResponse is the attribute every response transaction carries,
// binding it to the request it answers (spec §3, §4.D).
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// EncodeBinary implements the deterministic wire encoding every oracle must
// reproduce byte for byte.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

// DecodeBinary is the reverse of EncodeBinary.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	r.Code = OracleResponseCode(br.ReadB())
	if br.Err != nil {
		return
	}
	if !r.Code.IsValid() {
		br.Err = ErrInvalidResponseCode
		return
	}
	r.Result = br.ReadVarBytes()
	if br.Err != nil {
		return
	}
	if r.Code != Success && len(r.Result) != 0 {
		br.Err = ErrInvalidResult
	}
}

// toJSONMap merges the response's fields into m, the way the teacher
// flattens attribute fields into a transaction's JSON representation.
func (r *OracleResponse) toJSONMap(m map[string]any) {
	m["id"] = r.ID
	m["code"] = r.Code.String()
	m["result"] = r.Result
}
