// Package native mirrors the pieces of the chain's native Oracle contract
// the node must agree with byte-for-byte: the designated-oracle set shape
// and the signature threshold formula (spec §3 "Threshold M", §4.D step 1).
package native

import (
	"github.com/Tommo-L/neo-modules/pkg/crypto/keys"
	"github.com/Tommo-L/neo-modules/pkg/io"
)

// Threshold computes M = N - floor((N-1)/3), the smallest honest-majority
// size for a designated set of size n (spec GLOSSARY "Threshold M").
func Threshold(n int) int {
	if n <= 0 {
		return 0
	}
	return n - (n-1)/3
}

// NodeList is the ordered set of designated oracle public keys at a given
// block height, as read from the chain collaborator.
type NodeList keys.PublicKeys

// EncodeBinary writes the list as a varuint count followed by each
// compressed public key.
func (l NodeList) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(l)))
	for _, p := range l {
		b := p.Bytes()
		w.WriteVarBytes(b)
	}
}

// DecodeBinary is the reverse of EncodeBinary.
func (l *NodeList) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	list := make(NodeList, 0, n)
	for i := uint64(0); i < n; i++ {
		b := r.ReadVarBytes()
		if r.Err != nil {
			return
		}
		p, err := keys.NewPublicKeyFromBytes(b)
		if err != nil {
			r.Err = err
			return
		}
		list = append(list, p)
	}
	*l = list
}

// IDList is the set of request ids registered against a single URL, as
// maintained by the chain's request-by-url index (spec §6 "request-by-url
// iterator").
type IDList []uint64

// Remove deletes id from the list, preserving the relative order of the
// remaining entries. It reports whether id was present.
func (l *IDList) Remove(id uint64) bool {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// EncodeBinary writes the list as a varuint count followed by each 64-bit
// little-endian id.
func (l IDList) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(l)))
	for _, id := range l {
		w.WriteU64LE(id)
	}
}

// DecodeBinary is the reverse of EncodeBinary.
func (l *IDList) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	list := make(IDList, 0, n)
	for i := uint64(0); i < n; i++ {
		list = append(list, r.ReadU64LE())
	}
	*l = list
}
