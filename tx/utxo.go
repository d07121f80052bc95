// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// TxIDLen is the length in bytes of a transaction identifier, which is a
// blake2b-256 digest of the transaction body.
const TxIDLen = 32

// TxID is the unique identifier of a transaction.
type TxID [TxIDLen]byte

// NewTxIDFromString parses a hex-encoded transaction identifier.
func NewTxIDFromString(s string) (TxID, error) {
	var id TxID

	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != TxIDLen {
		return id, fmt.Errorf("invalid tx id length %d", len(raw))
	}

	copy(id[:], raw)

	return id, nil
}

// String returns the hex encoding of the identifier.
func (id TxID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalCBOR encodes the identifier as a CBOR byte string.
func (id TxID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(id[:])
}

// UnmarshalCBOR decodes the identifier from a CBOR byte string.
func (id *TxID) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != TxIDLen {
		return fmt.Errorf("invalid tx id length %d", len(raw))
	}

	copy(id[:], raw)

	return nil
}

// OutRef references a single output of a previous transaction.
type OutRef struct {
	_ struct{} `cbor:",toarray"`

	// TxID is the identifier of the transaction holding the output.
	TxID TxID

	// Index is the position of the output within that transaction.
	Index uint32
}

// String returns the canonical "txid#index" rendering of the reference.
func (r OutRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxID, r.Index)
}

// Address is a bech32-encoded ledger address. The balancer treats
// addresses as opaque destinations; parsing and credential inspection is
// the concern of the surrounding ledger library.
type Address string

// KeyHash is the hex-encoded hash of a payment verification key. It is
// used both for key witnesses and for the required-signers field of a
// transaction body.
type KeyHash string

// Datum is data attached to an output, either by hash or inline.
type Datum struct {
	// Hash is the hex-encoded hash of the datum, set when the output
	// carries only a datum hash.
	Hash string

	// Bytes is the serialized datum itself, set when the datum is
	// inlined into the output.
	Bytes []byte
}

// Script is a serialized ledger script.
type Script struct {
	// Version is the script language version.
	Version uint8

	// Bytes is the serialized script.
	Bytes []byte
}

// UTxO is a single unspent transaction output: an output reference
// together with the output's content. UTxOs are immutable once created.
type UTxO struct {
	// Ref is the output reference.
	Ref OutRef

	// Address is the address owning the output.
	Address Address

	// Value is the multi-asset quantity held by the output.
	Value Value

	// Datum is the optional datum attached to the output.
	Datum *Datum

	// RefScript is the optional script attached to the output for use
	// as a reference script.
	RefScript *Script
}

// Output converts the UTxO into the equivalent transaction output.
func (u UTxO) Output() Output {
	return Output{
		Address:   u.Address,
		Value:     u.Value.Clone(),
		Datum:     u.Datum,
		RefScript: u.RefScript,
	}
}

// UTxOSet is a set of unspent outputs keyed by their references.
type UTxOSet map[OutRef]UTxO

// NewUTxOSet builds a set from the given unspent outputs. Later entries
// with a duplicate reference silently replace earlier ones.
func NewUTxOSet(utxos ...UTxO) UTxOSet {
	set := make(UTxOSet, len(utxos))
	for _, u := range utxos {
		set[u.Ref] = u
	}

	return set
}

// Clone returns a shallow copy of the set. UTxOs themselves are treated
// as immutable so sharing them between copies is safe.
func (s UTxOSet) Clone() UTxOSet {
	c := make(UTxOSet, len(s))
	for ref, u := range s {
		c[ref] = u
	}

	return c
}

// TotalValue returns the asset-wise sum of every output in the set.
func (s UTxOSet) TotalValue() Value {
	total := NewValue()
	for _, u := range s {
		total = total.Add(u.Value)
	}

	return total
}

// Refs returns the references of the set in a deterministic order.
func (s UTxOSet) Refs() []OutRef {
	refs := make([]OutRef, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].TxID != refs[j].TxID {
			return refs[i].TxID.String() < refs[j].TxID.String()
		}

		return refs[i].Index < refs[j].Index
	})

	return refs
}

// Sorted returns the UTxOs of the set ordered by their references.
func (s UTxOSet) Sorted() []UTxO {
	refs := s.Refs()
	utxos := make([]UTxO, 0, len(refs))
	for _, ref := range refs {
		utxos = append(utxos, s[ref])
	}

	return utxos
}
