// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/adasuite/adawallet/pkg/adaunit"
)

// Slot is a slot number on the chain, the unit of transaction validity
// intervals.
type Slot uint64

// RedeemerTag names the transaction component a redeemer belongs to.
type RedeemerTag uint8

const (
	// RedeemerTagSpend marks a redeemer for a script-witnessed input.
	RedeemerTagSpend RedeemerTag = 0

	// RedeemerTagMint marks a redeemer for a minting policy.
	RedeemerTagMint RedeemerTag = 1
)

// Redeemer is the argument and execution budget for one script
// invocation. Budgets start out zero-valued; the external ledger
// evaluator fills them in during auto-balancing.
type Redeemer struct {
	_ struct{} `cbor:",toarray"`

	// Tag names the component the redeemer belongs to.
	Tag RedeemerTag

	// Index is the position of that component within its field (input
	// index for spend redeemers, policy index for mint redeemers).
	Index uint32

	// Data is the serialized redeemer argument.
	Data []byte

	// Units is the execution budget consumed by the invocation.
	Units ExUnitsCBOR
}

// ExUnitsCBOR wraps adaunit.ExUnits with the ledger's two-element array
// wire shape.
type ExUnitsCBOR struct {
	_ struct{} `cbor:",toarray"`

	Mem   uint64
	Steps uint64
}

// Units converts the wire shape back into an adaunit.ExUnits.
func (e ExUnitsCBOR) Units() adaunit.ExUnits {
	return adaunit.ExUnits{Mem: e.Mem, Steps: e.Steps}
}

// NewExUnitsCBOR converts an adaunit.ExUnits into its wire shape.
func NewExUnitsCBOR(units adaunit.ExUnits) ExUnitsCBOR {
	return ExUnitsCBOR{Mem: units.Mem, Steps: units.Steps}
}

// Body map keys per the ledger CDDL.
const (
	bodyKeyInputs           = 0
	bodyKeyOutputs          = 1
	bodyKeyFee              = 2
	bodyKeyValidUntil       = 3
	bodyKeyValidFrom        = 8
	bodyKeyMint             = 9
	bodyKeyCollateral       = 13
	bodyKeyRequiredSigners  = 14
	bodyKeyCollateralReturn = 16
	bodyKeyTotalCollateral  = 17
	bodyKeyReferenceInputs  = 18
)

// Body is an unsigned transaction body together with the redeemers of
// its embedded scripts. The redeemers formally belong to the witness set
// rather than the body, but they travel with the body here because the
// balancer needs their execution budgets to validate protocol ceilings
// before any signing happens.
type Body struct {
	// Inputs are the references of the outputs the transaction
	// spends.
	Inputs []OutRef

	// Outputs are the outputs the transaction creates.
	Outputs []Output

	// Fee is the declared transaction fee.
	Fee adaunit.Lovelace

	// ValidFrom is the optional lower bound of the validity interval.
	ValidFrom fn.Option[Slot]

	// ValidUntil is the optional upper bound of the validity
	// interval.
	ValidUntil fn.Option[Slot]

	// Mint is the value minted (positive) or burned (negative) by the
	// transaction, holding non-ada assets only.
	Mint Value

	// Collateral are the references of the outputs pledged as
	// collateral.
	Collateral []OutRef

	// RequiredSigners are key hashes that must sign the transaction
	// in addition to those implied by its inputs.
	RequiredSigners []KeyHash

	// CollateralReturn is the optional output returning the excess of
	// the pledged collateral.
	CollateralReturn *Output

	// TotalCollateral is the optional declared base-asset amount the
	// collateral inputs forfeit on script failure.
	TotalCollateral fn.Option[adaunit.Lovelace]

	// ReferenceInputs are outputs the transaction reads without
	// spending.
	ReferenceInputs []OutRef

	// Redeemers are the script invocation arguments and budgets.
	Redeemers []Redeemer
}

// encMode is the deterministic CBOR encoder used for every encoding in
// this package.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tx: cbor enc mode: %v", err))
	}
}

// marshalCanonical encodes a value with the package's deterministic
// encoder.
func marshalCanonical(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// bodyMap builds the integer-keyed map that is the wire shape of the
// body. Optional fields are present only when set.
func (b *Body) bodyMap() map[int]any {
	m := map[int]any{
		bodyKeyInputs:  b.Inputs,
		bodyKeyOutputs: b.Outputs,
		bodyKeyFee:     uint64(b.Fee),
	}

	b.ValidUntil.WhenSome(func(s Slot) {
		m[bodyKeyValidUntil] = uint64(s)
	})
	b.ValidFrom.WhenSome(func(s Slot) {
		m[bodyKeyValidFrom] = uint64(s)
	})

	if b.Mint != nil && !b.Mint.IsZero() {
		m[bodyKeyMint] = b.Mint
	}
	if len(b.Collateral) > 0 {
		m[bodyKeyCollateral] = b.Collateral
	}
	if len(b.RequiredSigners) > 0 {
		m[bodyKeyRequiredSigners] = b.RequiredSigners
	}
	if b.CollateralReturn != nil {
		m[bodyKeyCollateralReturn] = *b.CollateralReturn
	}
	b.TotalCollateral.WhenSome(func(total adaunit.Lovelace) {
		m[bodyKeyTotalCollateral] = uint64(total)
	})
	if len(b.ReferenceInputs) > 0 {
		m[bodyKeyReferenceInputs] = b.ReferenceInputs
	}

	return m
}

// MarshalCBOR encodes the body (without redeemers) in its ledger wire
// shape.
func (b *Body) MarshalCBOR() ([]byte, error) {
	return marshalCanonical(b.bodyMap())
}

// SerializedSize returns the size in bytes of the unsigned envelope: the
// body plus its redeemers. Signing witnesses are not included; their
// marginal size is small relative to the protocol size ceiling.
func (b *Body) SerializedSize() (int, error) {
	bodyBytes, err := b.MarshalCBOR()
	if err != nil {
		return 0, err
	}

	size := len(bodyBytes)
	if len(b.Redeemers) > 0 {
		redeemerBytes, err := marshalCanonical(b.Redeemers)
		if err != nil {
			return 0, err
		}

		size += len(redeemerBytes)
	}

	return size, nil
}

// TotalExUnits returns the total execution budget consumed across every
// redeemer of the body.
func (b *Body) TotalExUnits() adaunit.ExUnits {
	total := adaunit.ZeroExUnits
	for _, r := range b.Redeemers {
		total = total.Add(r.Units.Units())
	}

	return total
}

// Hash returns the transaction identifier: the blake2b-256 digest of the
// encoded body.
func (b *Body) Hash() (TxID, error) {
	data, err := b.MarshalCBOR()
	if err != nil {
		return TxID{}, err
	}

	return TxID(blake2b.Sum256(data)), nil
}

// Clone returns a deep copy of the body.
func (b *Body) Clone() *Body {
	c := *b

	c.Inputs = append([]OutRef(nil), b.Inputs...)
	c.Collateral = append([]OutRef(nil), b.Collateral...)
	c.ReferenceInputs = append([]OutRef(nil), b.ReferenceInputs...)
	c.RequiredSigners = append([]KeyHash(nil), b.RequiredSigners...)
	c.Redeemers = append([]Redeemer(nil), b.Redeemers...)

	c.Outputs = make([]Output, len(b.Outputs))
	for i, out := range b.Outputs {
		c.Outputs[i] = out.Clone()
	}

	if b.Mint != nil {
		c.Mint = b.Mint.Clone()
	}
	if b.CollateralReturn != nil {
		ret := b.CollateralReturn.Clone()
		c.CollateralReturn = &ret
	}

	return &c
}
