// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/adasuite/adawallet/pkg/adaunit"
)

// BodyBuilder assembles a transaction body field by field. Every
// optional field defaults to absent; only the fields explicitly set end
// up in the built body. The zero value is ready for use.
type BodyBuilder struct {
	body Body
}

// NewBodyBuilder returns an empty builder.
func NewBodyBuilder() *BodyBuilder {
	return &BodyBuilder{}
}

// Inputs sets the spending input references of the body.
func (b *BodyBuilder) Inputs(refs []OutRef) *BodyBuilder {
	b.body.Inputs = refs
	return b
}

// Outputs sets the outputs of the body.
func (b *BodyBuilder) Outputs(outputs []Output) *BodyBuilder {
	b.body.Outputs = outputs
	return b
}

// Fee sets the declared fee of the body.
func (b *BodyBuilder) Fee(fee adaunit.Lovelace) *BodyBuilder {
	b.body.Fee = fee
	return b
}

// ValidFrom sets the lower validity bound of the body.
func (b *BodyBuilder) ValidFrom(slot fn.Option[Slot]) *BodyBuilder {
	b.body.ValidFrom = slot
	return b
}

// ValidUntil sets the upper validity bound of the body.
func (b *BodyBuilder) ValidUntil(slot fn.Option[Slot]) *BodyBuilder {
	b.body.ValidUntil = slot
	return b
}

// Mint sets the minted value of the body. Only the non-ada assets of the
// value are carried.
func (b *BodyBuilder) Mint(mint Value) *BodyBuilder {
	b.body.Mint = mint.AssetsOnly()
	return b
}

// Collateral sets the collateral input references of the body.
func (b *BodyBuilder) Collateral(refs []OutRef) *BodyBuilder {
	b.body.Collateral = refs
	return b
}

// RequiredSigners sets the extra signer key hashes of the body.
func (b *BodyBuilder) RequiredSigners(signers []KeyHash) *BodyBuilder {
	b.body.RequiredSigners = signers
	return b
}

// CollateralReturn sets the collateral return output of the body.
func (b *BodyBuilder) CollateralReturn(out Output) *BodyBuilder {
	b.body.CollateralReturn = &out
	return b
}

// TotalCollateral sets the declared total collateral of the body.
func (b *BodyBuilder) TotalCollateral(total adaunit.Lovelace) *BodyBuilder {
	b.body.TotalCollateral = fn.Some(total)
	return b
}

// ReferenceInputs sets the reference input references of the body.
func (b *BodyBuilder) ReferenceInputs(refs []OutRef) *BodyBuilder {
	b.body.ReferenceInputs = refs
	return b
}

// Redeemers sets the script redeemers travelling with the body.
func (b *BodyBuilder) Redeemers(redeemers []Redeemer) *BodyBuilder {
	b.body.Redeemers = redeemers
	return b
}

// Build returns the assembled body. The builder must not be reused after
// calling Build.
func (b *BodyBuilder) Build() *Body {
	return &b.body
}
