// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"

	"github.com/adasuite/adawallet/pkg/adaunit"
)

// testRef returns a deterministic output reference for tests.
func testRef(fill byte, index uint32) OutRef {
	var id TxID
	for i := range id {
		id[i] = fill
	}

	return OutRef{TxID: id, Index: index}
}

// testBody returns a small but fully populated body.
func testBody() *Body {
	return NewBodyBuilder().
		Inputs([]OutRef{testRef(1, 0), testRef(2, 1)}).
		Outputs([]Output{
			NewOutput("addr_test1qtest", NewValueFromCoin(5_000_000)),
		}).
		Fee(200_000).
		ValidUntil(fn.Some(Slot(1000))).
		Collateral([]OutRef{testRef(3, 0)}).
		ReferenceInputs([]OutRef{testRef(4, 2)}).
		Build()
}

// TestBodyBuilderOptionalFields verifies that unset optional fields stay
// absent from the wire shape.
func TestBodyBuilderOptionalFields(t *testing.T) {
	t.Parallel()

	minimal := NewBodyBuilder().
		Inputs([]OutRef{testRef(1, 0)}).
		Outputs([]Output{
			NewOutput("addr_test1qtest", NewValueFromCoin(1_000_000)),
		}).
		Build()

	require.True(t, minimal.ValidFrom.IsNone())
	require.True(t, minimal.ValidUntil.IsNone())
	require.True(t, minimal.TotalCollateral.IsNone())
	require.Nil(t, minimal.CollateralReturn)

	minimalSize, err := minimal.SerializedSize()
	require.NoError(t, err)

	full := testBody()
	fullSize, err := full.SerializedSize()
	require.NoError(t, err)

	require.Greater(t, fullSize, minimalSize)
}

// TestBodyHashDeterminism verifies that hashing is stable and sensitive
// to body content.
func TestBodyHashDeterminism(t *testing.T) {
	t.Parallel()

	body := testBody()

	h1, err := body.Hash()
	require.NoError(t, err)
	h2, err := body.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	changed := body.Clone()
	changed.Fee = 300_000

	h3, err := changed.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

// TestBodySerializedSizeIncludesRedeemers verifies that the unsigned
// envelope size accounts for the redeemers travelling with the body.
func TestBodySerializedSizeIncludesRedeemers(t *testing.T) {
	t.Parallel()

	bare := testBody()
	bareSize, err := bare.SerializedSize()
	require.NoError(t, err)

	withRedeemers := bare.Clone()
	withRedeemers.Redeemers = []Redeemer{{
		Tag:   RedeemerTagMint,
		Index: 0,
		Data:  []byte{0x40},
		Units: NewExUnitsCBOR(adaunit.ExUnits{Mem: 10, Steps: 100}),
	}}

	redeemerSize, err := withRedeemers.SerializedSize()
	require.NoError(t, err)
	require.Greater(t, redeemerSize, bareSize)

	// Redeemers are witness data: the body hash must not change.
	h1, err := bare.Hash()
	require.NoError(t, err)
	h2, err := withRedeemers.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

// TestBodyTotalExUnits verifies summation across redeemers.
func TestBodyTotalExUnits(t *testing.T) {
	t.Parallel()

	body := testBody()
	require.Equal(t, adaunit.ZeroExUnits, body.TotalExUnits())

	body.Redeemers = []Redeemer{
		{
			Tag:   RedeemerTagSpend,
			Units: NewExUnitsCBOR(adaunit.ExUnits{Mem: 10, Steps: 100}),
		},
		{
			Tag:   RedeemerTagMint,
			Units: NewExUnitsCBOR(adaunit.ExUnits{Mem: 5, Steps: 50}),
		},
	}

	require.Equal(t, adaunit.ExUnits{Mem: 15, Steps: 150},
		body.TotalExUnits())
}

// TestBodyClone verifies that mutating a clone leaves the original
// untouched.
func TestBodyClone(t *testing.T) {
	t.Parallel()

	body := testBody()
	clone := body.Clone()

	clone.Inputs[0] = testRef(9, 9)
	clone.Outputs[0].Value.SetCoin(1)

	require.Equal(t, testRef(1, 0), body.Inputs[0])
	require.Equal(t, adaunit.Lovelace(5_000_000),
		body.Outputs[0].Value.Coin())
}

// TestCanonicalSimplifier verifies that a body produced by this package
// passes the canonical re-encoding check unchanged.
func TestCanonicalSimplifier(t *testing.T) {
	t.Parallel()

	body := testBody()

	simplified, err := NewCanonicalSimplifier().Simplify(body)
	require.NoError(t, err)
	require.Same(t, body, simplified)
}

// TestAdjacentHelpers verifies the small conversion helpers on outputs
// and UTxO sets.
func TestAdjacentHelpers(t *testing.T) {
	t.Parallel()

	utxo := UTxO{
		Ref:     testRef(7, 0),
		Address: "addr_test1qowner",
		Value:   NewValueFromCoin(3_000_000),
	}

	out := utxo.Output()
	require.Equal(t, utxo.Address, out.Address)
	require.Equal(t, utxo.Value, out.Value)

	set := NewUTxOSet(utxo, UTxO{
		Ref:     testRef(6, 1),
		Address: "addr_test1qowner",
		Value:   NewValueFromCoin(2_000_000),
	})

	require.Equal(t, adaunit.Lovelace(5_000_000), set.TotalValue().Coin())
	require.Equal(t, []OutRef{testRef(6, 1), testRef(7, 0)}, set.Refs())
}
