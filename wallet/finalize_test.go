// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

// anyBalance is the argument matcher list for an AutoBalance call.
var anyBalance = []any{
	mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	mock.Anything,
}

// newCandidate returns a plain key-spend candidate without collateral.
func newCandidate() *Candidate {
	return &Candidate{
		Inputs: []tx.Input{{
			Ref:     testRef(1, 0),
			Witness: tx.KeyWitness{},
		}},
		Outputs: payOutputs(2_000_000),
	}
}

// TestFinalizeSinglePass verifies that a candidate without collateral is
// balanced exactly once and handed back simplified.
func TestFinalizeSinglePass(t *testing.T) {
	t.Parallel()

	balanced := balancedBody(200_000)

	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Return(balanced, adaunit.Lovelace(200_000), nil).Once()

	env := newTestEnv(balancer)

	body, err := Finalize(env, newCandidate())
	require.NoError(t, err)
	require.Equal(t, balanced, body)

	balancer.AssertExpectations(t)
}

// TestFinalizeMissingCeilings verifies that absent protocol ceilings
// halt finalization before any balancing work.
func TestFinalizeMissingCeilings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*tx.ProtocolParams)
		want   error
	}{
		{
			name: "missing execution unit ceiling",
			mutate: func(p *tx.ProtocolParams) {
				p.MaxTxExUnits = fn.None[adaunit.ExUnits]()
			},
			want: ErrMissingMaxExUnits,
		},
		{
			name: "missing size ceiling",
			mutate: func(p *tx.ProtocolParams) {
				p.MaxTxSize = fn.None[uint32]()
			},
			want: ErrMissingMaxTxSize,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			balancer := &mockBalancer{}
			env := newTestEnv(balancer)
			tc.mutate(env.Params)

			_, err := Finalize(env, newCandidate())
			require.ErrorIs(t, err, tc.want)

			balancer.AssertNotCalled(t, "AutoBalance")
		})
	}
}

// TestFinalizeShellRedeemers verifies the shell handed to the balancer:
// inputs in canonical order, spend redeemers indexed by the input's
// sorted position, and mint redeemers indexed by policy order.
func TestFinalizeShellRedeemers(t *testing.T) {
	t.Parallel()

	mint := tx.NewValue()
	mint[testAsset] = 10

	candidate := &Candidate{
		Inputs: []tx.Input{
			{
				Ref: testRef(2, 0),
				Witness: tx.ScriptWitness{
					Redeemer: []byte{0x40},
					Units: adaunit.ExUnits{
						Mem: 10, Steps: 100,
					},
				},
			},
			{Ref: testRef(1, 0), Witness: tx.KeyWitness{}},
		},
		Outputs: payOutputs(2_000_000),
		Mint:    mint,
		MintRedeemers: []MintRedeemer{
			{Policy: testPolicy, Data: []byte{0x41, 0x01}},
		},
	}

	var shell *tx.Body
	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Run(func(args mock.Arguments) {
			shell = args.Get(3).(*tx.Body)
		}).
		Return(balancedBody(200_000), adaunit.Lovelace(200_000), nil).
		Once()

	_, err := Finalize(newTestEnv(balancer), candidate)
	require.NoError(t, err)

	require.Equal(t, []tx.OutRef{testRef(1, 0), testRef(2, 0)},
		shell.Inputs)
	require.Equal(t, adaunit.ZeroLovelace, shell.Fee)

	require.Len(t, shell.Redeemers, 2)

	// The script input sorts after the key input, so its spend
	// redeemer points at position one.
	spend := shell.Redeemers[0]
	require.Equal(t, tx.RedeemerTagSpend, spend.Tag)
	require.EqualValues(t, 1, spend.Index)
	require.Equal(t, []byte{0x40}, spend.Data)

	mintRed := shell.Redeemers[1]
	require.Equal(t, tx.RedeemerTagMint, mintRed.Tag)
	require.EqualValues(t, 0, mintRed.Index)
	require.Equal(t, []byte{0x41, 0x01}, mintRed.Data)
}

// TestFinalizeCollateralTwoPass verifies the collateral flow: the fee
// estimate of the first balancing pass fixes the exact total and return
// collateral of the second.
func TestFinalizeCollateralTwoPass(t *testing.T) {
	t.Parallel()

	candidate := newCandidate()
	candidate.Collateral = tx.NewUTxOSet(coinUtxo(9, 5_000_000))

	final := balancedBody(210_000)

	var corrected *tx.Body
	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Return(balancedBody(200_000), adaunit.Lovelace(200_000), nil).
		Once()
	balancer.On("AutoBalance", anyBalance...).
		Run(func(args mock.Arguments) {
			corrected = args.Get(3).(*tx.Body)
		}).
		Return(final, adaunit.Lovelace(210_000), nil).Once()

	body, err := Finalize(newTestEnv(balancer), candidate)
	require.NoError(t, err)
	require.Equal(t, final, body)

	// Required coverage of a 0.2 ada fee at 150%.
	require.Equal(t, fn.Some(adaunit.Lovelace(300_000)),
		corrected.TotalCollateral)
	require.NotNil(t, corrected.CollateralReturn)
	require.Equal(t, testChangeAddr, corrected.CollateralReturn.Address)
	require.Equal(t, adaunit.Lovelace(4_700_000),
		corrected.CollateralReturn.Value.Coin())

	balancer.AssertExpectations(t)
}

// TestFinalizeCollateralShortfall verifies the terminal error when the
// pledged collateral cannot cover the required fee percentage.
func TestFinalizeCollateralShortfall(t *testing.T) {
	t.Parallel()

	candidate := newCandidate()
	candidate.Collateral = tx.NewUTxOSet(coinUtxo(9, 100_000))

	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Return(balancedBody(200_000), adaunit.Lovelace(200_000), nil).
		Once()

	_, err := Finalize(newTestEnv(balancer), candidate)
	require.ErrorIs(t, err, ErrCollateralShortfall)

	balancer.AssertNumberOfCalls(t, "AutoBalance", 1)
}

// TestFinalizeExUnitsTooBig verifies that a balanced body whose scripts
// exceed the execution unit ceiling is rejected.
func TestFinalizeExUnitsTooBig(t *testing.T) {
	t.Parallel()

	big := balancedBody(200_000)
	big.Redeemers = []tx.Redeemer{{
		Tag: tx.RedeemerTagSpend,
		Units: tx.NewExUnitsCBOR(adaunit.ExUnits{
			Mem: 15_000_000, Steps: 1,
		}),
	}}

	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Return(big, adaunit.Lovelace(200_000), nil).Once()

	_, err := Finalize(newTestEnv(balancer), newCandidate())
	require.ErrorIs(t, err, ErrExUnitsTooBig)
}

// TestFinalizeSizeTooBig verifies that a balanced body larger than the
// transaction size ceiling is rejected.
func TestFinalizeSizeTooBig(t *testing.T) {
	t.Parallel()

	balancer := &mockBalancer{}
	balancer.On("AutoBalance", anyBalance...).
		Return(balancedBody(200_000), adaunit.Lovelace(200_000), nil).
		Once()

	env := newTestEnv(balancer)
	env.Params.MaxTxSize = fn.Some(uint32(10))

	_, err := Finalize(env, newCandidate())
	require.ErrorIs(t, err, ErrSizeTooBig)
}

// TestFinalizeClassifiesBalancerErrors verifies the error taxonomy of
// balancer failures: parameter conversion problems pass through, every
// other cause is wrapped but stays inspectable.
func TestFinalizeClassifiesBalancerErrors(t *testing.T) {
	t.Parallel()

	t.Run("residual too small", func(t *testing.T) {
		t.Parallel()

		cause := fmt.Errorf("%w: residual 120000",
			ErrAdaBalanceTooSmall)

		balancer := &mockBalancer{}
		balancer.On("AutoBalance", anyBalance...).
			Return(nil, adaunit.ZeroLovelace, cause).Once()

		_, err := Finalize(newTestEnv(balancer), newCandidate())
		require.ErrorIs(t, err, ErrAutoBalance)
		require.ErrorIs(t, err, ErrAdaBalanceTooSmall)
	})

	t.Run("parameter conversion", func(t *testing.T) {
		t.Parallel()

		cause := fmt.Errorf("%w: unsupported cost model",
			ErrPPConversion)

		balancer := &mockBalancer{}
		balancer.On("AutoBalance", anyBalance...).
			Return(nil, adaunit.ZeroLovelace, cause).Once()

		_, err := Finalize(newTestEnv(balancer), newCandidate())
		require.ErrorIs(t, err, ErrPPConversion)
		require.False(t, errors.Is(err, ErrAutoBalance))
	})
}
