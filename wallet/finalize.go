// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/adasuite/adawallet/tx"
	"github.com/adasuite/adawallet/txrules"
)

// Finalize converts a balancing candidate into a ledger-ready
// transaction body. It assembles the body shell, runs the external
// auto-balancer for a fee estimate, tightens the collateral split from
// that estimate and re-balances, then validates the result against the
// protocol execution-unit and size ceilings before the simplification
// pass. Finalize itself consumes no randomness: re-finalizing the same
// candidate against the same environment yields an identical body.
func Finalize(env *BuildEnvironment, candidate *Candidate) (*tx.Body,
	error) {

	if err := env.validate(); err != nil {
		return nil, err
	}

	// Both ceilings are required before any balancing work starts; a
	// missing ceiling is a configuration error no retry can fix.
	maxExUnits, err := env.Params.MaxTxExUnits.UnwrapOrErr(
		ErrMissingMaxExUnits,
	)
	if err != nil {
		return nil, err
	}
	maxTxSize, err := env.Params.MaxTxSize.UnwrapOrErr(
		ErrMissingMaxTxSize,
	)
	if err != nil {
		return nil, err
	}

	shell, err := assembleShell(candidate)
	if err != nil {
		return nil, err
	}

	// First pass: balance the shell as-is to learn the fee.
	balanced, feeEstimate, err := env.Balancer.AutoBalance(
		&env.Network, env.Params, env.Spendable, shell,
		env.ChangeAddress,
	)
	if err != nil {
		return nil, classifyAutoBalance(err)
	}

	final := balanced
	if len(candidate.Collateral) > 0 {
		// Tighten the collateral split from the fee estimate and
		// balance again. Declaring the exact total and return
		// collateral here, instead of letting the balancer infer
		// an ada-only return, keeps the collateral return's
		// assets and yields a lower fee.
		required := txrules.RequiredCollateral(
			feeEstimate, env.Params.CollateralPercent,
		)

		ret, ok := txrules.CollateralSplit(
			candidate.Collateral, required, env.ChangeAddress,
		)
		if !ok {
			return nil, fmt.Errorf("%w: required %v, available %v",
				ErrCollateralShortfall, required,
				candidate.Collateral.TotalValue().Coin())
		}

		corrected := shell.Clone()
		corrected.TotalCollateral = fn.Some(required)
		corrected.CollateralReturn = &ret

		final, _, err = env.Balancer.AutoBalance(
			&env.Network, env.Params, env.Spendable, corrected,
			env.ChangeAddress,
		)
		if err != nil {
			return nil, classifyAutoBalance(err)
		}
	}

	// Enforce the protocol ceilings on the balanced result.
	units := final.TotalExUnits()
	if units.Exceeds(maxExUnits) {
		return nil, fmt.Errorf("%w: max %v, actual %v",
			ErrExUnitsTooBig, maxExUnits, units)
	}

	size, err := final.SerializedSize()
	if err != nil {
		return nil, err
	}
	if uint32(size) > maxTxSize {
		return nil, fmt.Errorf("%w: max %d bytes, actual %d bytes",
			ErrSizeTooBig, maxTxSize, size)
	}

	simplified, err := env.simplifier().Simplify(final)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCborSimplify, err)
	}

	return simplified, nil
}

// assembleShell builds the draft body shell for a candidate: sorted
// inputs, collateral and reference inputs, a zero placeholder fee, the
// validity window, extra signers, and mint entries with zero-valued
// execution-unit placeholders per policy/redeemer pair.
func assembleShell(candidate *Candidate) (*tx.Body, error) {
	inputRefs := sortedInputRefs(candidate.Inputs)

	redeemers := spendRedeemers(candidate.Inputs, inputRefs)
	redeemers = append(redeemers, mintRedeemers(candidate)...)

	shell := tx.NewBodyBuilder().
		Inputs(inputRefs).
		Outputs(candidate.Outputs).
		Fee(0).
		ValidFrom(candidate.ValidFrom).
		ValidUntil(candidate.ValidUntil).
		Collateral(candidate.Collateral.Refs()).
		RequiredSigners(candidate.Signers).
		ReferenceInputs(candidate.ReferenceInputs).
		Redeemers(redeemers)

	if candidate.Mint != nil && !candidate.Mint.IsZero() {
		shell.Mint(candidate.Mint)
	}

	return shell.Build(), nil
}

// sortedInputRefs returns the candidate's input references in the
// ledger's canonical order. Redeemer indices refer to this order.
func sortedInputRefs(inputs []tx.Input) []tx.OutRef {
	refs := make([]tx.OutRef, 0, len(inputs))
	for _, in := range inputs {
		refs = append(refs, in.Ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].TxID != refs[j].TxID {
			return refs[i].TxID.String() < refs[j].TxID.String()
		}

		return refs[i].Index < refs[j].Index
	})

	return refs
}

// spendRedeemers builds zero-budget spend redeemers for every
// script-witnessed input, indexed by the input's canonical position.
func spendRedeemers(inputs []tx.Input, sorted []tx.OutRef) []tx.Redeemer {
	position := make(map[tx.OutRef]uint32, len(sorted))
	for i, ref := range sorted {
		position[ref] = uint32(i)
	}

	var redeemers []tx.Redeemer
	for _, in := range inputs {
		witness, ok := in.Witness.(tx.ScriptWitness)
		if !ok {
			continue
		}

		redeemers = append(redeemers, tx.Redeemer{
			Tag:   tx.RedeemerTagSpend,
			Index: position[in.Ref],
			Data:  witness.Redeemer,
			Units: tx.NewExUnitsCBOR(witness.Units),
		})
	}
	sort.Slice(redeemers, func(i, j int) bool {
		return redeemers[i].Index < redeemers[j].Index
	})

	return redeemers
}

// mintRedeemers builds zero-budget mint redeemers for the candidate's
// minting policies, indexed by the policy's position in canonical
// order.
func mintRedeemers(candidate *Candidate) []tx.Redeemer {
	byPolicy := append([]MintRedeemer(nil), candidate.MintRedeemers...)
	sort.Slice(byPolicy, func(i, j int) bool {
		return byPolicy[i].Policy < byPolicy[j].Policy
	})

	redeemers := make([]tx.Redeemer, 0, len(byPolicy))
	for i, mr := range byPolicy {
		redeemers = append(redeemers, tx.Redeemer{
			Tag:   tx.RedeemerTagMint,
			Index: uint32(i),
			Data:  mr.Data,
		})
	}

	return redeemers
}

// classifyAutoBalance maps an external balancer failure onto the build
// error taxonomy. Parameter conversion failures pass through unchanged;
// everything else is wrapped so the retry loop can inspect the cause.
func classifyAutoBalance(err error) error {
	if errors.Is(err, ErrPPConversion) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrAutoBalance, err)
}
