// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet balances partially specified transactions into
// fee-correct, limit-compliant unsigned transaction bodies. The caller
// proposes inputs, outputs and an optional mint; the package searches
// for a fee overshoot large enough that coin selection, the external
// ledger auto-balancer and the protocol ceilings all agree on a valid
// body, escalating the overshoot or pivoting the selection strategy
// based on the specific failure observed.
package wallet

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/adasuite/adawallet/coinselect"
	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

const (
	// InitialExtraLovelace is the fee overshoot of the first
	// balancing attempt.
	InitialExtraLovelace = adaunit.Lovelace(1_000_000)

	// ExtraLovelaceCeiling is the overshoot at which the
	// random-improve strategy is abandoned for largest-first. The
	// combinatorial search of random-improve degrades as the budget
	// grows, while largest-first stays tractable.
	ExtraLovelaceCeiling = adaunit.Lovelace(20_000_000)
)

// TxIntent represents the caller's intent to build a transaction. It
// bundles the proposed inputs, outputs, mint and validity window into a
// single structure consumed by BuildUnsignedTxBody.
type TxIntent struct {
	// Inputs are the inputs the transaction must spend, with their
	// witnesses. Coin selection adds more as needed.
	Inputs []tx.Input

	// Outputs are the outputs the transaction must pay. Their values
	// are raised to the minimum deposit automatically.
	Outputs []tx.Output

	// ReferenceInputs are outputs the transaction reads without
	// spending.
	ReferenceInputs []tx.OutRef

	// Mint is the optional value to mint (positive quantities) or
	// burn (negative quantities).
	Mint tx.Value

	// MintRedeemers are the redeemer arguments of the minting
	// policies, one per policy in Mint.
	MintRedeemers []MintRedeemer

	// ValidFrom is the optional lower validity bound.
	ValidFrom fn.Option[tx.Slot]

	// ValidUntil is the optional upper validity bound.
	ValidUntil fn.Option[tx.Slot]

	// Signers are key hashes that must sign the transaction beyond
	// those implied by its inputs.
	Signers []tx.KeyHash

	// Strategy is the coin selection strategy of the first attempt.
	// The search may pivot to largest-first on the way.
	Strategy coinselect.Strategy
}

// validate performs a series of checks on a TxIntent to ensure it is
// well-formed before any balancing work starts.
func (intent *TxIntent) validate() error {
	refs := make([]tx.OutRef, 0, len(intent.Inputs))
	for _, in := range intent.Inputs {
		refs = append(refs, in.Ref)
	}

	dedup := fn.NewSet(refs...)
	if len(dedup) != len(refs) {
		return ErrDuplicatedInput
	}

	return nil
}

// BuildUnsignedTxBody drives the fee-overshoot search until a valid body
// is produced or a terminal error occurs. Starting from a small
// overshoot, each attempt runs BalanceStep and Finalize; failures with a
// "need more ada" signature double the overshoot, coin-selection and
// ceiling failures pivot the strategy to largest-first once, and every
// other failure terminates the search immediately.
func BuildUnsignedTxBody(env *BuildEnvironment, intent *TxIntent) (
	*tx.Body, error) {

	if intent == nil {
		return nil, ErrNilIntent
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	if err := intent.validate(); err != nil {
		return nil, err
	}

	strategy := intent.Strategy
	extra := InitialExtraLovelace

	for attempt := uint32(1); ; attempt++ {
		if env.MaxAttempts > 0 && attempt > env.MaxAttempts {
			return nil, fmt.Errorf("%w: %d attempts",
				ErrBudgetExhausted, env.MaxAttempts)
		}

		log.Debugf("Balancing attempt %d: strategy=%v, overshoot=%v",
			attempt, strategy, extra)

		body, err := attemptBuild(env, intent, strategy, extra)

		switch {
		case err == nil:
			log.Infof("Balanced transaction after %d attempt(s): "+
				"fee=%v, %d inputs, %d outputs", attempt,
				body.Fee, len(body.Inputs), len(body.Outputs))
			if log.Level() <= btclog.LevelTrace {
				log.Tracef("Final body: %s", spew.Sdump(body))
			}

			return body, nil

		// The attempt ran out of ada somewhere between selection
		// and balancing: a larger overshoot may fix it.
		case errors.Is(err, ErrAdaBalanceNegative),
			errors.Is(err, ErrAdaBalanceTooSmall):

			extra *= 2
			if strategy == coinselect.RandomImprove &&
				extra >= ExtraLovelaceCeiling {

				log.Debugf("Overshoot %v reached the ceiling, "+
					"pivoting to %v", extra,
					coinselect.LargestFirst)
				strategy = coinselect.LargestFirst
			}

		// Selection could not satisfy the change minimum, or the
		// selected shape blew a protocol ceiling: pivot once to
		// the deterministic strategy, then give up.
		case errors.Is(err, coinselect.ErrChangeShortfall),
			errors.Is(err, ErrExUnitsTooBig),
			errors.Is(err, ErrSizeTooBig):

			if strategy != coinselect.RandomImprove {
				return nil, err
			}

			log.Debugf("Pivoting to %v after: %v",
				coinselect.LargestFirst, err)
			strategy = coinselect.LargestFirst
			if extra != InitialExtraLovelace {
				extra /= 2
			}

		// Everything else is unfixable by adjusting the fee
		// budget.
		default:
			return nil, err
		}
	}
}

// attemptBuild runs one balancing attempt: a balance step followed by
// finalization of the resulting candidate.
func attemptBuild(env *BuildEnvironment, intent *TxIntent,
	strategy coinselect.Strategy, extra adaunit.Lovelace) (*tx.Body,
	error) {

	step, err := BalanceStep(
		env, intent.Mint, intent.Inputs, intent.Outputs, strategy,
		extra,
	)
	if err != nil {
		return nil, err
	}

	return Finalize(env, &Candidate{
		Inputs:          step.Inputs,
		Collateral:      step.Collateral,
		Outputs:         step.Outputs,
		Mint:            intent.Mint,
		MintRedeemers:   intent.MintRedeemers,
		ValidFrom:       intent.ValidFrom,
		ValidUntil:      intent.ValidUntil,
		Signers:         intent.Signers,
		ReferenceInputs: intent.ReferenceInputs,
	})
}
