// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/adasuite/adawallet/coinselect"
	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
	"github.com/adasuite/adawallet/txrules"
)

// StepResult is the outcome of one balancing step: the combined input
// set, the pledged collateral and the outputs including generated
// change.
type StepResult struct {
	// Inputs are the original inputs plus the selected ones.
	Inputs []tx.Input

	// Collateral is the pledged collateral set, empty when no script
	// runs.
	Collateral tx.UTxOSet

	// Outputs are the adjusted outputs plus generated change outputs.
	Outputs []tx.Output
}

// BalanceStep performs one balancing attempt for a single fee-overshoot
// guess: it raises every output to the minimum deposit, determines
// whether collateral is needed, and invokes coin selection to add inputs
// and change covering outputs, mint and the overshoot. The step has no
// side effects besides consuming randomness when the random-improve
// strategy runs, so callers may retry it freely with different
// overshoots.
func BalanceStep(env *BuildEnvironment, mint tx.Value, inputs []tx.Input,
	outputs []tx.Output, strategy coinselect.Strategy,
	extraLovelace adaunit.Lovelace) (*StepResult, error) {

	if err := env.validate(); err != nil {
		return nil, err
	}

	// Raise every proposed output to the minimum deposit. A value that
	// is negative in any asset after adjustment can never be made
	// valid, since adjustment only raises the base asset.
	adjusted := make([]tx.Output, 0, len(outputs))
	for _, out := range outputs {
		adj, err := txrules.AdjustOutput(env.Params, out)
		if err != nil {
			return nil, err
		}
		if !adj.Value.NonNegative() {
			return nil, fmt.Errorf("%w: %v",
				ErrNonPositiveOutput, adj.Value)
		}

		adjusted = append(adjusted, adj)
	}

	// Collateral need is a function of the transaction's shape alone,
	// independent of the overshoot.
	collateral := tx.UTxOSet{}
	if txrules.NeedsCollateral(mint, inputs) {
		if len(env.Collateral) == 0 {
			return nil, ErrNoSuitableCollateral
		}

		collateral = env.Collateral.Clone()
	}

	maxValueSize, err := env.Params.MaxValueSize.UnwrapOrErr(
		ErrMissingMaxValueSize,
	)
	if err != nil {
		return nil, err
	}

	result, err := env.selector().Select(&coinselect.Request{
		ExistingInputs: inputs,
		Required:       adjusted,
		Mint:           mint,
		ChangeAddress:  env.ChangeAddress,
		Spendable:      env.Spendable,
		ExtraLovelace:  extraLovelace,
		MinValue:       env.Params.MinOutputValue,
		MaxValueSize:   maxValueSize,
		Strategy:       strategy,
		Rand:           env.Rand,
	})
	if err != nil {
		return nil, err
	}

	// Selected outputs come from the caller's own wallet, so they are
	// spent with key witnesses.
	combined := append([]tx.Input(nil), inputs...)
	for _, utxo := range result.SelectedInputs {
		combined = append(combined, tx.Input{
			Ref:     utxo.Ref,
			Witness: tx.KeyWitness{},
		})
	}

	return &StepResult{
		Inputs:     combined,
		Collateral: collateral,
		Outputs:    append(adjusted, result.ChangeOutputs...),
	}, nil
}
