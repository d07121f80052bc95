// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

// AdjustOutput raises the output's base-asset quantity to the minimum
// deposit required by the protocol parameters, leaving outputs already
// at or above the minimum unchanged. The adjustment only ever raises the
// quantity; negative asset quantities are left for the caller to reject.
func AdjustOutput(params *tx.ProtocolParams, out tx.Output) (tx.Output,
	error) {

	min, err := params.MinOutputValue(out)
	if err != nil {
		return tx.Output{}, err
	}

	if out.Value.Coin() >= min {
		return out, nil
	}

	adjusted := out.WithCoin(min)

	// Raising the coin quantity can grow the serialized size of the
	// output, which in turn raises the minimum. Re-check until the
	// value is stable; the size of an encoded integer grows by a few
	// bytes at most, so this converges in one or two passes.
	for {
		min, err = params.MinOutputValue(adjusted)
		if err != nil {
			return tx.Output{}, err
		}
		if adjusted.Value.Coin() >= min {
			return adjusted, nil
		}

		adjusted = adjusted.WithCoin(min)
	}
}

// NeedsCollateral reports whether a transaction minting the given value
// or spending the given inputs must provide collateral. Collateral is
// required exactly when scripts run: any mint and any script-witnessed
// input implies script execution.
func NeedsCollateral(mint tx.Value, inputs []tx.Input) bool {
	if mint != nil && !mint.IsZero() {
		return true
	}

	return tx.AnyRequiresCollateral(inputs)
}

// RequiredCollateral returns the base-asset amount pledged collateral
// must cover for the given fee: the fee scaled by the protocol's
// collateral percentage, rounded up.
func RequiredCollateral(fee adaunit.Lovelace,
	collateralPercent uint64) adaunit.Lovelace {

	return fee.MulCeilPercent(collateralPercent)
}

// CollateralSplit computes the total/return collateral split for the
// given pledged collateral set and required coverage. The return output
// keeps every asset of the pledged collateral and gives back all of its
// base asset beyond the required amount, sent to the change address. The
// second return value reports whether the pledged collateral suffices.
func CollateralSplit(collateral tx.UTxOSet, required adaunit.Lovelace,
	changeAddr tx.Address) (tx.Output, bool) {

	total := collateral.TotalValue()
	if total.Coin() < required {
		return tx.Output{}, false
	}

	returned := total.Clone()
	returned.SetCoin(total.Coin() - required)

	return tx.NewOutput(changeAddr, returned), true
}
