// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package adaunit provides a set of types for dealing with cardano units.
package adaunit

import (
	"fmt"
	"math"
)

const (
	// LovelacePerAda is the number of lovelace in one ada.
	LovelacePerAda = 1_000_000

	// adaStringPrecision is the number of decimal places used when
	// rendering an amount as ada. One lovelace is 1e-6 ada, so six
	// places render any amount exactly.
	adaStringPrecision = 6
)

// Lovelace represents a quantity of the base asset, expressed in the
// smallest indivisible unit (1 ada = 1,000,000 lovelace). Amounts are
// signed so that intermediate balancing arithmetic can go negative; a
// negative amount is never valid in a final transaction.
type Lovelace int64

var (
	// ZeroLovelace is an amount of 0 lovelace.
	ZeroLovelace = Lovelace(0)

	// MaxLovelace is the largest representable amount. It exceeds the
	// total ada supply, so overflow is not a practical concern for any
	// single transaction.
	MaxLovelace = Lovelace(math.MaxInt64)
)

// NewLovelaceFromAda converts a floating point ada quantity into lovelace,
// rounding to the nearest lovelace.
func NewLovelaceFromAda(ada float64) Lovelace {
	return Lovelace(math.Round(ada * LovelacePerAda))
}

// ToAda returns the amount expressed as a floating point number of ada.
func (a Lovelace) ToAda() float64 {
	return float64(a) / LovelacePerAda
}

// MulCeilPercent multiplies the amount by pct/100, rounding up to the next
// whole lovelace. This is the rounding mode the ledger uses for collateral
// coverage.
func (a Lovelace) MulCeilPercent(pct uint64) Lovelace {
	if a <= 0 {
		return 0
	}

	num := uint64(a) * pct
	return Lovelace((num + 99) / 100)
}

// String returns a human-readable string of the amount in ada.
func (a Lovelace) String() string {
	return fmt.Sprintf("%.*f ada", adaStringPrecision, a.ToAda())
}
