// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import "errors"

var (
	// ErrNilIntent is returned when a nil TxIntent is provided.
	ErrNilIntent = errors.New("nil TxIntent")

	// ErrDuplicatedInput is returned when an input reference is
	// specified multiple times.
	ErrDuplicatedInput = errors.New("duplicated input")

	// ErrNonPositiveOutput is returned when an output's value, after
	// minimum-deposit adjustment, is negative in some asset. The
	// condition can never be fixed by a larger fee overshoot, but it
	// is surfaced per attempt so single-step callers can observe it.
	ErrNonPositiveOutput = errors.New("output value is negative in " +
		"some asset")

	// ErrMissingMaxExUnits is returned when the protocol parameters
	// lack the execution unit ceiling. Fatal: the build halts
	// immediately.
	ErrMissingMaxExUnits = errors.New("protocol parameters lack an " +
		"execution unit ceiling")

	// ErrMissingMaxTxSize is returned when the protocol parameters
	// lack the transaction size ceiling. Fatal: the build halts
	// immediately.
	ErrMissingMaxTxSize = errors.New("protocol parameters lack a " +
		"transaction size ceiling")

	// ErrMissingMaxValueSize is returned when the protocol parameters
	// lack the value size ceiling. Fatal: the build halts
	// immediately.
	ErrMissingMaxValueSize = errors.New("protocol parameters lack a " +
		"value size ceiling")

	// ErrAutoBalance wraps any failure of the external ledger
	// auto-balancer that is not a parameter conversion problem. The
	// retry loop inspects the wrapped cause to decide whether a
	// larger fee overshoot can help.
	ErrAutoBalance = errors.New("ledger auto-balance failed")

	// ErrExUnitsTooBig is returned when the scripts of a balanced
	// body consume more execution units than the protocol ceiling.
	ErrExUnitsTooBig = errors.New("script execution units exceed the " +
		"protocol ceiling")

	// ErrSizeTooBig is returned when a balanced body serializes to
	// more bytes than the protocol ceiling.
	ErrSizeTooBig = errors.New("transaction size exceeds the protocol " +
		"ceiling")

	// ErrCollateralShortfall is returned when the pledged collateral
	// holds less base asset than the required fee coverage. Fatal: no
	// fee adjustment can fix it.
	ErrCollateralShortfall = errors.New("collateral is insufficient " +
		"for the required coverage")

	// ErrNoSuitableCollateral is returned when the transaction runs
	// scripts but the environment designates no collateral outputs.
	// Fatal: no fee adjustment can fix it.
	ErrNoSuitableCollateral = errors.New("no collateral utxo is " +
		"configured")

	// ErrCborSimplify is returned when the structural simplification
	// pass over the encoded body fails.
	ErrCborSimplify = errors.New("transaction body simplification " +
		"failed")

	// ErrBudgetExhausted is returned when the configured attempt cap
	// is reached before a valid body is produced.
	ErrBudgetExhausted = errors.New("fee overshoot attempts exhausted")
)
