// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"

	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

var (
	// ErrAdaBalanceNegative is the auto-balance failure cause
	// reported when the transaction spends more base asset than its
	// inputs provide. Balancers must wrap this sentinel so the retry
	// loop can recognize the condition as fixable by a larger fee
	// overshoot.
	ErrAdaBalanceNegative = errors.New("ada balance is negative")

	// ErrAdaBalanceTooSmall is the auto-balance failure cause
	// reported when the base-asset residual is positive but too small
	// to form a valid change output. Balancers must wrap this
	// sentinel so the retry loop can recognize the condition as
	// fixable by a larger fee overshoot.
	ErrAdaBalanceTooSmall = errors.New("ada balance is below the " +
		"minimum change value")

	// ErrPPConversion is the failure cause reported when the protocol
	// parameters cannot be converted into the ledger's internal form.
	// Balancers must wrap this sentinel; the condition is fatal and
	// never retried.
	ErrPPConversion = errors.New("protocol parameter conversion failed")
)

// AutoBalancer is the external ledger operation that computes the exact
// transaction fee for a body shell and injects an ada-only change output
// for any base-asset residual. It never adds or removes non-ada inputs.
//
// Implementations signal retryable residual problems by wrapping
// ErrAdaBalanceNegative or ErrAdaBalanceTooSmall, and fatal parameter
// problems by wrapping ErrPPConversion.
type AutoBalancer interface {
	// AutoBalance balances the shell against the given network
	// context, parameters and resolvable output set, returning the
	// balanced body and its exact fee.
	AutoBalance(net *tx.NetworkContext, params *tx.ProtocolParams,
		utxos tx.UTxOSet, shell *tx.Body,
		changeAddr tx.Address) (*tx.Body, adaunit.Lovelace, error)
}

// Simplifier applies a structural simplification pass to an encoded
// transaction body before it is handed back to the caller.
type Simplifier interface {
	// Simplify normalizes the body's encoded form.
	Simplify(body *tx.Body) (*tx.Body, error)
}

// A compile time check to ensure that the tx package's canonical
// simplifier implements the interface.
var _ Simplifier = (*tx.CanonicalSimplifier)(nil)
