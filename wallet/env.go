// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"math/rand"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/adasuite/adawallet/coinselect"
	"github.com/adasuite/adawallet/tx"
)

var (
	// ErrMissingParams is returned when a build environment lacks
	// protocol parameters.
	ErrMissingParams = errors.New("missing protocol parameters")

	// ErrMissingBalancer is returned when a build environment lacks
	// the external ledger auto-balancer.
	ErrMissingBalancer = errors.New("missing ledger auto-balancer")

	// ErrMissingChangeAddress is returned when a build environment
	// lacks a change address.
	ErrMissingChangeAddress = errors.New("missing change address")
)

// BuildEnvironment is the immutable configuration bundle for one
// transaction build: the network context, the protocol parameters, the
// caller's spendable outputs, the change address and the designated
// collateral outputs, together with the injected collaborators. It is
// owned by the caller and read-only for the duration of one build.
type BuildEnvironment struct {
	// Network is the network-level context threaded through to the
	// external auto-balancer.
	Network tx.NetworkContext

	// Params are the protocol parameters in force.
	Params *tx.ProtocolParams

	// Spendable is the caller's spendable output set.
	Spendable tx.UTxOSet

	// ChangeAddress is the address change and collateral-return
	// outputs pay to.
	ChangeAddress tx.Address

	// Collateral is the designated collateral output set, pledged
	// whenever the transaction executes scripts.
	Collateral tx.UTxOSet

	// Balancer is the external ledger auto-balancer. This field is
	// required.
	Balancer AutoBalancer

	// Selector overrides the coin selector. If nil, the selection
	// heuristics of the coinselect package are used.
	Selector coinselect.Selector

	// Simplifier overrides the body simplification pass. If nil, the
	// canonical CBOR simplifier is used.
	Simplifier Simplifier

	// Rand is the randomness source consumed by the random-improve
	// selection strategy. It is owned by the caller so that builds
	// are reproducible under a fixed seed.
	Rand *rand.Rand

	// MaxAttempts caps the number of balancing attempts before the
	// build fails with ErrBudgetExhausted. Zero means no cap.
	MaxAttempts uint32
}

// validate checks that the environment carries its required fields.
func (e *BuildEnvironment) validate() error {
	switch {
	case e.Params == nil:
		return ErrMissingParams
	case e.Balancer == nil:
		return ErrMissingBalancer
	case e.ChangeAddress == "":
		return ErrMissingChangeAddress
	}

	return nil
}

// selector returns the configured coin selector, falling back to the
// coinselect package's heuristics.
func (e *BuildEnvironment) selector() coinselect.Selector {
	if e.Selector != nil {
		return e.Selector
	}

	return coinselect.DefaultSelector{}
}

// simplifier returns the configured simplification pass, falling back to
// the canonical CBOR simplifier.
func (e *BuildEnvironment) simplifier() Simplifier {
	if e.Simplifier != nil {
		return e.Simplifier
	}

	return tx.NewCanonicalSimplifier()
}

// MintRedeemer pairs a minting policy with the serialized redeemer
// argument its script runs with.
type MintRedeemer struct {
	// Policy is the hex-encoded policy hash.
	Policy string

	// Data is the serialized redeemer argument.
	Data []byte
}

// Candidate is the work in progress of one balancing attempt: the input,
// collateral and output sets produced by BalanceStep together with the
// caller-supplied mint, validity window, signers and reference inputs.
// It is constructed fresh per attempt and consumed by Finalize.
type Candidate struct {
	// Inputs are the transaction inputs with their witnesses.
	Inputs []tx.Input

	// Collateral is the pledged collateral output set, empty when the
	// transaction runs no scripts.
	Collateral tx.UTxOSet

	// Outputs are the transaction outputs, including generated
	// change.
	Outputs []tx.Output

	// Mint is the optional minted value.
	Mint tx.Value

	// MintRedeemers are the redeemer arguments of the minting
	// policies, one per policy.
	MintRedeemers []MintRedeemer

	// ValidFrom is the optional lower validity bound.
	ValidFrom fn.Option[tx.Slot]

	// ValidUntil is the optional upper validity bound.
	ValidUntil fn.Option[tx.Slot]

	// Signers are key hashes that must sign the transaction beyond
	// those implied by its inputs.
	Signers []tx.KeyHash

	// ReferenceInputs are outputs the transaction reads without
	// spending.
	ReferenceInputs []tx.OutRef
}
