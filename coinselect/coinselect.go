// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinselect implements multi-asset coin selection: choosing
// which additional unspent outputs to spend, and what change to return,
// so that a target value is covered. Two strategies are provided, a
// deterministic largest-first selector and a seeded random-improve
// selector.
package coinselect

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

var (
	// ErrInsufficientFunds is returned when the spendable outputs
	// cannot cover the selection target.
	ErrInsufficientFunds = errors.New("insufficient funds available " +
		"to construct transaction")

	// ErrChangeShortfall is returned when the selection surplus
	// cannot satisfy the minimum deposit of the change outputs it
	// must generate.
	ErrChangeShortfall = errors.New("insufficient surplus to satisfy " +
		"change output minimum")

	// ErrMissingRand is returned when the random-improve strategy is
	// requested without an injected randomness source.
	ErrMissingRand = errors.New("random-improve selection requires a " +
		"randomness source")

	// ErrUnknownStrategy is returned when the request names a
	// strategy this package does not implement.
	ErrUnknownStrategy = errors.New("unknown coin selection strategy")

	// ErrMissingMinValue is returned when the request lacks the
	// per-output minimum value function.
	ErrMissingMinValue = errors.New("missing minimum value function")
)

// Strategy selects which selection heuristic Select runs.
type Strategy int

const (
	// LargestFirst deterministically picks the largest holder of each
	// still-needed asset. It degrades gracefully on large targets and
	// serves as the fallback strategy.
	LargestFirst Strategy = iota

	// RandomImprove picks contributing outputs uniformly at random
	// and then improves the selection toward twice the target. It
	// prevents the creation of ever smaller outputs over time.
	RandomImprove
)

// String returns a human-readable name of the strategy.
func (s Strategy) String() string {
	switch s {
	case LargestFirst:
		return "largest-first"
	case RandomImprove:
		return "random-improve"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// MinValueFunc returns the minimum base-asset quantity the given output
// must carry.
type MinValueFunc func(tx.Output) (adaunit.Lovelace, error)

// Request bundles the inputs of one coin selection run.
type Request struct {
	// ExistingInputs are inputs already committed to the transaction.
	// Their values count toward the target when their outputs are
	// found in Spendable.
	ExistingInputs []tx.Input

	// Required are the outputs the transaction must pay, with their
	// values already adjusted to the minimum deposit rule.
	Required []tx.Output

	// Mint is the value minted by the transaction. Minted quantities
	// count as available funds; burned quantities add to the target.
	Mint tx.Value

	// ChangeAddress is the address change outputs pay to.
	ChangeAddress tx.Address

	// Spendable is the caller's spendable output set.
	Spendable tx.UTxOSet

	// ExtraLovelace is additional base asset the selection must cover
	// beyond outputs and mint, reserved for the transaction fee. It
	// is deliberately not returned as change.
	ExtraLovelace adaunit.Lovelace

	// MinValue is the per-output minimum value rule used to price
	// generated change outputs.
	MinValue MinValueFunc

	// MaxValueSize is the protocol ceiling on the serialized size of
	// a single output value bundle, in bytes.
	MaxValueSize uint32

	// Strategy is the selection heuristic to run.
	Strategy Strategy

	// Rand is the randomness source consumed by the random-improve
	// strategy. It must be set for that strategy and is unused
	// otherwise.
	Rand *rand.Rand
}

// Result is the outcome of a coin selection run.
type Result struct {
	// SelectedInputs are the additional outputs to spend.
	SelectedInputs []tx.UTxO

	// ChangeOutputs are the generated change outputs returning the
	// non-ada selection surplus. A pure base-asset surplus generates
	// no change output here; the ledger auto-balancer turns it into
	// fee and an ada-only change output later.
	ChangeOutputs []tx.Output
}

// Selector is the interface satisfied by this package's Select function.
// It exists so the balancing loop can swap in alternative selectors, in
// particular instrumented or mocked ones under test.
type Selector interface {
	// Select runs coin selection for the given request.
	Select(req *Request) (*Result, error)
}

// DefaultSelector runs the selection heuristics implemented by this
// package.
type DefaultSelector struct{}

// A compile time check to ensure that DefaultSelector implements the
// Selector interface.
var _ Selector = (*DefaultSelector)(nil)

// Select dispatches the request to the strategy it names.
func (DefaultSelector) Select(req *Request) (*Result, error) {
	return Select(req)
}

// Select chooses additional inputs from the request's spendable set so
// that existing inputs plus selected inputs plus mint cover the required
// outputs plus the extra base-asset reserve, then constructs change
// outputs for any non-ada surplus.
func Select(req *Request) (*Result, error) {
	if req.MinValue == nil {
		return nil, ErrMissingMinValue
	}

	state, err := newSelectionState(req)
	if err != nil {
		return nil, err
	}

	switch req.Strategy {
	case LargestFirst:
		err = state.selectLargestFirst()

	case RandomImprove:
		if req.Rand == nil {
			return nil, ErrMissingRand
		}
		err = state.selectRandomImprove(req.Rand)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy,
			req.Strategy)
	}
	if err != nil {
		return nil, err
	}

	change, err := state.makeChange()
	if err != nil {
		return nil, err
	}

	log.Debugf("Selected %d inputs and %d change outputs via %v "+
		"(target %v)", len(state.selected), len(change),
		req.Strategy, state.target)

	return &Result{
		SelectedInputs: state.selectedUtxos(),
		ChangeOutputs:  change,
	}, nil
}
