// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import "github.com/adasuite/adawallet/pkg/adaunit"

// Witness is a sealed interface describing how a transaction input will
// be authorized. The sealed interface pattern is used here to provide
// compile-time safety, ensuring that only the intended implementations
// can be used.
type Witness interface {
	// isWitness is a marker method that is part of the sealed
	// interface pattern. It is unexported, so it can only be
	// implemented by types within this package.
	isWitness()

	// RequiresCollateral reports whether spending an input with this
	// witness obliges the transaction to provide collateral.
	RequiresCollateral() bool
}

// KeyWitness authorizes an input with a signature from a payment key.
type KeyWitness struct {
	// KeyHash is the hash of the verification key that must sign the
	// transaction.
	KeyHash KeyHash
}

// isWitness marks KeyWitness as an implementation of the Witness
// interface.
func (KeyWitness) isWitness() {}

// RequiresCollateral reports that key-witnessed inputs never require
// collateral.
func (KeyWitness) RequiresCollateral() bool {
	return false
}

// ScriptWitness authorizes an input by executing a spending script.
type ScriptWitness struct {
	// Script is the validator script guarding the output, left empty
	// when the script is supplied through a reference input.
	Script Script

	// Redeemer is the serialized argument passed to the script.
	Redeemer []byte

	// Datum is the serialized datum of the spent output, left empty
	// when the datum is inlined in the output itself.
	Datum []byte

	// Units is the execution budget of the script. It starts out
	// zero-valued and is filled in by the ledger evaluator during
	// balancing.
	Units adaunit.ExUnits
}

// isWitness marks ScriptWitness as an implementation of the Witness
// interface.
func (ScriptWitness) isWitness() {}

// RequiresCollateral reports that script-witnessed inputs always require
// collateral.
func (ScriptWitness) RequiresCollateral() bool {
	return true
}

// A compile-time assertion to ensure that all types implementing the
// Witness interface adhere to it.
var _ Witness = (*KeyWitness)(nil)
var _ Witness = (*ScriptWitness)(nil)

// Input is a transaction input: an output reference plus the witness
// that will authorize spending it.
type Input struct {
	// Ref references the unspent output being consumed.
	Ref OutRef

	// Witness describes how the input will be authorized. This must
	// be one of the Witness implementations (KeyWitness or
	// ScriptWitness).
	Witness Witness
}

// AnyRequiresCollateral reports whether any input in the list carries a
// witness that obliges the transaction to provide collateral.
func AnyRequiresCollateral(inputs []Input) bool {
	for _, in := range inputs {
		if in.Witness != nil && in.Witness.RequiresCollateral() {
			return true
		}
	}

	return false
}
