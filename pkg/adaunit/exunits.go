// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package adaunit

import "fmt"

// ExUnits is a script execution budget, metered in abstract memory units
// and cpu steps. Both dimensions are capped per transaction by protocol
// parameters and both must be within the cap independently.
type ExUnits struct {
	// Mem is the memory dimension of the budget.
	Mem uint64

	// Steps is the cpu step dimension of the budget.
	Steps uint64
}

// ZeroExUnits is an empty execution budget. It is used as the placeholder
// budget on redeemers before script evaluation has run.
var ZeroExUnits = ExUnits{}

// Add returns the component-wise sum of two budgets.
func (e ExUnits) Add(other ExUnits) ExUnits {
	return ExUnits{
		Mem:   e.Mem + other.Mem,
		Steps: e.Steps + other.Steps,
	}
}

// Exceeds reports whether either dimension of the budget is greater than
// the corresponding dimension of the given cap.
func (e ExUnits) Exceeds(cap ExUnits) bool {
	return e.Mem > cap.Mem || e.Steps > cap.Steps
}

// IsZero reports whether both dimensions are zero.
func (e ExUnits) IsZero() bool {
	return e.Mem == 0 && e.Steps == 0
}

// String returns a human-readable string of the budget.
func (e ExUnits) String() string {
	return fmt.Sprintf("ExUnits(mem=%d, steps=%d)", e.Mem, e.Steps)
}
