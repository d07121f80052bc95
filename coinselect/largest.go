// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import "github.com/adasuite/adawallet/tx"

// selectLargestFirst covers the target deterministically: as long as
// some dimension of the target is uncovered, the candidate holding the
// largest quantity of that dimension is selected. Non-ada assets are
// covered before the base asset since selecting for an asset usually
// brings base asset along with it.
func (s *selectionState) selectLargestFirst() error {
	for {
		short := s.shortfall()
		if short.IsZero() {
			return nil
		}

		dimension := pickDimension(short)
		best, ok := s.largestHolder(dimension)
		if !ok {
			return s.insufficientFunds(dimension)
		}

		s.add(best)
	}
}

// pickDimension returns the dimension of the shortfall to cover next:
// the first uncovered non-ada asset in deterministic order, or the base
// asset when only it remains.
func pickDimension(short tx.Value) tx.AssetID {
	if assets := short.Assets(); len(assets) > 0 {
		return assets[0]
	}

	return tx.AdaAssetID
}

// largestHolder returns the candidate holding the largest positive
// quantity of the given dimension. Ties break toward the smallest output
// reference so that selection is fully deterministic.
func (s *selectionState) largestHolder(dimension tx.AssetID) (tx.UTxO,
	bool) {

	var (
		best    tx.UTxO
		bestQty int64
		found   bool
	)
	for _, candidate := range s.candidates.Sorted() {
		qty := candidate.Value[dimension]
		if qty > bestQty {
			best = candidate
			bestQty = qty
			found = true
		}
	}

	return best, found
}
