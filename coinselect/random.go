// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"math/rand"

	"github.com/adasuite/adawallet/tx"
)

const (
	// improveIdealFactor is the multiple of the base-asset target the
	// improvement phase steers the selection toward.
	improveIdealFactor = 2

	// improveMaxFactor is the multiple of the base-asset target the
	// improvement phase will not select past.
	improveMaxFactor = 3
)

// selectRandomImprove covers the target in two phases. The first phase
// picks candidates uniformly at random among those contributing to a
// still-uncovered dimension until the target is covered. The second
// phase keeps picking base-asset-bearing candidates at random, steering
// the selected base asset toward twice the target without exceeding
// three times it, which leaves room for fees and keeps change outputs
// usefully sized.
func (s *selectionState) selectRandomImprove(rng *rand.Rand) error {
	for {
		short := s.shortfall()
		if short.IsZero() {
			break
		}

		contributors := s.contributors(short)
		if len(contributors) == 0 {
			return s.insufficientFunds(pickDimension(short))
		}

		s.add(contributors[rng.Intn(len(contributors))])
	}

	s.improve(rng)

	return nil
}

// contributors returns the candidates holding a positive quantity of
// any uncovered dimension, in deterministic order.
func (s *selectionState) contributors(short tx.Value) []tx.UTxO {
	var matches []tx.UTxO
	for _, candidate := range s.candidates.Sorted() {
		for asset := range short {
			if candidate.Value[asset] > 0 {
				matches = append(matches, candidate)
				break
			}
		}
	}

	return matches
}

// improve is the improvement phase: it walks the remaining
// base-asset-bearing candidates in random order, selecting each one that
// moves the selected base asset closer to the ideal without passing the
// maximum.
func (s *selectionState) improve(rng *rand.Rand) {
	targetCoin := int64(s.target.Coin())
	if targetCoin <= 0 {
		return
	}

	ideal := targetCoin * improveIdealFactor
	max := targetCoin * improveMaxFactor

	var pool []tx.UTxO
	for _, candidate := range s.candidates.Sorted() {
		if candidate.Value.Coin() > 0 {
			pool = append(pool, candidate)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for _, candidate := range pool {
		selectedCoin := int64(s.selectedTotal.Coin())
		if selectedCoin >= ideal {
			return
		}

		if selectedCoin+int64(candidate.Value.Coin()) <= max {
			s.add(candidate)
		}
	}
}
