// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"fmt"

	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

// coinSizeProbe is the base-asset quantity used when measuring the
// serialized size of a change bundle under construction. It encodes as a
// worst-case-width integer so that filling in the real quantity later
// can never grow the bundle past a size that was checked against the
// ceiling.
const coinSizeProbe = adaunit.Lovelace(1) << 62

// selectionState tracks one selection run: the remaining target, the
// candidate pool and the outputs selected so far.
type selectionState struct {
	req *Request

	// target is the value the selected outputs must cover. It is the
	// required outputs plus the extra base-asset reserve, minus the
	// mint and the value of the existing inputs. Entries may be
	// negative when the transaction already holds a surplus in some
	// asset.
	target tx.Value

	// candidates is the pool still available for selection.
	candidates tx.UTxOSet

	// selected are the chosen outputs in selection order.
	selected []tx.UTxO

	// selectedTotal is the running value of the selected outputs.
	selectedTotal tx.Value
}

// newSelectionState computes the selection target and candidate pool for
// a request.
func newSelectionState(req *Request) (*selectionState, error) {
	gross := tx.SumOutputValues(req.Required)
	gross = gross.Add(tx.NewValueFromCoin(req.ExtraLovelace))

	available := tx.NewValue()
	if req.Mint != nil {
		available = available.Add(req.Mint)
	}

	candidates := req.Spendable.Clone()
	for _, in := range req.ExistingInputs {
		if utxo, ok := candidates[in.Ref]; ok {
			available = available.Add(utxo.Value)
			delete(candidates, in.Ref)
		}
	}

	return &selectionState{
		req:           req,
		target:        gross.Sub(available),
		candidates:    candidates,
		selectedTotal: tx.NewValue(),
	}, nil
}

// shortfall returns the still-uncovered portion of the target: every
// asset whose selected quantity is below its target quantity, mapped to
// the missing amount.
func (s *selectionState) shortfall() tx.Value {
	missing := tx.NewValue()
	for asset, qty := range s.target.Sub(s.selectedTotal) {
		if qty > 0 {
			missing[asset] = qty
		}
	}

	return missing
}

// add moves a candidate into the selected set.
func (s *selectionState) add(utxo tx.UTxO) {
	delete(s.candidates, utxo.Ref)
	s.selected = append(s.selected, utxo)
	s.selectedTotal = s.selectedTotal.Add(utxo.Value)
}

// selectedUtxos returns the selected outputs in selection order.
func (s *selectionState) selectedUtxos() []tx.UTxO {
	return s.selected
}

// insufficientFunds builds the terminal error for a selection that ran
// out of candidates, reporting the missing quantity of the dimension
// that could not be covered.
func (s *selectionState) insufficientFunds(asset tx.AssetID) error {
	missing := s.shortfall()[asset]
	available := s.selectedTotal[asset] + s.candidates.TotalValue()[asset]

	return fmt.Errorf("%w: asset %v, missing %d, available %d",
		ErrInsufficientFunds, asset, missing, available)
}

// surplus returns the selection surplus: what the selected outputs
// provide beyond the target. Only meaningful once the target is covered.
func (s *selectionState) surplus() tx.Value {
	return s.selectedTotal.Sub(s.target)
}

// makeChange constructs the change outputs returning the selection
// surplus. A surplus holding only the base asset produces no change
// output; the ledger auto-balancer later turns it into the fee and an
// ada-only change output. A surplus holding other assets is split into
// bundles that respect the protocol's value size ceiling, each given at
// least its minimum deposit, with the whole base-asset surplus riding on
// the first bundle.
func (s *selectionState) makeChange() ([]tx.Output, error) {
	surplus := s.surplus()
	if !surplus.HasAssets() {
		return nil, nil
	}

	bundles, err := s.bundleAssets(surplus.AssetsOnly())
	if err != nil {
		return nil, err
	}

	// Price every bundle at its minimum deposit first.
	outputs := make([]tx.Output, 0, len(bundles))
	var minTotal adaunit.Lovelace
	for _, bundle := range bundles {
		out, err := s.outputWithMinCoin(bundle)
		if err != nil {
			return nil, err
		}

		minTotal += out.Value.Coin()
		outputs = append(outputs, out)
	}

	surplusCoin := surplus.Coin()
	if surplusCoin < minTotal {
		return nil, fmt.Errorf("%w: need %v, have %v",
			ErrChangeShortfall, minTotal, surplusCoin)
	}

	// Any base asset beyond the deposits rides on the first bundle.
	leftover := surplusCoin - minTotal
	if leftover > 0 {
		first := outputs[0]
		outputs[0] = first.WithCoin(first.Value.Coin() + leftover)
	}

	return outputs, nil
}

// bundleAssets greedily packs the surplus assets into value bundles
// whose serialized size stays within the protocol ceiling.
func (s *selectionState) bundleAssets(assets tx.Value) ([]tx.Value,
	error) {

	var bundles []tx.Value

	current := tx.NewValue()
	for _, asset := range assets.Assets() {
		candidate := current.Clone()
		candidate[asset] = assets[asset]

		fits, err := s.bundleFits(candidate)
		if err != nil {
			return nil, err
		}

		if !fits && !current.IsZero() {
			bundles = append(bundles, current)
			current = tx.NewValue()
			current[asset] = assets[asset]
			continue
		}

		current = candidate
	}
	if !current.IsZero() {
		bundles = append(bundles, current)
	}

	return bundles, nil
}

// bundleFits reports whether a bundle, measured with a worst-case-width
// base-asset quantity, stays within the value size ceiling. A zero
// ceiling disables the check.
func (s *selectionState) bundleFits(bundle tx.Value) (bool, error) {
	if s.req.MaxValueSize == 0 {
		return true, nil
	}

	probe := bundle.Clone()
	probe.SetCoin(coinSizeProbe)

	size, err := probe.SerializedSize()
	if err != nil {
		return false, err
	}

	return uint32(size) <= s.req.MaxValueSize, nil
}

// outputWithMinCoin builds a change output for the bundle carrying
// exactly its minimum deposit. Because the deposit depends on the
// output's encoded size, which depends on the deposit, the computation
// iterates to a fixed point.
func (s *selectionState) outputWithMinCoin(bundle tx.Value) (tx.Output,
	error) {

	out := tx.NewOutput(s.req.ChangeAddress, bundle.Clone())
	for {
		min, err := s.req.MinValue(out)
		if err != nil {
			return tx.Output{}, err
		}
		if out.Value.Coin() >= min {
			return out, nil
		}

		out = out.WithCoin(min)
	}
}
