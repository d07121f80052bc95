// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"math/rand"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"

	"github.com/adasuite/adawallet/coinselect"
	"github.com/adasuite/adawallet/pkg/adaunit"
	"github.com/adasuite/adawallet/tx"
)

var (
	testChangeAddr = tx.Address("addr_test1qchange")
	testPayAddr    = tx.Address("addr_test1qpay")

	testPolicy = "b0d07d45fe9514f80213f4020e5a61241458be626841cde717cb38a7"
	testAsset  = tx.NewAssetID(testPolicy, "74657374")
)

// mockBalancer mocks the external ledger auto-balancer.
type mockBalancer struct {
	mock.Mock
}

// A compile time check to ensure that mockBalancer implements the
// AutoBalancer interface.
var _ AutoBalancer = (*mockBalancer)(nil)

func (m *mockBalancer) AutoBalance(net *tx.NetworkContext,
	params *tx.ProtocolParams, utxos tx.UTxOSet, shell *tx.Body,
	changeAddr tx.Address) (*tx.Body, adaunit.Lovelace, error) {

	args := m.Called(net, params, utxos, shell, changeAddr)

	body, _ := args.Get(0).(*tx.Body)

	return body, args.Get(1).(adaunit.Lovelace), args.Error(2)
}

// selectorCall records the knobs of one coin selection invocation.
type selectorCall struct {
	strategy coinselect.Strategy
	extra    adaunit.Lovelace
}

// scriptedSelector records every selection call and optionally fails
// scripted calls, delegating the rest to the real heuristics. It exists
// to observe the retry loop's strategy and overshoot schedule, which a
// pure mock cannot express without duplicating the selection logic.
type scriptedSelector struct {
	// errs holds a per-call error override. A nil entry, or a call
	// index beyond the slice, delegates to the real selector.
	errs []error

	calls []selectorCall
}

// A compile time check to ensure that scriptedSelector implements the
// coinselect.Selector interface.
var _ coinselect.Selector = (*scriptedSelector)(nil)

func (s *scriptedSelector) Select(req *coinselect.Request) (
	*coinselect.Result, error) {

	idx := len(s.calls)
	s.calls = append(s.calls, selectorCall{
		strategy: req.Strategy,
		extra:    req.ExtraLovelace,
	})

	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}

	return coinselect.Select(req)
}

// testRef returns a deterministic output reference for tests.
func testRef(fill byte, index uint32) tx.OutRef {
	var id tx.TxID
	for i := range id {
		id[i] = fill
	}

	return tx.OutRef{TxID: id, Index: index}
}

// coinUtxo returns an ada-only UTxO.
func coinUtxo(fill byte, coin adaunit.Lovelace) tx.UTxO {
	return tx.UTxO{
		Ref:     testRef(fill, 0),
		Address: "addr_test1qowner",
		Value:   tx.NewValueFromCoin(coin),
	}
}

// newTestParams returns protocol parameters with every ceiling present.
func newTestParams() *tx.ProtocolParams {
	return &tx.ProtocolParams{
		MinFeeCoefficient: 44,
		MinFeeConstant:    155_381,
		CoinsPerUTxOByte:  4_310,
		CollateralPercent: 150,
		MaxTxSize:         fn.Some(uint32(16_384)),
		MaxValueSize:      fn.Some(uint32(5_000)),
		MaxTxExUnits: fn.Some(adaunit.ExUnits{
			Mem:   14_000_000,
			Steps: 10_000_000_000,
		}),
	}
}

// newTestEnv returns a build environment backed by a funded spendable
// set, a single collateral output and a seeded randomness source.
func newTestEnv(balancer AutoBalancer) *BuildEnvironment {
	return &BuildEnvironment{
		Params: newTestParams(),
		Spendable: tx.NewUTxOSet(
			coinUtxo(1, 50_000_000),
			coinUtxo(2, 30_000_000),
			coinUtxo(3, 10_000_000),
		),
		ChangeAddress: testChangeAddr,
		Collateral:    tx.NewUTxOSet(coinUtxo(9, 5_000_000)),
		Balancer:      balancer,
		Rand:          rand.New(rand.NewSource(42)),
	}
}

// balancedBody returns a small body that passes every protocol ceiling.
func balancedBody(fee adaunit.Lovelace) *tx.Body {
	return tx.NewBodyBuilder().
		Inputs([]tx.OutRef{testRef(1, 0)}).
		Outputs([]tx.Output{
			tx.NewOutput(testPayAddr, tx.NewValueFromCoin(2_000_000)),
		}).
		Fee(fee).
		Build()
}

// payOutputs returns a single plain payment output of the given amount.
func payOutputs(coin adaunit.Lovelace) []tx.Output {
	return []tx.Output{tx.NewOutput(testPayAddr, tx.NewValueFromCoin(coin))}
}
