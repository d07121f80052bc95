// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/adasuite/adawallet/pkg/adaunit"
)

// minUTxOSizeOverhead is the constant number of bytes the ledger adds to
// an output's serialized size before pricing it with CoinsPerUTxOByte.
// It accounts for the per-entry overhead of carrying the output in the
// UTxO map.
const minUTxOSizeOverhead = 160

// ProtocolParams is the subset of the ledger protocol parameters the
// balancer consumes. The ceiling parameters are optional at the wire
// level; a missing ceiling is a fatal configuration error for any
// operation that needs it, never a retryable one.
type ProtocolParams struct {
	// MinFeeCoefficient is the per-byte component of the linear fee
	// formula.
	MinFeeCoefficient uint64

	// MinFeeConstant is the constant component of the linear fee
	// formula.
	MinFeeConstant uint64

	// CoinsPerUTxOByte prices the minimum base-asset deposit of an
	// output per byte of its serialized size.
	CoinsPerUTxOByte uint64

	// CollateralPercent is the percentage of the transaction fee that
	// pledged collateral must cover.
	CollateralPercent uint64

	// MaxTxSize is the ceiling on the serialized size of a
	// transaction, in bytes.
	MaxTxSize fn.Option[uint32]

	// MaxValueSize is the ceiling on the serialized size of any
	// single multi-asset value bundle, in bytes.
	MaxValueSize fn.Option[uint32]

	// MaxTxExUnits is the ceiling on the total script execution
	// budget of a transaction.
	MaxTxExUnits fn.Option[adaunit.ExUnits]
}

// MinOutputValue returns the minimum base-asset quantity the given
// output must carry under these parameters.
func (p *ProtocolParams) MinOutputValue(out Output) (adaunit.Lovelace,
	error) {

	size, err := out.SerializedSize()
	if err != nil {
		return 0, err
	}

	min := p.CoinsPerUTxOByte * uint64(size+minUTxOSizeOverhead)

	return adaunit.Lovelace(min), nil
}

// EraHistory is an opaque handle on the era timeline of the network. The
// balancer never inspects it; it is threaded through to the external
// ledger auto-balancer, which needs it to resolve validity intervals.
type EraHistory any

// NetworkContext bundles the network-level inputs of the external ledger
// auto-balancer: the chain start time, the era timeline and the
// registered stake pools.
type NetworkContext struct {
	// SystemStart is the wall-clock time of the chain's first slot.
	SystemStart time.Time

	// EraHistory is the era timeline of the network.
	EraHistory EraHistory

	// Pools is the set of registered stake pool identifiers.
	Pools map[string]struct{}
}
