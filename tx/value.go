// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tx provides the ledger-facing data model for transaction
// balancing: multi-asset values, unspent outputs, witnesses, protocol
// parameters and the unsigned transaction body with its CBOR encoding.
package tx

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/adasuite/adawallet/pkg/adaunit"
)

// AdaAssetID is the asset identifier of the base asset. It is the only
// asset identifier without a policy component.
const AdaAssetID = AssetID("lovelace")

// AssetID identifies an asset class. The base asset is AdaAssetID; every
// other asset is identified by its minting policy hash and asset name,
// both hex encoded and joined by a dot.
type AssetID string

// NewAssetID constructs an asset identifier from a hex-encoded policy hash
// and a hex-encoded asset name.
func NewAssetID(policyHex, nameHex string) AssetID {
	return AssetID(policyHex + "." + nameHex)
}

// IsAda reports whether the identifier names the base asset.
func (a AssetID) IsAda() bool {
	return a == AdaAssetID
}

// split returns the policy and asset name components of a non-ada asset
// identifier.
func (a AssetID) split() (string, string, error) {
	policy, name, found := strings.Cut(string(a), ".")
	if !found {
		return "", "", fmt.Errorf("malformed asset id %q", a)
	}

	return policy, name, nil
}

// Value is a signed multi-asset quantity: a mapping from asset identifier
// to amount. Quantities may be negative during balancing arithmetic (for
// example when computing a funding shortfall); a final output value must
// be non-negative in every asset. A zero quantity and an absent key are
// equivalent, and the arithmetic methods below never store zero entries.
type Value map[AssetID]int64

// NewValue returns an empty value.
func NewValue() Value {
	return make(Value)
}

// NewValueFromCoin returns a value holding only the given base-asset
// amount.
func NewValueFromCoin(coin adaunit.Lovelace) Value {
	v := make(Value)
	v.SetCoin(coin)

	return v
}

// Coin returns the base-asset quantity of the value.
func (v Value) Coin() adaunit.Lovelace {
	return adaunit.Lovelace(v[AdaAssetID])
}

// SetCoin overrides the base-asset quantity of the value.
func (v Value) SetCoin(coin adaunit.Lovelace) {
	if coin == 0 {
		delete(v, AdaAssetID)
		return
	}

	v[AdaAssetID] = int64(coin)
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	c := make(Value, len(v))
	for asset, qty := range v {
		c[asset] = qty
	}

	return c
}

// Add returns a new value holding the asset-wise sum of v and other.
func (v Value) Add(other Value) Value {
	sum := v.Clone()
	for asset, qty := range other {
		sum[asset] += qty
		if sum[asset] == 0 {
			delete(sum, asset)
		}
	}

	return sum
}

// Sub returns a new value holding the asset-wise difference of v and
// other.
func (v Value) Sub(other Value) Value {
	diff := v.Clone()
	for asset, qty := range other {
		diff[asset] -= qty
		if diff[asset] == 0 {
			delete(diff, asset)
		}
	}

	return diff
}

// NonNegative reports whether every asset quantity is zero or greater.
func (v Value) NonNegative() bool {
	for _, qty := range v {
		if qty < 0 {
			return false
		}
	}

	return true
}

// IsZero reports whether the value holds no assets at all.
func (v Value) IsZero() bool {
	for _, qty := range v {
		if qty != 0 {
			return false
		}
	}

	return true
}

// AssetsOnly returns a copy of the value with the base asset removed.
func (v Value) AssetsOnly() Value {
	assets := v.Clone()
	delete(assets, AdaAssetID)

	return assets
}

// HasAssets reports whether the value carries any non-ada asset.
func (v Value) HasAssets() bool {
	for asset, qty := range v {
		if !asset.IsAda() && qty != 0 {
			return true
		}
	}

	return false
}

// Assets returns the non-ada asset identifiers of the value in a
// deterministic order.
func (v Value) Assets() []AssetID {
	assets := make([]AssetID, 0, len(v))
	for asset := range v {
		if asset.IsAda() {
			continue
		}

		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i] < assets[j]
	})

	return assets
}

// SerializedSize returns the size in bytes of the CBOR encoding of the
// value. The protocol caps this size for any single output bundle.
func (v Value) SerializedSize() (int, error) {
	data, err := v.MarshalCBOR()
	if err != nil {
		return 0, err
	}

	return len(data), nil
}

// String returns a human-readable rendering of the value.
func (v Value) String() string {
	parts := make([]string, 0, len(v))
	parts = append(parts, v.Coin().String())
	for _, asset := range v.Assets() {
		parts = append(parts, fmt.Sprintf("%d %s", v[asset], asset))
	}

	return strings.Join(parts, " + ")
}

// MarshalCBOR encodes the value in the ledger wire shape: a bare unsigned
// integer when only the base asset is present, otherwise a two-element
// array of the base-asset quantity and a policy-keyed asset map.
func (v Value) MarshalCBOR() ([]byte, error) {
	if !v.HasAssets() {
		return cbor.Marshal(uint64(v.Coin()))
	}

	assetsByPolicy := make(map[cbor.ByteString]map[cbor.ByteString]int64)
	for _, asset := range v.Assets() {
		policyHex, nameHex, err := asset.split()
		if err != nil {
			return nil, err
		}

		policy, err := hex.DecodeString(policyHex)
		if err != nil {
			return nil, fmt.Errorf("asset %q: bad policy: %w",
				asset, err)
		}
		name, err := hex.DecodeString(nameHex)
		if err != nil {
			return nil, fmt.Errorf("asset %q: bad name: %w",
				asset, err)
		}

		policyKey := cbor.ByteString(policy)
		if assetsByPolicy[policyKey] == nil {
			assetsByPolicy[policyKey] = make(
				map[cbor.ByteString]int64,
			)
		}
		assetsByPolicy[policyKey][cbor.ByteString(name)] = v[asset]
	}

	return marshalCanonical([]any{uint64(v.Coin()), assetsByPolicy})
}
