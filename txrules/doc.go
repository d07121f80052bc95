// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txrules provides the protocol arithmetic used while balancing a
transaction: the minimum-deposit rule for outputs, the predicate deciding
when collateral is required, and the collateral coverage calculation.

# Minimum output value

Every output must carry at least CoinsPerUTxOByte lovelace per byte of
its serialized size plus a constant per-entry overhead. Because raising
the coin quantity can itself grow the encoded size, the adjustment
iterates until the value is a fixed point.

# Collateral

Collateral is required exactly when the transaction executes scripts:
when it mints (or burns) any asset, or when any of its inputs is
script-witnessed. The required coverage is

	required = ceil(fee * collateralPercent / 100)

and the pledged collateral's base asset beyond that amount, together
with all of its other assets, is returned to the change address.
*/
package txrules
