// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"github.com/adasuite/adawallet/pkg/adaunit"
)

// Output is a transaction output: a destination address and value,
// optionally carrying a datum and a reference script.
type Output struct {
	// Address is the destination address.
	Address Address

	// Value is the multi-asset quantity paid to the address.
	Value Value

	// Datum is the optional datum attached to the output.
	Datum *Datum

	// RefScript is the optional script attached to the output so
	// later transactions can use it by reference.
	RefScript *Script
}

// NewOutput returns an output paying the given value to the given
// address with no attachments.
func NewOutput(addr Address, value Value) Output {
	return Output{
		Address: addr,
		Value:   value,
	}
}

// Clone returns a copy of the output with its own value map.
func (o Output) Clone() Output {
	c := o
	c.Value = o.Value.Clone()

	return c
}

// WithCoin returns a copy of the output whose base-asset quantity is
// replaced by the given amount.
func (o Output) WithCoin(coin adaunit.Lovelace) Output {
	c := o.Clone()
	c.Value.SetCoin(coin)

	return c
}

// encodedOutput is the wire shape of an output: a map keyed by small
// integers per the ledger CDDL (0 address, 1 value, 2 datum, 3 script).
type encodedOutput struct {
	Address   string `cbor:"0,keyasint"`
	Value     Value  `cbor:"1,keyasint"`
	Datum     []byte `cbor:"2,keyasint,omitempty"`
	RefScript []byte `cbor:"3,keyasint,omitempty"`
}

// encode converts the output into its wire shape.
func (o Output) encode() encodedOutput {
	enc := encodedOutput{
		Address: string(o.Address),
		Value:   o.Value,
	}

	if o.Datum != nil {
		if len(o.Datum.Bytes) > 0 {
			enc.Datum = o.Datum.Bytes
		} else {
			enc.Datum = []byte(o.Datum.Hash)
		}
	}
	if o.RefScript != nil {
		enc.RefScript = o.RefScript.Bytes
	}

	return enc
}

// MarshalCBOR encodes the output in its ledger wire shape.
func (o Output) MarshalCBOR() ([]byte, error) {
	return marshalCanonical(o.encode())
}

// SerializedSize returns the size in bytes of the CBOR encoding of the
// output. The minimum-value rule prices an output by this size.
func (o Output) SerializedSize() (int, error) {
	data, err := o.MarshalCBOR()
	if err != nil {
		return 0, err
	}

	return len(data), nil
}

// SumOutputValues sums up the list of outputs and returns a Value.
func SumOutputValues(outputs []Output) Value {
	total := NewValue()
	for _, out := range outputs {
		total = total.Add(out.Value)
	}

	return total
}
