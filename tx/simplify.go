// Copyright (c) 2025 The adasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tx

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CanonicalSimplifier normalizes the CBOR encoding of a transaction
// body. It re-encodes the body through a generic decode/encode cycle
// under the canonical encoding options and verifies the result is a
// fixed point, which guards against indefinite-length or
// non-deterministically ordered structures sneaking into the wire form.
type CanonicalSimplifier struct{}

// NewCanonicalSimplifier returns a simplifier using the package's
// canonical encoding.
func NewCanonicalSimplifier() *CanonicalSimplifier {
	return &CanonicalSimplifier{}
}

// Simplify checks that the body's encoding is canonical and stable under
// re-encoding, returning the body unchanged on success.
func (s *CanonicalSimplifier) Simplify(body *Body) (*Body, error) {
	encoded, err := body.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	var generic any
	if err := cbor.Unmarshal(encoded, &generic); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	reencoded, err := marshalCanonical(generic)
	if err != nil {
		return nil, fmt.Errorf("re-encode body: %w", err)
	}

	if !bytes.Equal(encoded, reencoded) {
		return nil, fmt.Errorf("body encoding is not canonical: "+
			"%d byte encoding re-encodes to %d bytes",
			len(encoded), len(reencoded))
	}

	return body, nil
}
