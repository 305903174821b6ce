// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package property implements the Property claim format shared between the
// client and the dispute and exit contracts. A Property states that the
// predicate deployed at PredicateAddress holds for the given inputs.
package property

import (
	"bytes"
	"fmt"

	"github.com/0xsoniclabs/plasma/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	geth "github.com/ethereum/go-ethereum/common"
)

const (
	// ErrMalformedProperty is returned by decoders for byte strings that are
	// not a canonical encoding of a well-formed value.
	ErrMalformedProperty = common.ConstError("malformed property")
	// ErrInvalidProperty is returned by encoders for values that can not be
	// represented in the wire format.
	ErrInvalidProperty = common.ConstError("invalid property")
)

const (
	// MaxInputs is the maximum number of inputs of a single property.
	MaxInputs = 256
	// MaxInputLength is the maximum size of a single input in bytes.
	MaxInputLength = 1 << 16
)

// Property is a predicate claim. Values are treated as immutable; use New to
// obtain a property that does not alias caller-owned buffers.
type Property struct {
	PredicateAddress geth.Address
	Inputs           [][]byte
}

// New creates a property holding copies of the given inputs.
func New(predicate geth.Address, inputs ...[]byte) Property {
	res := Property{PredicateAddress: predicate}
	if len(inputs) > 0 {
		res.Inputs = make([][]byte, len(inputs))
		for i, input := range inputs {
			res.Inputs[i] = bytes.Clone(input)
		}
	}
	return res
}

// Validate checks that the property fits into the limits of the wire format.
func (p Property) Validate() error {
	if len(p.Inputs) > MaxInputs {
		return fmt.Errorf("%w: %d inputs exceed the limit of %d", ErrInvalidProperty, len(p.Inputs), MaxInputs)
	}
	for i, input := range p.Inputs {
		if len(input) > MaxInputLength {
			return fmt.Errorf("%w: input %d has %d bytes, limit is %d", ErrInvalidProperty, i, len(input), MaxInputLength)
		}
	}
	return nil
}

// Equal reports whether both properties make the same claim. Nil and empty
// inputs are considered equal since they share the same encoding.
func (p Property) Equal(other Property) bool {
	if p.PredicateAddress != other.PredicateAddress || len(p.Inputs) != len(other.Inputs) {
		return false
	}
	for i := range p.Inputs {
		if !bytes.Equal(p.Inputs[i], other.Inputs[i]) {
			return false
		}
	}
	return true
}

func (p Property) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Property{predicate: %s, inputs: [", p.PredicateAddress.Hex())
	for i, input := range p.Inputs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(hexutil.Encode(input))
	}
	buf.WriteString("]}")
	return buf.String()
}

// Hash returns the keccak256 hash of the canonical encoding. The adjudication
// contracts identify claims by this hash.
func Hash(p Property) (geth.Hash, error) {
	data, err := Encode(p)
	if err != nil {
		return geth.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}
