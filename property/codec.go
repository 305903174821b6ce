// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package property

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	geth "github.com/ethereum/go-ethereum/common"
)

// SchemaVersion identifies the layout below. The dispute and exit contracts
// decode properties with the identical layout, so any change to it is a
// protocol change and requires a new version.
const SchemaVersion = 1

// The wire form of a property is the ABI encoding of a single
//
//	struct Property { address predicateAddress; bytes[] inputs; }
//
// argument, which is what abi.encode(property) produces on chain.
var propertyArguments = abi.Arguments{{
	Name: "property",
	Type: mustNewType("tuple", "struct Property", []abi.ArgumentMarshaling{
		{Name: "predicateAddress", Type: "address"},
		{Name: "inputs", Type: "bytes[]"},
	}),
}}

// minEncodedSize covers the head offset, the address, the offset of the
// inputs and the length of an empty input list.
const minEncodedSize = 4 * 32

// abiProperty is the Go counterpart of the ABI tuple; field names must match
// the tuple component names.
type abiProperty struct {
	PredicateAddress geth.Address
	Inputs           [][]byte
}

// Encode produces the canonical byte form of the given property.
func Encode(p Property) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return propertyArguments.Pack(toABI(p))
}

// MustEncode is like Encode but panics on invalid properties.
func MustEncode(p Property) []byte {
	data, err := Encode(p)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode parses the canonical byte form of a property. Any input that is not
// exactly what Encode produces for the resulting value is rejected.
func Decode(data []byte) (Property, error) {
	if len(data) < minEncodedSize || len(data)%32 != 0 {
		return Property{}, fmt.Errorf("%w: invalid length %d", ErrMalformedProperty, len(data))
	}
	if head := data[:32]; !isZero(head[:31]) || head[31] != 32 {
		return Property{}, fmt.Errorf("%w: unexpected head offset %x", ErrMalformedProperty, head)
	}
	if !isZero(data[32 : 64-geth.AddressLength]) {
		return Property{}, fmt.Errorf("%w: predicate address is not %d bytes", ErrMalformedProperty, geth.AddressLength)
	}

	values, err := propertyArguments.Unpack(data)
	if err != nil {
		return Property{}, fmt.Errorf("%w: %v", ErrMalformedProperty, err)
	}
	decoded := *abi.ConvertType(values[0], new(abiProperty)).(*abiProperty)
	// Decoded inputs alias data, New copies them.
	res := New(decoded.PredicateAddress, decoded.Inputs...)
	if err := res.Validate(); err != nil {
		return Property{}, fmt.Errorf("%w: %v", ErrMalformedProperty, err)
	}

	// Offsets and padding are not fully checked by the ABI decoder.
	canonical, err := propertyArguments.Pack(toABI(res))
	if err != nil {
		return Property{}, fmt.Errorf("%w: %v", ErrMalformedProperty, err)
	}
	if !bytes.Equal(canonical, data) {
		return Property{}, fmt.Errorf("%w: non-canonical encoding", ErrMalformedProperty)
	}
	return res, nil
}

func toABI(p Property) abiProperty {
	inputs := p.Inputs
	if inputs == nil {
		inputs = [][]byte{}
	}
	return abiProperty{
		PredicateAddress: p.PredicateAddress,
		Inputs:           inputs,
	}
}

func mustNewType(typ, internalType string, components []abi.ArgumentMarshaling) abi.Type {
	res, err := abi.NewType(typ, internalType, components)
	if err != nil {
		panic(fmt.Sprintf("invalid ABI type %s: %v", typ, err))
	}
	return res
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
