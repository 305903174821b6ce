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
	"math/big"

	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	geth "github.com/ethereum/go-ethereum/common"
)

// Predicates receive each input as an individually ABI encoded value. The
// coders below cover the input types used by the known predicates; nested
// properties use Encode and Decode.

var (
	addressArguments = abi.Arguments{{Type: mustNewType("address", "", nil)}}
	uintArguments    = abi.Arguments{{Type: mustNewType("uint256", "", nil)}}
	rangeArguments   = abi.Arguments{{Type: mustNewType("tuple", "struct Range", []abi.ArgumentMarshaling{
		{Name: "start", Type: "uint256"},
		{Name: "end", Type: "uint256"},
	})}}
)

type abiRange struct {
	Start *big.Int
	End   *big.Int
}

// EncodeAddress encodes an address input.
func EncodeAddress(address geth.Address) []byte {
	data, err := addressArguments.Pack(address)
	if err != nil {
		panic(fmt.Sprintf("failed to encode address: %v", err))
	}
	return data
}

// DecodeAddress decodes an address input.
func DecodeAddress(data []byte) (geth.Address, error) {
	values, err := unpackCanonical(addressArguments, data, 32)
	if err != nil {
		return geth.Address{}, fmt.Errorf("address input: %w", err)
	}
	return *abi.ConvertType(values[0], new(geth.Address)).(*geth.Address), nil
}

// EncodeUint encodes a uint256 input.
func EncodeUint(value *uint256.Int) []byte {
	data, err := uintArguments.Pack(value.ToBig())
	if err != nil {
		panic(fmt.Sprintf("failed to encode uint256: %v", err))
	}
	return data
}

// DecodeUint decodes a uint256 input.
func DecodeUint(data []byte) (*uint256.Int, error) {
	values, err := unpackCanonical(uintArguments, data, 32)
	if err != nil {
		return nil, fmt.Errorf("uint input: %w", err)
	}
	res, overflow := uint256.FromBig(values[0].(*big.Int))
	if overflow {
		return nil, fmt.Errorf("%w: uint input exceeds 256 bits", ErrMalformedProperty)
	}
	return res, nil
}

// EncodeRange encodes a range input as the tuple (uint256 start, uint256 end).
func EncodeRange(r ranges.Range) []byte {
	data, err := rangeArguments.Pack(abiRange{Start: r.Start.ToBig(), End: r.End.ToBig()})
	if err != nil {
		panic(fmt.Sprintf("failed to encode range: %v", err))
	}
	return data
}

// DecodeRange decodes a range input. Empty or inverted ranges are rejected.
func DecodeRange(data []byte) (ranges.Range, error) {
	values, err := unpackCanonical(rangeArguments, data, 64)
	if err != nil {
		return ranges.Range{}, fmt.Errorf("range input: %w", err)
	}
	decoded := *abi.ConvertType(values[0], new(abiRange)).(*abiRange)
	start, overflowStart := uint256.FromBig(decoded.Start)
	end, overflowEnd := uint256.FromBig(decoded.End)
	if overflowStart || overflowEnd {
		return ranges.Range{}, fmt.Errorf("%w: range bound exceeds 256 bits", ErrMalformedProperty)
	}
	res, err := ranges.NewFromInts(start, end)
	if err != nil {
		return ranges.Range{}, fmt.Errorf("%w: %w", ErrMalformedProperty, err)
	}
	return res, nil
}

// unpackCanonical decodes a static value of the given size and checks that
// re-encoding yields the same bytes.
func unpackCanonical(arguments abi.Arguments, data []byte, size int) ([]any, error) {
	if len(data) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedProperty, size, len(data))
	}
	values, err := arguments.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProperty, err)
	}
	canonical, err := arguments.Pack(values...)
	if err != nil || !bytes.Equal(canonical, data) {
		return nil, fmt.Errorf("%w: non-canonical encoding", ErrMalformedProperty)
	}
	return values, nil
}
