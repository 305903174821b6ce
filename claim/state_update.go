// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package claim

import (
	"fmt"

	"github.com/0xsoniclabs/plasma/property"
	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/holiman/uint256"

	geth "github.com/ethereum/go-ethereum/common"
)

// StateUpdate is the last confirmed claim over Range of a deposit contract as
// of BlockNumber. StateObject decides who may spend the range, typically an
// Ownership claim.
type StateUpdate struct {
	Predicate              geth.Address
	DepositContractAddress geth.Address
	Range                  ranges.Range
	BlockNumber            uint256.Int
	StateObject            property.Property
}

func (StateUpdate) Kind() Kind { return KindStateUpdate }

func (s StateUpdate) Property() (property.Property, error) {
	stateObject, err := property.Encode(s.StateObject)
	if err != nil {
		return property.Property{}, fmt.Errorf("state object: %w", err)
	}
	return property.Property{
		PredicateAddress: s.Predicate,
		Inputs: [][]byte{
			property.EncodeAddress(s.DepositContractAddress),
			property.EncodeRange(s.Range),
			property.EncodeUint(&s.BlockNumber),
			stateObject,
		},
	}, nil
}

func decodeStateUpdate(p property.Property) (StateUpdate, error) {
	if err := checkInputCount(p, KindStateUpdate, 4); err != nil {
		return StateUpdate{}, err
	}
	deposit, r, number, object, err := decodeSpendInputs(p.Inputs)
	if err != nil {
		return StateUpdate{}, malformed(KindStateUpdate, err)
	}
	return StateUpdate{
		Predicate:              p.PredicateAddress,
		DepositContractAddress: deposit,
		Range:                  r,
		BlockNumber:            *number,
		StateObject:            object,
	}, nil
}

// Owner returns the owner of the state update if its state object is an
// ownership claim.
func (r *Registry) Owner(s StateUpdate) (geth.Address, bool) {
	if r.KindOf(s.StateObject.PredicateAddress) != KindOwnership {
		return geth.Address{}, false
	}
	ownership, err := decodeOwnership(s.StateObject)
	if err != nil {
		return geth.Address{}, false
	}
	return ownership.Owner, true
}

// decodeSpendInputs decodes the (deposit contract, range, block number,
// property) inputs shared by state updates and transactions.
func decodeSpendInputs(inputs [][]byte) (geth.Address, ranges.Range, *uint256.Int, property.Property, error) {
	deposit, err := property.DecodeAddress(inputs[0])
	if err != nil {
		return geth.Address{}, ranges.Range{}, nil, property.Property{}, fmt.Errorf("deposit contract: %w", err)
	}
	r, err := property.DecodeRange(inputs[1])
	if err != nil {
		return geth.Address{}, ranges.Range{}, nil, property.Property{}, err
	}
	number, err := property.DecodeUint(inputs[2])
	if err != nil {
		return geth.Address{}, ranges.Range{}, nil, property.Property{}, fmt.Errorf("block number: %w", err)
	}
	object, err := property.Decode(inputs[3])
	if err != nil {
		return geth.Address{}, ranges.Range{}, nil, property.Property{}, fmt.Errorf("state object: %w", err)
	}
	return deposit, r, number, object, nil
}
