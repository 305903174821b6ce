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

	geth "github.com/ethereum/go-ethereum/common"
)

// Exit claims the funds backing a state update. Once its dispute period has
// passed undisputed, the exit property is handed to the payout contract.
type Exit struct {
	Predicate   geth.Address
	StateUpdate StateUpdate
}

func (Exit) Kind() Kind { return KindExit }

func (e Exit) Property() (property.Property, error) {
	su, err := e.StateUpdate.Property()
	if err != nil {
		return property.Property{}, err
	}
	encoded, err := property.Encode(su)
	if err != nil {
		return property.Property{}, fmt.Errorf("state update: %w", err)
	}
	return property.Property{
		PredicateAddress: e.Predicate,
		Inputs:           [][]byte{encoded},
	}, nil
}

func (r *Registry) decodeExit(p property.Property) (Exit, error) {
	if err := checkInputCount(p, KindExit, 1); err != nil {
		return Exit{}, err
	}
	inner, err := property.Decode(p.Inputs[0])
	if err != nil {
		return Exit{}, malformed(KindExit, err)
	}
	su, err := r.AsStateUpdate(inner)
	if err != nil {
		return Exit{}, malformed(KindExit, err)
	}
	return Exit{Predicate: p.PredicateAddress, StateUpdate: su}, nil
}
