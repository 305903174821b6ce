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
	"github.com/0xsoniclabs/plasma/property"

	geth "github.com/ethereum/go-ethereum/common"
)

// Ownership states that a range may be spent by a transaction signed by Owner.
type Ownership struct {
	Predicate geth.Address
	Owner     geth.Address
}

func (Ownership) Kind() Kind { return KindOwnership }

func (o Ownership) Property() (property.Property, error) {
	return property.Property{
		PredicateAddress: o.Predicate,
		Inputs:           [][]byte{property.EncodeAddress(o.Owner)},
	}, nil
}

func decodeOwnership(p property.Property) (Ownership, error) {
	if err := checkInputCount(p, KindOwnership, 1); err != nil {
		return Ownership{}, err
	}
	owner, err := property.DecodeAddress(p.Inputs[0])
	if err != nil {
		return Ownership{}, malformed(KindOwnership, err)
	}
	return Ownership{Predicate: p.PredicateAddress, Owner: owner}, nil
}
