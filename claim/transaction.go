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
	"bytes"
	"fmt"

	"github.com/0xsoniclabs/plasma/property"
	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/holiman/uint256"

	geth "github.com/ethereum/go-ethereum/common"
)

// Transaction is an owner's intent to move Range of a deposit contract into
// NextStateObject, valid up to MaxBlockNumber. The signature is carried next
// to the claim and is not part of its property form.
type Transaction struct {
	Predicate              geth.Address
	DepositContractAddress geth.Address
	Range                  ranges.Range
	MaxBlockNumber         uint256.Int
	NextStateObject        property.Property
	Signature              []byte
}

func (Transaction) Kind() Kind { return KindTransaction }

func (t Transaction) Property() (property.Property, error) {
	next, err := property.Encode(t.NextStateObject)
	if err != nil {
		return property.Property{}, fmt.Errorf("next state object: %w", err)
	}
	return property.Property{
		PredicateAddress: t.Predicate,
		Inputs: [][]byte{
			property.EncodeAddress(t.DepositContractAddress),
			property.EncodeRange(t.Range),
			property.EncodeUint(&t.MaxBlockNumber),
			next,
		},
	}, nil
}

// WithSignature returns a copy of the transaction carrying the given signature.
func (t Transaction) WithSignature(signature []byte) Transaction {
	t.Signature = bytes.Clone(signature)
	return t
}

func decodeTransaction(p property.Property) (Transaction, error) {
	if err := checkInputCount(p, KindTransaction, 4); err != nil {
		return Transaction{}, err
	}
	deposit, r, number, next, err := decodeSpendInputs(p.Inputs)
	if err != nil {
		return Transaction{}, malformed(KindTransaction, err)
	}
	return Transaction{
		Predicate:              p.PredicateAddress,
		DepositContractAddress: deposit,
		Range:                  r,
		MaxBlockNumber:         *number,
		NextStateObject:        next,
	}, nil
}
