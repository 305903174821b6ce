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
	"testing"

	"github.com/0xsoniclabs/plasma/property"
	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	geth "github.com/ethereum/go-ethereum/common"
)

var (
	ownershipPredicate   = geth.HexToAddress("0x0a")
	stateUpdatePredicate = geth.HexToAddress("0x0b")
	transactionPredicate = geth.HexToAddress("0x0c")
	exitPredicate        = geth.HexToAddress("0x0d")
	depositContract      = geth.HexToAddress("0xd0")
	alice                = geth.HexToAddress("0xa1")
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(map[Kind]geth.Address{
		KindOwnership:   ownershipPredicate,
		KindStateUpdate: stateUpdatePredicate,
		KindTransaction: transactionPredicate,
		KindExit:        exitPredicate,
	})
	require.NoError(t, err)
	return registry
}

func newStateUpdate(t *testing.T) StateUpdate {
	t.Helper()
	owner, err := Ownership{Predicate: ownershipPredicate, Owner: alice}.Property()
	require.NoError(t, err)
	return StateUpdate{
		Predicate:              stateUpdatePredicate,
		DepositContractAddress: depositContract,
		Range:                  ranges.Must(10, 20),
		BlockNumber:            *uint256.NewInt(5),
		StateObject:            owner,
	}
}

func TestRegistry_RejectsAmbiguousPredicates(t *testing.T) {
	_, err := NewRegistry(map[Kind]geth.Address{
		KindOwnership:   ownershipPredicate,
		KindStateUpdate: ownershipPredicate,
	})
	require.Error(t, err)

	_, err = NewRegistry(map[Kind]geth.Address{KindOpaque: ownershipPredicate})
	require.Error(t, err)
}

func TestRegistry_UnknownPredicatesAreOpaque(t *testing.T) {
	registry := newTestRegistry(t)
	p := property.New(geth.HexToAddress("0xff"), []byte{1, 2, 3})

	c, err := registry.Interpret(p)
	require.NoError(t, err)
	require.Equal(t, KindOpaque, c.Kind())

	restored, err := c.Property()
	require.NoError(t, err)
	require.True(t, p.Equal(restored))
}

func TestOwnership_RoundTrip(t *testing.T) {
	registry := newTestRegistry(t)
	p, err := Ownership{Predicate: ownershipPredicate, Owner: alice}.Property()
	require.NoError(t, err)

	c, err := registry.Interpret(p)
	require.NoError(t, err)
	require.Equal(t, Ownership{Predicate: ownershipPredicate, Owner: alice}, c)
}

func TestStateUpdate_RoundTripThroughWireFormat(t *testing.T) {
	registry := newTestRegistry(t)
	su := newStateUpdate(t)

	p, err := su.Property()
	require.NoError(t, err)
	data, err := property.Encode(p)
	require.NoError(t, err)
	decoded, err := property.Decode(data)
	require.NoError(t, err)

	restored, err := registry.AsStateUpdate(decoded)
	require.NoError(t, err)
	require.Equal(t, su.DepositContractAddress, restored.DepositContractAddress)
	require.Equal(t, su.Range, restored.Range)
	require.Equal(t, su.BlockNumber, restored.BlockNumber)
	require.True(t, su.StateObject.Equal(restored.StateObject))

	owner, found := registry.Owner(restored)
	require.True(t, found)
	require.Equal(t, alice, owner)
}

func TestTransaction_RoundTripKeepsSignatureOutOfProperty(t *testing.T) {
	registry := newTestRegistry(t)
	next, err := Ownership{Predicate: ownershipPredicate, Owner: geth.HexToAddress("0xb0b")}.Property()
	require.NoError(t, err)
	tx := Transaction{
		Predicate:              transactionPredicate,
		DepositContractAddress: depositContract,
		Range:                  ranges.Must(10, 20),
		MaxBlockNumber:         *uint256.NewInt(100),
		NextStateObject:        next,
	}
	signed := tx.WithSignature([]byte{0x51, 0x6e})

	unsigned, err := tx.Property()
	require.NoError(t, err)
	withSignature, err := signed.Property()
	require.NoError(t, err)
	require.True(t, unsigned.Equal(withSignature))

	restored, err := registry.AsTransaction(withSignature)
	require.NoError(t, err)
	require.Equal(t, tx.MaxBlockNumber, restored.MaxBlockNumber)
	require.Equal(t, tx.Range, restored.Range)
	require.True(t, next.Equal(restored.NextStateObject))
	require.Nil(t, restored.Signature)
	require.Equal(t, []byte{0x51, 0x6e}, signed.Signature)
}

func TestExit_RoundTrip(t *testing.T) {
	registry := newTestRegistry(t)
	exit := Exit{Predicate: exitPredicate, StateUpdate: newStateUpdate(t)}

	p, err := exit.Property()
	require.NoError(t, err)
	c, err := registry.Interpret(p)
	require.NoError(t, err)
	require.Equal(t, KindExit, c.Kind())

	restored, err := c.Property()
	require.NoError(t, err)
	require.True(t, p.Equal(restored))
}

func TestInterpret_RejectsInputsNotMatchingPredicate(t *testing.T) {
	registry := newTestRegistry(t)
	su, err := newStateUpdate(t).Property()
	require.NoError(t, err)

	tests := map[string]property.Property{
		"ownership without owner":     property.New(ownershipPredicate),
		"ownership with bad owner":    property.New(ownershipPredicate, []byte{1}),
		"state update missing inputs": property.New(stateUpdatePredicate, su.Inputs[:3]...),
		"state update with bad range": property.New(stateUpdatePredicate,
			su.Inputs[0], property.EncodeUint(uint256.NewInt(1)), su.Inputs[2], su.Inputs[3]),
		"state update with bad object": property.New(stateUpdatePredicate,
			su.Inputs[0], su.Inputs[1], su.Inputs[2], []byte{1}),
		"exit of non state update": property.New(exitPredicate, property.MustEncode(property.New(ownershipPredicate))),
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := registry.Interpret(p)
			require.ErrorIs(t, err, ErrMalformedClaim)
		})
	}
}

func TestAsTransaction_RejectsOtherKinds(t *testing.T) {
	registry := newTestRegistry(t)
	su, err := newStateUpdate(t).Property()
	require.NoError(t, err)

	_, err = registry.AsTransaction(su)
	require.ErrorIs(t, err, ErrMalformedClaim)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "state-update", KindStateUpdate.String())
	require.Equal(t, "kind(42)", Kind(42).String())
}
