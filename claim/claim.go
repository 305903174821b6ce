// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package claim interprets properties of known predicates as typed values.
// Properties of predicates that are not registered are kept as Opaque claims
// so that newer predicates can pass through unchanged.
package claim

import (
	"fmt"

	"github.com/0xsoniclabs/plasma/common"
	"github.com/0xsoniclabs/plasma/property"

	geth "github.com/ethereum/go-ethereum/common"
)

// ErrMalformedClaim is returned when the inputs of a property do not match
// the input schema of its predicate.
const ErrMalformedClaim = common.ConstError("malformed claim")

// Kind enumerates the predicates this client understands.
type Kind int

const (
	KindOpaque Kind = iota
	KindOwnership
	KindStateUpdate
	KindTransaction
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindOwnership:
		return "ownership"
	case KindStateUpdate:
		return "state-update"
	case KindTransaction:
		return "transaction"
	case KindExit:
		return "exit"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Claim is a typed view of a property.
type Claim interface {
	Kind() Kind
	// Property converts the claim back into its generic property form.
	Property() (property.Property, error)
}

// Opaque is a property of an unknown predicate.
type Opaque struct {
	Value property.Property
}

func (Opaque) Kind() Kind { return KindOpaque }

func (o Opaque) Property() (property.Property, error) {
	return o.Value, nil
}

// Registry maps deployed predicate addresses to the kind of claim they decide.
// A registry is immutable once built and safe for concurrent use.
type Registry struct {
	kinds map[geth.Address]Kind
}

// NewRegistry creates a registry from the given predicate addresses.
func NewRegistry(predicates map[Kind]geth.Address) (*Registry, error) {
	res := &Registry{kinds: make(map[geth.Address]Kind, len(predicates))}
	for kind, address := range predicates {
		if kind == KindOpaque {
			return nil, fmt.Errorf("opaque claims have no predicate")
		}
		if other, found := res.kinds[address]; found {
			return nil, fmt.Errorf("predicate %s registered for both %v and %v", address, other, kind)
		}
		res.kinds[address] = kind
	}
	return res, nil
}

// KindOf returns the kind of claim decided by the given predicate.
func (r *Registry) KindOf(predicate geth.Address) Kind {
	if kind, found := r.kinds[predicate]; found {
		return kind
	}
	return KindOpaque
}

// Interpret returns the typed claim for the given property.
func (r *Registry) Interpret(p property.Property) (Claim, error) {
	switch r.KindOf(p.PredicateAddress) {
	case KindOwnership:
		return decodeOwnership(p)
	case KindStateUpdate:
		return decodeStateUpdate(p)
	case KindTransaction:
		return decodeTransaction(p)
	case KindExit:
		return r.decodeExit(p)
	}
	return Opaque{Value: p}, nil
}

// AsStateUpdate interprets the property as a state update.
func (r *Registry) AsStateUpdate(p property.Property) (StateUpdate, error) {
	if kind := r.KindOf(p.PredicateAddress); kind != KindStateUpdate {
		return StateUpdate{}, fmt.Errorf("%w: expected state update, got %v claim", ErrMalformedClaim, kind)
	}
	return decodeStateUpdate(p)
}

// AsTransaction interprets the property as a transaction.
func (r *Registry) AsTransaction(p property.Property) (Transaction, error) {
	if kind := r.KindOf(p.PredicateAddress); kind != KindTransaction {
		return Transaction{}, fmt.Errorf("%w: expected transaction, got %v claim", ErrMalformedClaim, kind)
	}
	return decodeTransaction(p)
}

func checkInputCount(p property.Property, kind Kind, want int) error {
	if len(p.Inputs) != want {
		return fmt.Errorf("%w: %v claim requires %d inputs, got %d", ErrMalformedClaim, kind, want, len(p.Inputs))
	}
	return nil
}

func malformed(kind Kind, err error) error {
	return fmt.Errorf("%w: %v claim: %w", ErrMalformedClaim, kind, err)
}
