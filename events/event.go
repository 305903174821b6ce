// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package events carries event logs emitted by the settlement layer. The
// values of an event are opaque to this package; decoders for specific event
// names are registered by the components interested in them.
package events

import (
	"fmt"
	"slices"
	"sync"

	"github.com/0xsoniclabs/plasma/common"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/exp/maps"

	geth "github.com/ethereum/go-ethereum/common"
)

const (
	ErrUnknownEvent     = common.ConstError("unknown event")
	ErrDuplicateDecoder = common.ConstError("decoder already registered")
)

// Event is a log record of the settlement layer.
type Event struct {
	MainchainBlockNumber uint64
	Name                 string
	// Values holds the raw, ABI encoded, non-indexed event values.
	Values []byte
	// Topics holds the indexed values, without the event id.
	Topics []geth.Hash
}

// FromLog names a log using the events of the emitting contract's ABI.
func FromLog(contract abi.ABI, log types.Log) (Event, error) {
	if len(log.Topics) == 0 {
		return Event{}, fmt.Errorf("%w: anonymous log in block %d", ErrUnknownEvent, log.BlockNumber)
	}
	event, err := contract.EventByID(log.Topics[0])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrUnknownEvent, err)
	}
	return Event{
		MainchainBlockNumber: log.BlockNumber,
		Name:                 event.Name,
		Values:               slices.Clone(log.Data),
		Topics:               slices.Clone(log.Topics[1:]),
	}, nil
}

// Decoder interprets the values of an event.
type Decoder func(Event) (any, error)

// Registry dispatches events to the decoder registered for their name.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: map[string]Decoder{}}
}

// Register adds the decoder for events of the given name.
func (r *Registry) Register(name string, decoder Decoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.decoders[name]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateDecoder, name)
	}
	r.decoders[name] = decoder
	return nil
}

// Decode interprets the event with the decoder registered for its name.
func (r *Registry) Decode(event Event) (any, error) {
	r.mu.RLock()
	decoder, found := r.decoders[event.Name]
	r.mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Name)
	}
	return decoder(event)
}

// Names lists the event names with a registered decoder in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.decoders)
	slices.Sort(names)
	return names
}

// ABIDecoder returns a decoder unpacking the non-indexed values of the named
// event of the given contract into a map keyed by argument name.
func ABIDecoder(contract abi.ABI) Decoder {
	return func(event Event) (any, error) {
		values := map[string]any{}
		if err := contract.UnpackIntoMap(values, event.Name, event.Values); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", event.Name, err)
		}
		return values, nil
	}
}
