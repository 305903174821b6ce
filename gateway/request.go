// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package gateway

import (
	"fmt"
	"strings"

	"github.com/0xsoniclabs/plasma/events"
	"github.com/0xsoniclabs/plasma/property"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	geth "github.com/ethereum/go-ethereum/common"
)

// ExitPayoutRequest describes an exit that passed its dispute period and is
// ready for payout. DepositedRangeId names the deposited range record on the
// deposit contract backing the exit.
type ExitPayoutRequest struct {
	DepositContractAddress geth.Address
	ExitProperty           property.Property
	DepositedRangeId       uint256.Int
	Owner                  geth.Address
}

// ownershipPayoutABI is the part of the OwnershipPayout contract used by the
// gateway. The exit property uses the same tuple layout as the property codec.
const ownershipPayoutABI = `[
	{
		"type": "function",
		"name": "finalizeExit",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "depositContractAddress", "type": "address", "internalType": "address"},
			{
				"name": "_exitProperty",
				"type": "tuple",
				"internalType": "struct types.Property",
				"components": [
					{"name": "predicateAddress", "type": "address", "internalType": "address"},
					{"name": "inputs", "type": "bytes[]", "internalType": "bytes[]"}
				]
			},
			{"name": "depositedRangeId", "type": "uint256", "internalType": "uint256"},
			{"name": "_owner", "type": "address", "internalType": "address"}
		],
		"outputs": []
	},
	{
		"type": "event",
		"name": "ExitFinalized",
		"anonymous": false,
		"inputs": [
			{"name": "exitId", "type": "bytes32", "indexed": false, "internalType": "bytes32"}
		]
	}
]`

const (
	finalizeExitMethod = "finalizeExit"
	ExitFinalizedEvent = "ExitFinalized"
)

var payoutABI = mustParseABI(ownershipPayoutABI)

type exitPropertyArg struct {
	PredicateAddress geth.Address
	Inputs           [][]byte
}

// PackFinalizeExit produces the call data of a finalizeExit call for the
// given request.
func PackFinalizeExit(req ExitPayoutRequest) ([]byte, error) {
	if err := req.ExitProperty.Validate(); err != nil {
		return nil, err
	}
	inputs := req.ExitProperty.Inputs
	if inputs == nil {
		inputs = [][]byte{}
	}
	return payoutABI.Pack(
		finalizeExitMethod,
		req.DepositContractAddress,
		exitPropertyArg{PredicateAddress: req.ExitProperty.PredicateAddress, Inputs: inputs},
		req.DepositedRangeId.ToBig(),
		req.Owner,
	)
}

func mustParseABI(definition string) abi.ABI {
	res, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid contract ABI: %v", err))
	}
	return res
}

// ReceiptEvents names the logs of a receipt known to the payout contract
// interface. Other logs are skipped.
func ReceiptEvents(receipt *types.Receipt) []events.Event {
	var res []events.Event
	for _, log := range receipt.Logs {
		if log == nil {
			continue
		}
		event, err := events.FromLog(payoutABI, *log)
		if err != nil {
			continue
		}
		res = append(res, event)
	}
	return res
}

// EventRegistry returns a registry decoding the events of the payout
// contract interface.
func EventRegistry() *events.Registry {
	registry := events.NewRegistry()
	for name := range payoutABI.Events {
		if err := registry.Register(name, events.ABIDecoder(payoutABI)); err != nil {
			panic(fmt.Sprintf("failed to register payout event: %v", err))
		}
	}
	return registry
}
