// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config holds the contract addresses of a plasma deployment. The
// file format is the JSON document written by the contract deployment
// tooling.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/common"

	geth "github.com/ethereum/go-ethereum/common"
)

// ErrMissingAddress is returned by Validate for unset contract addresses.
const ErrMissingAddress = common.ConstError("missing contract address")

// Names of predicates in the deployed predicate table.
const (
	OwnershipPredicate   = "OwnershipPredicate"
	StateUpdatePredicate = "StateUpdatePredicate"
	TransactionPredicate = "TransactionPredicate"
	ExitPredicate        = "ExitPredicate"
)

var predicateKinds = map[string]claim.Kind{
	OwnershipPredicate:   claim.KindOwnership,
	StateUpdatePredicate: claim.KindStateUpdate,
	TransactionPredicate: claim.KindTransaction,
	ExitPredicate:        claim.KindExit,
}

type Config struct {
	AdjudicationContract   geth.Address              `json:"adjudicationContract"`
	DisputeManager         geth.Address              `json:"disputeManager"`
	Commitment             geth.Address              `json:"commitment"`
	CheckpointDispute      geth.Address              `json:"checkpointDispute"`
	ExitDispute            geth.Address              `json:"exitDispute"`
	PayoutContracts        PayoutContracts           `json:"payoutContracts"`
	DeployedPredicateTable map[string]PredicateEntry `json:"deployedPredicateTable,omitempty"`
}

type PayoutContracts struct {
	OwnershipPayout geth.Address `json:"OwnershipPayout"`
	DepositContract geth.Address `json:"DepositContract"`
}

type PredicateEntry struct {
	DeployedAddress geth.Address `json:"deployedAddress"`
}

// Load reads and validates the configuration file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var res Config
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Validate checks that all protocol and payout contracts are set.
func (c *Config) Validate() error {
	var issues []error
	check := func(name string, address geth.Address) {
		if address == (geth.Address{}) {
			issues = append(issues, fmt.Errorf("%w: %s", ErrMissingAddress, name))
		}
	}
	check("adjudicationContract", c.AdjudicationContract)
	check("disputeManager", c.DisputeManager)
	check("commitment", c.Commitment)
	check("checkpointDispute", c.CheckpointDispute)
	check("exitDispute", c.ExitDispute)
	check("payoutContracts.OwnershipPayout", c.PayoutContracts.OwnershipPayout)
	check("payoutContracts.DepositContract", c.PayoutContracts.DepositContract)
	for name, entry := range c.DeployedPredicateTable {
		check("deployedPredicateTable."+name, entry.DeployedAddress)
	}
	return errors.Join(issues...)
}

// Registry builds the claim registry of the known predicates listed in the
// deployed predicate table. Other predicates are interpreted as opaque.
func (c *Config) Registry() (*claim.Registry, error) {
	predicates := map[claim.Kind]geth.Address{}
	for name, entry := range c.DeployedPredicateTable {
		if kind, found := predicateKinds[name]; found {
			predicates[kind] = entry.DeployedAddress
		}
	}
	return claim.NewRegistry(predicates)
}
