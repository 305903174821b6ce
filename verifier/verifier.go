// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package verifier decides whether a transaction is a valid state transition
// for the state update it spends.
package verifier

import (
	"errors"
	"fmt"

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/common"
	"github.com/0xsoniclabs/plasma/ranges"
)

const (
	ErrBlockNumberExpired      = common.ConstError("transaction expired before state update")
	ErrDepositContractMismatch = common.ConstError("deposit contract mismatch")
	ErrRangeNotCovered         = common.ConstError("transaction range does not cover state update range")
)

// Verify reports whether tx may spend su. It holds iff
//   - tx.MaxBlockNumber >= su.BlockNumber,
//   - both refer to the same deposit contract, and
//   - the range claimed by tx covers the range of su.
//
// Verify is pure and safe for concurrent use. Inputs are expected to be
// decoded claims; structural checks happen at decode time.
func Verify(su claim.StateUpdate, tx claim.Transaction) bool {
	return Check(su, tx) == nil
}

// Check evaluates the same conditions as Verify and returns the violated
// ones, joined, or nil if tx is a valid spend of su.
func Check(su claim.StateUpdate, tx claim.Transaction) error {
	var issues []error
	if tx.MaxBlockNumber.Lt(&su.BlockNumber) {
		issues = append(issues, fmt.Errorf("%w: max block %s < block %s",
			ErrBlockNumberExpired, tx.MaxBlockNumber.Dec(), su.BlockNumber.Dec()))
	}
	if su.DepositContractAddress != tx.DepositContractAddress {
		issues = append(issues, fmt.Errorf("%w: state update of %s, transaction for %s",
			ErrDepositContractMismatch, su.DepositContractAddress, tx.DepositContractAddress))
	}
	if !ranges.Contains(tx.Range, su.Range) {
		issues = append(issues, fmt.Errorf("%w: %v does not cover %v", ErrRangeNotCovered, tx.Range, su.Range))
	}
	return errors.Join(issues...)
}
