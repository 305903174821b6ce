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
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	geth "github.com/ethereum/go-ethereum/common"
)

// ExitFinalizationError reports that the settlement layer rejected an exit
// payout, e.g. because the dispute period has not passed, the deposited range
// was already paid out, or the exit property does not match the checkpointed
// claim. Reason holds the revert reason reported by the contract.
type ExitFinalizationError struct {
	DepositedRangeId uint256.Int
	// TxHash is the hash of the reverted transaction, zero if the call was
	// rejected before submission.
	TxHash geth.Hash
	Reason string
	Err    error
}

func (e *ExitFinalizationError) Error() string {
	if e.TxHash == (geth.Hash{}) {
		return fmt.Sprintf("exit finalization of deposited range %s rejected: %s", e.DepositedRangeId.Dec(), e.Reason)
	}
	return fmt.Sprintf("exit finalization of deposited range %s reverted in %s: %s", e.DepositedRangeId.Dec(), e.TxHash.Hex(), e.Reason)
}

func (e *ExitFinalizationError) Unwrap() error {
	return e.Err
}

// IsExitFinalization checks whether err is an ExitFinalizationError and
// returns it.
func IsExitFinalization(err error) (*ExitFinalizationError, bool) {
	var e *ExitFinalizationError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
