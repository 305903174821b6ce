// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package verifier

import (
	"sync"
	"testing"

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	geth "github.com/ethereum/go-ethereum/common"
)

var (
	depositContract = geth.HexToAddress("0xd0")
	otherContract   = geth.HexToAddress("0xd1")
)

func newStateUpdate() claim.StateUpdate {
	return claim.StateUpdate{
		DepositContractAddress: depositContract,
		Range:                  ranges.Must(10, 20),
		BlockNumber:            *uint256.NewInt(100),
	}
}

func newTransaction(r ranges.Range, maxBlock uint64) claim.Transaction {
	return claim.Transaction{
		DepositContractAddress: depositContract,
		Range:                  r,
		MaxBlockNumber:         *uint256.NewInt(maxBlock),
	}
}

func TestVerify_RangeContainment(t *testing.T) {
	su := newStateUpdate()
	tests := map[string]struct {
		tx   claim.Transaction
		want bool
	}{
		"same range at block":     {newTransaction(ranges.Must(10, 20), 100), true},
		"covering range":          {newTransaction(ranges.Must(0, 30), 100), true},
		"strictly inside":         {newTransaction(ranges.Must(12, 18), 100), false},
		"partial overlap":         {newTransaction(ranges.Must(15, 25), 100), false},
		"disjoint":                {newTransaction(ranges.Must(20, 30), 100), false},
		"same range, block - 1":   {newTransaction(ranges.Must(10, 20), 99), false},
		"same range, later block": {newTransaction(ranges.Must(10, 20), 1000), true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, test.want, Verify(su, test.tx))
		})
	}
}

func TestVerify_IsMonotoneInMaxBlockNumber(t *testing.T) {
	su := newStateUpdate()
	tx := newTransaction(ranges.Must(10, 20), 100)
	require.True(t, Verify(su, tx))

	for _, delta := range []uint64{1, 2, 1 << 32, 1 << 63} {
		raised := tx
		raised.MaxBlockNumber.Add(&tx.MaxBlockNumber, uint256.NewInt(delta))
		require.True(t, Verify(su, raised), "delta %d", delta)
	}

	raised := tx
	raised.MaxBlockNumber.SetAllOne()
	require.True(t, Verify(su, raised))
}

func TestVerify_ComparesBlockNumbersBeyond64Bit(t *testing.T) {
	su := newStateUpdate()
	su.BlockNumber.Lsh(uint256.NewInt(1), 200)
	tx := newTransaction(ranges.Must(10, 20), 0)

	tx.MaxBlockNumber.Sub(&su.BlockNumber, uint256.NewInt(1))
	require.False(t, Verify(su, tx))

	tx.MaxBlockNumber = su.BlockNumber
	require.True(t, Verify(su, tx))
}

func TestVerify_RejectsForeignDepositContract(t *testing.T) {
	su := newStateUpdate()
	for _, r := range []ranges.Range{ranges.Must(10, 20), ranges.Must(0, 100)} {
		tx := newTransaction(r, 1000)
		tx.DepositContractAddress = otherContract
		require.False(t, Verify(su, tx))
	}
}

func TestVerify_DoesNotModifyArguments(t *testing.T) {
	su := newStateUpdate()
	tx := newTransaction(ranges.Must(0, 30), 100)
	suCopy, txCopy := su, tx
	Verify(su, tx)
	require.Equal(t, suCopy, su)
	require.Equal(t, txCopy, tx)
}

func TestVerify_IsSafeForConcurrentUse(t *testing.T) {
	su := newStateUpdate()
	valid := newTransaction(ranges.Must(10, 20), 100)
	invalid := newTransaction(ranges.Must(12, 18), 100)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.True(t, Verify(su, valid))
				require.False(t, Verify(su, invalid))
			}
		}()
	}
	wg.Wait()
}

func TestCheck_ReportsEveryViolatedCondition(t *testing.T) {
	su := newStateUpdate()
	require.NoError(t, Check(su, newTransaction(ranges.Must(10, 20), 100)))

	tx := newTransaction(ranges.Must(12, 18), 99)
	tx.DepositContractAddress = otherContract
	err := Check(su, tx)
	require.ErrorIs(t, err, ErrBlockNumberExpired)
	require.ErrorIs(t, err, ErrDepositContractMismatch)
	require.ErrorIs(t, err, ErrRangeNotCovered)

	err = Check(su, newTransaction(ranges.Must(12, 18), 100))
	require.ErrorIs(t, err, ErrRangeNotCovered)
	require.NotErrorIs(t, err, ErrBlockNumberExpired)
	require.NotErrorIs(t, err, ErrDepositContractMismatch)
}
