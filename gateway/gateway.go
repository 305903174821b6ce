// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package gateway submits finalized exits to the payout contract of the
// settlement layer.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/0xsoniclabs/plasma/common/future"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	geth "github.com/ethereum/go-ethereum/common"
)

const defaultPollInterval = 2 * time.Second

// Config configures a Gateway. Contract addresses are resolved by the caller,
// usually from the deployment configuration.
type Config struct {
	// PayoutContract is the address of the OwnershipPayout contract.
	PayoutContract geth.Address
	// From is the account sending finalizeExit transactions.
	From   geth.Address
	Signer SignerFn
	// PollInterval is the delay between receipt queries, defaults to 2s.
	PollInterval time.Duration
	// GasLimit overrides gas estimation if non-zero.
	GasLimit uint64
}

// Gateway is a typed wrapper of the finalizeExit call of the payout contract.
// It holds no per-exit state: it neither deduplicates nor retries requests.
// It is safe for concurrent use.
type Gateway struct {
	backend Backend
	config  Config
	logger  *zap.SugaredLogger
	metrics *Metrics
}

// New creates a gateway. Logger and metrics are optional.
func New(backend Backend, config Config, logger *zap.SugaredLogger, metrics *Metrics) (*Gateway, error) {
	if backend == nil {
		return nil, fmt.Errorf("no backend provided")
	}
	if config.PayoutContract == (geth.Address{}) {
		return nil, fmt.Errorf("payout contract address not set")
	}
	if config.Signer == nil {
		return nil, fmt.Errorf("no signer provided")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Gateway{
		backend: backend,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// FinalizeExit asks the payout contract to release the funds of the given
// exit to its owner. The returned future resolves with the receipt of the
// confirmed transaction, an *ExitFinalizationError if the settlement layer
// rejects the payout, or ctx.Err() if ctx is done before confirmation. An
// abandoned call is not retried; the transaction may still be mined.
func (g *Gateway) FinalizeExit(ctx context.Context, req ExitPayoutRequest) future.Future[future.Result[*types.Receipt]] {
	promise, res := future.Create[future.Result[*types.Receipt]]()
	go func() {
		start := time.Now()
		receipt, err := g.finalizeExit(ctx, req)
		g.metrics.observe(start, err)
		if err != nil {
			g.logger.Warnw("exit finalization failed", "rangeId", req.DepositedRangeId.Dec(), "error", err)
			promise.Fulfill(future.Err[*types.Receipt](err))
			return
		}
		g.logger.Infow("exit finalized", "rangeId", req.DepositedRangeId.Dec(), "tx", receipt.TxHash.Hex(), "block", receipt.BlockNumber)
		for _, event := range ReceiptEvents(receipt) {
			g.logger.Debugw("payout event", "name", event.Name, "block", event.MainchainBlockNumber)
		}
		promise.Fulfill(future.Ok(receipt))
	}()
	return res
}

func (g *Gateway) finalizeExit(ctx context.Context, req ExitPayoutRequest) (*types.Receipt, error) {
	data, err := PackFinalizeExit(req)
	if err != nil {
		return nil, fmt.Errorf("packing finalizeExit call: %w", err)
	}
	call := ethereum.CallMsg{
		From: g.config.From,
		To:   &g.config.PayoutContract,
		Data: data,
	}

	// Simulate first to surface revert reasons, which receipts do not carry.
	if _, err := g.backend.CallContract(ctx, call, nil); err != nil {
		return nil, rejection(req, err, "simulating finalizeExit")
	}
	gas := g.config.GasLimit
	if gas == 0 {
		if gas, err = g.backend.EstimateGas(ctx, call); err != nil {
			return nil, rejection(req, err, "estimating gas")
		}
	}
	nonce, err := g.backend.PendingNonceAt(ctx, g.config.From)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}
	gasPrice, err := g.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	tx, err := g.config.Signer(g.config.From, types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &g.config.PayoutContract,
		Data:     data,
	}))
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	if err := g.backend.SendTransaction(ctx, tx); err != nil {
		return nil, rejection(req, err, "sending transaction")
	}
	g.metrics.incSubmitted()
	g.logger.Infow("submitted exit finalization", "rangeId", req.DepositedRangeId.Dec(), "tx", tx.Hash().Hex(), "nonce", nonce)

	receipt, err := g.waitMined(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, g.failedReceipt(ctx, req, call, receipt)
	}
	return receipt, nil
}

// failedReceipt replays a reverted transaction in the block it was mined in
// to recover the revert reason, which receipts do not carry.
func (g *Gateway) failedReceipt(ctx context.Context, req ExitPayoutRequest, call ethereum.CallMsg, receipt *types.Receipt) error {
	res := &ExitFinalizationError{
		DepositedRangeId: req.DepositedRangeId,
		TxHash:           receipt.TxHash,
		Reason:           "transaction reverted",
	}
	_, err := g.backend.CallContract(ctx, call, receipt.BlockNumber)
	if err == nil {
		return res
	}
	if reason, reverted := revertReason(err); reverted {
		res.Reason = reason
		res.Err = err
	} else {
		g.logger.Warnw("replaying reverted exit finalization failed", "tx", receipt.TxHash.Hex(), "err", err)
	}
	return res
}

func (g *Gateway) waitMined(ctx context.Context, hash geth.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(g.config.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := g.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("getting receipt of %s: %w", hash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// rejection converts reverts reported by the backend into an
// ExitFinalizationError, other failures are wrapped as they are.
func rejection(req ExitPayoutRequest, err error, step string) error {
	reason, reverted := revertReason(err)
	if !reverted {
		return fmt.Errorf("%s: %w", step, err)
	}
	return &ExitFinalizationError{
		DepositedRangeId: req.DepositedRangeId,
		Reason:           reason,
		Err:              err,
	}
}

// revertReason extracts the reason of a reverted call. Nodes report reverts
// as JSON-RPC errors carrying the ABI encoded Error(string) as data.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decodeErr := hexutil.Decode(data); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason, true
				}
			}
		}
		return dataErr.Error(), true
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return err.Error(), true
	}
	return "", false
}
