// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/config"
	"github.com/0xsoniclabs/plasma/gateway"
	"github.com/ardanlabs/conf"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	geth "github.com/ethereum/go-ethereum/common"
)

const envPrefix = "PLASMA"

var FinalizeExit = cli.Command{
	Action:          finalizeExit,
	Name:            "finalize-exit",
	Usage:           "submits an undisputed exit to the payout contract",
	SkipFlagParsing: true,
}

type finalizeSettings struct {
	Client struct {
		RPCEndpoint  string        `conf:"default:http://localhost:8545"`
		PrivateKey   string        `conf:"required,noprint"`
		PollInterval time.Duration `conf:"default:2s"`
		Timeout      time.Duration `conf:"default:10m"`
		GasLimit     uint64        `conf:"help:gas limit of the payout transaction or zero to estimate it"`
		Namespace    string        `conf:"default:plasmactl"`
	}
	Exit struct {
		Config           string `conf:"default:config.json"`
		Property         string `conf:"required,help:hex encoded exit property"`
		DepositedRangeId string `conf:"required"`
		Owner            string `conf:"required"`
		DepositContract  string `conf:"help:deposit contract of the exit if not payoutContracts.DepositContract"`
	}
}

func finalizeExit(context *cli.Context) error {
	var settings finalizeSettings
	if err := conf.Parse(context.Args().Slice(), envPrefix, &settings); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage(envPrefix, &settings)
			if err != nil {
				return fmt.Errorf("generating settings usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("parsing settings: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logger, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() // nolint:errcheck
	log := logger.Sugar()

	out, err := conf.String(&settings)
	if err != nil {
		return fmt.Errorf("generating settings for output: %w", err)
	}
	log.Infof("settings:\n%v", out)

	req, payout, err := buildRequest(settings)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(context, settings.Client.Timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, settings.Client.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", settings.Client.RPCEndpoint, err)
	}
	defer client.Close()

	from, signer, err := newSigner(ctx, client, settings.Client.PrivateKey)
	if err != nil {
		return err
	}

	g, err := gateway.New(client, gateway.Config{
		PayoutContract: payout,
		From:           from,
		Signer:         signer,
		PollInterval:   settings.Client.PollInterval,
		GasLimit:       settings.Client.GasLimit,
	}, log, gateway.NewMetrics(settings.Client.Namespace, prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}

	receipt, err := g.FinalizeExit(ctx, req).Await().Get()
	if err != nil {
		if exitErr, ok := gateway.IsExitFinalization(err); ok {
			return fmt.Errorf("exit rejected: %s", exitErr.Reason)
		}
		return err
	}
	fmt.Printf("exit finalized in transaction %s (block %v)\n", receipt.TxHash.Hex(), receipt.BlockNumber)
	registry := gateway.EventRegistry()
	for _, event := range gateway.ReceiptEvents(receipt) {
		values, err := registry.Decode(event)
		if err != nil {
			log.Warnw("undecodable event", "name", event.Name, "err", err)
			continue
		}
		fmt.Printf("  %s %v\n", event.Name, values)
	}
	return nil
}

func buildRequest(settings finalizeSettings) (gateway.ExitPayoutRequest, geth.Address, error) {
	cfg, err := config.Load(settings.Exit.Config)
	if err != nil {
		return gateway.ExitPayoutRequest{}, geth.Address{}, err
	}
	exit, err := parseProperty(settings.Exit.Property)
	if err != nil {
		return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("exit property: %w", err)
	}
	rangeId, err := uint256.FromDecimal(settings.Exit.DepositedRangeId)
	if err != nil {
		return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("deposited range id: %w", err)
	}
	if !geth.IsHexAddress(settings.Exit.Owner) {
		return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("invalid owner address %q", settings.Exit.Owner)
	}

	deposit := cfg.PayoutContracts.DepositContract
	if settings.Exit.DepositContract != "" {
		if !geth.IsHexAddress(settings.Exit.DepositContract) {
			return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("invalid deposit contract %q", settings.Exit.DepositContract)
		}
		deposit = geth.HexToAddress(settings.Exit.DepositContract)
	}

	// Known exit claims are checked against the requested deposit contract
	// before paying gas for a call the contract would reject.
	registry, err := cfg.Registry()
	if err != nil {
		return gateway.ExitPayoutRequest{}, geth.Address{}, err
	}
	c, err := registry.Interpret(exit)
	if err != nil {
		return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("exit property: %w", err)
	}
	if e, ok := c.(claim.Exit); ok && e.StateUpdate.DepositContractAddress != deposit {
		return gateway.ExitPayoutRequest{}, geth.Address{}, fmt.Errorf("exit is for deposit contract %s, not %s", e.StateUpdate.DepositContractAddress, deposit)
	}

	return gateway.ExitPayoutRequest{
		DepositContractAddress: deposit,
		ExitProperty:           exit,
		DepositedRangeId:       *rangeId,
		Owner:                  geth.HexToAddress(settings.Exit.Owner),
	}, cfg.PayoutContracts.OwnershipPayout, nil
}

func newSigner(ctx context.Context, client *ethclient.Client, privateKey string) (geth.Address, gateway.SignerFn, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return geth.Address{}, nil, fmt.Errorf("invalid private key: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return geth.Address{}, nil, fmt.Errorf("getting chain id: %w", err)
	}
	signer := types.LatestSignerForChainID(chainID)
	from := crypto.PubkeyToAddress(key.PublicKey)
	return from, func(account geth.Address, tx *types.Transaction) (*types.Transaction, error) {
		if account != from {
			return nil, fmt.Errorf("no key for account %s", account)
		}
		return types.SignTx(tx, signer, key)
	}, nil
}

func contextWithTimeout(c *cli.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Context)
	}
	return context.WithTimeout(c.Context, timeout)
}
