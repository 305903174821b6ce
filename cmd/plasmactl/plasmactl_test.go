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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/property"
	"github.com/0xsoniclabs/plasma/ranges"
	"github.com/0xsoniclabs/plasma/verifier"
	"github.com/ardanlabs/conf"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	geth "github.com/ethereum/go-ethereum/common"
)

const testConfig = `{
	"adjudicationContract": "0x0000000000000000000000000000000000000001",
	"disputeManager": "0x0000000000000000000000000000000000000002",
	"commitment": "0x0000000000000000000000000000000000000003",
	"checkpointDispute": "0x0000000000000000000000000000000000000004",
	"exitDispute": "0x0000000000000000000000000000000000000005",
	"payoutContracts": {
		"OwnershipPayout": "0x0000000000000000000000000000000000000006",
		"DepositContract": "0x0000000000000000000000000000000000000007"
	},
	"deployedPredicateTable": {
		"OwnershipPredicate": {"deployedAddress": "0x000000000000000000000000000000000000000a"},
		"StateUpdatePredicate": {"deployedAddress": "0x000000000000000000000000000000000000000b"},
		"TransactionPredicate": {"deployedAddress": "0x000000000000000000000000000000000000000c"},
		"ExitPredicate": {"deployedAddress": "0x000000000000000000000000000000000000000d"}
	}
}`

var (
	deposit = geth.HexToAddress("0x07")
	owner   = geth.HexToAddress("0x0123")
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0600))
	return path
}

func run(args ...string) error {
	app := &cli.App{
		Name:     "plasmactl",
		Commands: []*cli.Command{&Encode, &Decode, &Verify},
	}
	return app.Run(append([]string{"plasmactl"}, args...))
}

func encodeHex(t *testing.T, c claim.Claim) string {
	t.Helper()
	p, err := c.Property()
	require.NoError(t, err)
	data, err := property.Encode(p)
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func stateUpdate(t *testing.T, depositContract geth.Address) claim.StateUpdate {
	t.Helper()
	object, err := claim.Ownership{Predicate: geth.HexToAddress("0x0a"), Owner: owner}.Property()
	require.NoError(t, err)
	return claim.StateUpdate{
		Predicate:              geth.HexToAddress("0x0b"),
		DepositContractAddress: depositContract,
		Range:                  ranges.Must(10, 20),
		BlockNumber:            *uint256.NewInt(5),
		StateObject:            object,
	}
}

func transaction(t *testing.T, r ranges.Range) claim.Transaction {
	t.Helper()
	return claim.Transaction{
		Predicate:              geth.HexToAddress("0x0c"),
		DepositContractAddress: deposit,
		Range:                  r,
		MaxBlockNumber:         *uint256.NewInt(5),
		NextStateObject:        property.New(geth.HexToAddress("0x0a"), owner.Bytes()),
	}
}

func TestEncode_AcceptsHexInputs(t *testing.T) {
	require.NoError(t, run("encode", "--predicate", "0x00000000000000000000000000000000000000aa", "--input", "0xab", "--input", "0x"))
}

func TestEncode_RejectsInvalidArguments(t *testing.T) {
	require.Error(t, run("encode", "--predicate", "0x1234", "--input", "0xab"))
	require.Error(t, run("encode", "--predicate", "0x00000000000000000000000000000000000000aa", "--input", "zz"))
}

func TestDecode_InterpretsPropertyWithConfig(t *testing.T) {
	encoded := encodeHex(t, stateUpdate(t, deposit))
	require.NoError(t, run("decode", encoded))
	require.NoError(t, run("decode", "--config", writeConfig(t), encoded))
}

func TestDecode_RejectsMalformedProperty(t *testing.T) {
	require.Error(t, run("decode"))
	require.Error(t, run("decode", "0x1234"))
	require.ErrorIs(t, run("decode", hexutil.Encode(make([]byte, 96))), property.ErrMalformedProperty)
}

func TestVerify_AcceptsCoveringTransaction(t *testing.T) {
	config := writeConfig(t)
	su := encodeHex(t, stateUpdate(t, deposit))
	tx := encodeHex(t, transaction(t, ranges.Must(0, 30)))
	require.NoError(t, run("verify", "--config", config, su, tx))
}

func TestVerify_ReportsViolations(t *testing.T) {
	config := writeConfig(t)
	su := encodeHex(t, stateUpdate(t, deposit))
	tx := encodeHex(t, transaction(t, ranges.Must(15, 30)))
	require.ErrorIs(t, run("verify", "--config", config, su, tx), verifier.ErrRangeNotCovered)
}

func TestVerify_RejectsClaimsOfWrongKind(t *testing.T) {
	config := writeConfig(t)
	su := encodeHex(t, stateUpdate(t, deposit))
	require.ErrorIs(t, run("verify", "--config", config, su, su), claim.ErrMalformedClaim)
	require.Error(t, run("verify", "--config", config, su))
}

func exitSettings(t *testing.T, exit claim.Exit) finalizeSettings {
	t.Helper()
	var settings finalizeSettings
	settings.Exit.Config = writeConfig(t)
	settings.Exit.Property = encodeHex(t, exit)
	settings.Exit.DepositedRangeId = "42"
	settings.Exit.Owner = owner.Hex()
	return settings
}

func TestBuildRequest_UsesDeploymentContracts(t *testing.T) {
	exit := claim.Exit{Predicate: geth.HexToAddress("0x0d"), StateUpdate: stateUpdate(t, deposit)}
	req, payout, err := buildRequest(exitSettings(t, exit))
	require.NoError(t, err)
	require.Equal(t, geth.HexToAddress("0x06"), payout)
	require.Equal(t, deposit, req.DepositContractAddress)
	require.Equal(t, owner, req.Owner)
	require.Equal(t, uint64(42), req.DepositedRangeId.Uint64())

	want, err := exit.Property()
	require.NoError(t, err)
	require.True(t, want.Equal(req.ExitProperty))
}

func TestBuildRequest_RejectsExitOfOtherDepositContract(t *testing.T) {
	exit := claim.Exit{Predicate: geth.HexToAddress("0x0d"), StateUpdate: stateUpdate(t, geth.HexToAddress("0x08"))}
	_, _, err := buildRequest(exitSettings(t, exit))
	require.ErrorContains(t, err, "deposit contract")

	settings := exitSettings(t, exit)
	settings.Exit.DepositContract = geth.HexToAddress("0x08").Hex()
	req, _, err := buildRequest(settings)
	require.NoError(t, err)
	require.Equal(t, geth.HexToAddress("0x08"), req.DepositContractAddress)
}

func TestBuildRequest_RejectsInvalidSettings(t *testing.T) {
	exit := claim.Exit{Predicate: geth.HexToAddress("0x0d"), StateUpdate: stateUpdate(t, deposit)}

	settings := exitSettings(t, exit)
	settings.Exit.DepositedRangeId = "-1"
	_, _, err := buildRequest(settings)
	require.Error(t, err)

	settings = exitSettings(t, exit)
	settings.Exit.Owner = "0x12"
	_, _, err = buildRequest(settings)
	require.Error(t, err)

	settings = exitSettings(t, exit)
	settings.Exit.Property = "0x1234"
	_, _, err = buildRequest(settings)
	require.ErrorIs(t, err, property.ErrMalformedProperty)
}

func TestFinalizeSettings_AppliesDefaultsAndEnvironment(t *testing.T) {
	t.Setenv("PLASMA_CLIENT_PRIVATE_KEY", "0x01")
	t.Setenv("PLASMA_EXIT_OWNER", owner.Hex())

	var settings finalizeSettings
	err := conf.Parse([]string{
		"--exit-property=0x1234",
		"--exit-deposited-range-id=42",
		"--client-poll-interval=5s",
	}, envPrefix, &settings)
	require.NoError(t, err)

	require.Equal(t, "0x01", settings.Client.PrivateKey)
	require.Equal(t, owner.Hex(), settings.Exit.Owner)
	require.Equal(t, "0x1234", settings.Exit.Property)
	require.Equal(t, "42", settings.Exit.DepositedRangeId)
	require.Equal(t, 5*time.Second, settings.Client.PollInterval)

	require.Equal(t, "http://localhost:8545", settings.Client.RPCEndpoint)
	require.Equal(t, 10*time.Minute, settings.Client.Timeout)
	require.Equal(t, uint64(0), settings.Client.GasLimit)
	require.Equal(t, "plasmactl", settings.Client.Namespace)
	require.Equal(t, "config.json", settings.Exit.Config)
	require.Empty(t, settings.Exit.DepositContract)
}

func TestFinalizeSettings_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PLASMA_CLIENT_PRIVATE_KEY", "0x01")
	t.Setenv("PLASMA_CLIENT_RPC_ENDPOINT", "http://env:8545")

	var settings finalizeSettings
	err := conf.Parse([]string{
		"--client-rpc-endpoint=http://flag:8545",
		"--exit-property=0x1234",
		"--exit-deposited-range-id=42",
		"--exit-owner=" + owner.Hex(),
	}, envPrefix, &settings)
	require.NoError(t, err)
	require.Equal(t, "http://flag:8545", settings.Client.RPCEndpoint)
}

func TestFinalizeSettings_RequiresKeyAndExit(t *testing.T) {
	t.Setenv("PLASMA_CLIENT_PRIVATE_KEY", "0x01")

	var settings finalizeSettings
	err := conf.Parse([]string{
		"--exit-property=0x1234",
		"--exit-owner=" + owner.Hex(),
	}, envPrefix, &settings)
	require.ErrorContains(t, err, "required")

	settings = finalizeSettings{}
	err = conf.Parse([]string{
		"--client-private-key=0x01",
		"--exit-deposited-range-id=42",
		"--exit-owner=" + owner.Hex(),
	}, envPrefix, &settings)
	require.ErrorContains(t, err, "required")
}
