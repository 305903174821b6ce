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
	"fmt"

	"github.com/0xsoniclabs/plasma/verifier"
	"github.com/urfave/cli/v2"
)

var Verify = cli.Command{
	Action:    verify,
	Name:      "verify",
	Usage:     "checks whether a transaction is a valid spend of a state update",
	ArgsUsage: "<state update> <transaction>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     configFlag.Name,
			Usage:    configFlag.Usage,
			Required: true,
		},
	},
}

func verify(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected state update and transaction arguments")
	}
	registry, err := loadRegistry(context.String(configFlag.Name))
	if err != nil {
		return err
	}

	p, err := parseProperty(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("state update: %w", err)
	}
	su, err := registry.AsStateUpdate(p)
	if err != nil {
		return fmt.Errorf("state update: %w", err)
	}
	p, err = parseProperty(context.Args().Get(1))
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	tx, err := registry.AsTransaction(p)
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}

	if err := verifier.Check(su, tx); err != nil {
		return fmt.Errorf("invalid transaction:\n%w", err)
	}
	fmt.Println("valid")
	return nil
}
