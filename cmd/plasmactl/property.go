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

	"github.com/0xsoniclabs/plasma/claim"
	"github.com/0xsoniclabs/plasma/config"
	"github.com/0xsoniclabs/plasma/property"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	geth "github.com/ethereum/go-ethereum/common"
)

var configFlag = cli.StringFlag{
	Name:  "config",
	Usage: "deployment configuration file with contract addresses",
}

var Encode = cli.Command{
	Action: encode,
	Name:   "encode",
	Usage:  "encodes a property from its predicate and hex encoded inputs",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "predicate",
			Usage:    "address of the predicate",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "input",
			Usage: "hex encoded input, may be repeated",
		},
	},
}

var Decode = cli.Command{
	Action:    decode,
	Name:      "decode",
	Usage:     "decodes a hex encoded property",
	ArgsUsage: "<property>",
	Flags:     []cli.Flag{&configFlag},
}

func encode(context *cli.Context) error {
	predicate := context.String("predicate")
	if !geth.IsHexAddress(predicate) {
		return fmt.Errorf("invalid predicate address %q", predicate)
	}
	var inputs [][]byte
	for _, input := range context.StringSlice("input") {
		data, err := hexutil.Decode(input)
		if err != nil {
			return fmt.Errorf("invalid input %q: %w", input, err)
		}
		inputs = append(inputs, data)
	}
	data, err := property.Encode(property.New(geth.HexToAddress(predicate), inputs...))
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(data))
	return nil
}

func decode(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing property argument")
	}
	p, err := parseProperty(context.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Printf("predicate: %s\n", p.PredicateAddress.Hex())
	for i, input := range p.Inputs {
		fmt.Printf("input %d: %s\n", i, hexutil.Encode(input))
	}
	hash, err := property.Hash(p)
	if err != nil {
		return err
	}
	fmt.Printf("hash: %s\n", hash.Hex())

	if !context.IsSet(configFlag.Name) {
		return nil
	}
	registry, err := loadRegistry(context.String(configFlag.Name))
	if err != nil {
		return err
	}
	c, err := registry.Interpret(p)
	if err != nil {
		return err
	}
	fmt.Printf("kind: %v\n", c.Kind())
	return nil
}

func parseProperty(arg string) (property.Property, error) {
	data, err := hexutil.Decode(arg)
	if err != nil {
		return property.Property{}, fmt.Errorf("invalid hex: %w", err)
	}
	return property.Decode(data)
}

func loadRegistry(path string) (*claim.Registry, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Registry()
}
