// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/utils"
)

func newDeployCmd(c *CLI) *cobra.Command {
	var (
		seed string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "deploy <counter|vault>",
		Short: "Deploy a new contract instance and print its address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := c.deploy(c.context(cmd), args[0], seed)
			if err != nil {
				return err
			}
			if len(out) > 0 {
				if err := utils.SaveBytes(out, addr[:]); err != nil {
					return err
				}
			}
			resp := newResponse(0)
			resp.Result.Address = addr.String()
			return resp.Print(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "creation data; instances of one contract need distinct seeds")
	cmd.Flags().StringVar(&out, "out", "", "file to save the raw address to")
	return cmd
}

func (c *CLI) deploy(ctx context.Context, contractName string, seed string) (codec.Address, error) {
	addr, err := c.rt.Deploy(ctx, contractName, []byte(seed))
	if err != nil {
		return codec.EmptyAddress, err
	}
	c.log.Debug("deploy",
		zap.String("contract", contractName),
		zap.String("seed", seed),
		zap.Stringer("address", addr),
	)
	return addr, nil
}

// parseAccount accepts a hex address or @file naming a file written by
// deploy --out.
func parseAccount(s string) (codec.Address, error) {
	if filename, ok := strings.CutPrefix(s, "@"); ok {
		b, err := utils.LoadBytes(filename, codec.AddressLen)
		if err != nil {
			return codec.EmptyAddress, err
		}
		return codec.Address(b), nil
	}
	return codec.ParseAddress(s)
}
