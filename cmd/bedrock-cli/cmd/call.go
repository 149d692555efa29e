// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bedrock-xrpl/bedrock/runtime"
)

func newCallCmd(c *CLI) *cobra.Command {
	var (
		units    uint64
		readOnly bool
	)
	cmd := &cobra.Command{
		Use:   "call <address> <function> [params...]",
		Short: "Call a contract entry point",
		Long: `Call a contract entry point. Params are u32 values in decimal or 0x hex.
An account address passed as a param is replaced by its address hash.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			callInfo, err := newCallInfo(args[0], args[1], args[2:])
			if err != nil {
				return err
			}
			callInfo.Units = units
			callInfo.ReadOnly = readOnly
			result, err := c.rt.Call(c.context(cmd), callInfo)
			if err != nil {
				return err
			}
			resp := newResponse(0)
			resp.setCallResult(result)
			return resp.Print(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Uint64Var(&units, "units", 0, "unit budget (0 uses the configured maximum)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "discard what the call writes")
	return cmd
}

func newCallInfo(account string, function string, rawParams []string) (*runtime.CallInfo, error) {
	addr, err := parseAccount(account)
	if err != nil {
		return nil, err
	}
	params := make([]uint32, len(rawParams))
	for i, raw := range rawParams {
		params[i], err = parseCallArg(raw)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
	}
	return &runtime.CallInfo{
		Contract: addr,
		Function: function,
		Params:   params,
	}, nil
}
