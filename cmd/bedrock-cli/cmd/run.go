// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/contracts/vault"
	"github.com/bedrock-xrpl/bedrock/runtime"
)

const stepPrefix = "step_"

type runCmd struct {
	log  logging.Logger
	rt   *runtime.Runtime
	plan *Plan

	// accounts created by deploy steps, keyed by step_N
	accounts map[string]codec.Address
}

func newRunCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan|->",
		Short: "Run a JSON or YAML plan of deploys and calls",
		Long: `Run a JSON or YAML plan of deploys and calls. "-" reads the plan from stdin.
Each step prints one JSON response. The run stops at the first failed
require assertion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readPlan(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(b)
			if err != nil {
				return err
			}
			if err := plan.Verify(); err != nil {
				return err
			}
			r := newRunner(c.log, c.rt, plan)
			return r.Run(c.context(cmd), cmd.OutOrStdout())
		},
	}
}

func readPlan(arg string, stdin io.Reader) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(arg)
}

func newRunner(log logging.Logger, rt *runtime.Runtime, plan *Plan) *runCmd {
	return &runCmd{
		log:      log,
		rt:       rt,
		plan:     plan,
		accounts: make(map[string]codec.Address),
	}
}

func (r *runCmd) Run(ctx context.Context, w io.Writer) error {
	r.log.Info("running plan",
		zap.String("name", r.plan.Name),
		zap.String("description", r.plan.Description),
		zap.Int("steps", len(r.plan.Steps)),
	)
	for i := range r.plan.Steps {
		step := &r.plan.Steps[i]
		r.log.Info("step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("endpoint", string(step.Endpoint)),
			zap.String("contract", step.Contract),
			zap.String("method", step.Method),
		)

		resp := newResponse(i)
		value, err := r.runStep(ctx, i, step, resp)
		if err != nil {
			resp.setError(err)
		}
		if err := resp.Print(w); err != nil {
			return err
		}
		if step.Require == nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrAssertionFailed, i, err)
		}
		ok, err := validateAssertion(value, &step.Require.Result)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: step %d: %d %s %s", ErrAssertionFailed, i, value, step.Require.Result.Operator, step.Require.Result.Value)
		}
	}
	return nil
}

// runStep returns the value of a call step. Deploy steps return 0.
func (r *runCmd) runStep(ctx context.Context, i int, step *Step, resp *Response) (int32, error) {
	if step.Endpoint == EndpointDeploy {
		addr, err := r.rt.Deploy(ctx, step.Contract, []byte(step.Seed))
		if err != nil {
			return 0, err
		}
		r.accounts[fmt.Sprintf("%s%d", stepPrefix, i)] = addr
		resp.Result.Address = addr.String()
		return 0, nil
	}

	addr, err := r.resolveAccount(step.Contract)
	if err != nil {
		return 0, err
	}
	params, err := r.createCallParams(step.Params)
	if err != nil {
		return 0, err
	}
	result, err := r.rt.Call(ctx, &runtime.CallInfo{
		Contract: addr,
		Function: step.Method,
		Params:   params,
		Units:    step.MaxUnits,
		ReadOnly: step.Endpoint == EndpointReadOnly,
	})
	if err != nil {
		return 0, err
	}
	resp.setCallResult(result)
	return result.Value, nil
}

func (r *runCmd) createCallParams(params []Parameter) ([]uint32, error) {
	out := make([]uint32, len(params))
	for i, param := range params {
		switch param.Type {
		case Uint32:
			v, err := toUint32(param.Value)
			if err != nil {
				return nil, fmt.Errorf("param %d: %w", i, err)
			}
			out[i] = v
		case Address:
			s, ok := param.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: param %d: %T", ErrFailedParamTypeCast, i, param.Value)
			}
			addr, err := r.resolveAccount(s)
			if err != nil {
				return nil, fmt.Errorf("param %d: %w", i, err)
			}
			out[i] = vault.AddressHash(addr)
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidParamType, param.Type)
		}
	}
	return out, nil
}

// resolveAccount maps step_N to the account deployed by step N. Anything
// else must be an address.
func (r *runCmd) resolveAccount(s string) (codec.Address, error) {
	if strings.HasPrefix(s, stepPrefix) {
		addr, ok := r.accounts[s]
		if !ok {
			return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownStep, s)
		}
		return addr, nil
	}
	return parseAccount(s)
}
