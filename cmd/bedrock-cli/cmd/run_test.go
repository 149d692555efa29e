// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/contracts/counter"
	"github.com/bedrock-xrpl/bedrock/contracts/vault"
	"github.com/bedrock-xrpl/bedrock/runtime"
	"github.com/bedrock-xrpl/bedrock/state"
	"github.com/bedrock-xrpl/bedrock/trace"
)

func newTestRuntime(t *testing.T) *runtime.Runtime {
	require := require.New(t)
	rt, err := runtime.New(
		logging.NoLog{},
		runtime.NewConfig(),
		trace.Noop("test"),
		prometheus.NewRegistry(),
		state.NewDatabase(memdb.New()),
	)
	require.NoError(err)
	require.NoError(rt.Register(counter.Name, counter.New(logging.NoLog{}).Exports()))
	require.NoError(rt.Register(vault.Name, vault.New(logging.NoLog{}, vault.NewConfig()).Exports()))
	return rt
}

func readResponses(t *testing.T, out *bytes.Buffer) []Response {
	var responses []Response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var resp Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func runPlan(t *testing.T, rt *runtime.Runtime, plan string) ([]Response, error) {
	p, err := unmarshalPlan([]byte(plan))
	require.NoError(t, err)
	require.NoError(t, p.Verify())

	var out bytes.Buffer
	err = newRunner(logging.NoLog{}, rt, p).Run(context.Background(), &out)
	return readResponses(t, &out), err
}

const vaultPlan = `
name: vault
steps:
  - {description: deploy, endpoint: deploy, contract: vault}
  - description: lender a deposits
    endpoint: execute
    contract: step_0
    method: deposit
    params: [{type: u32, value: 500}, {type: u32, value: 0xAAAA}]
  - description: lender b deposits
    endpoint: execute
    contract: step_0
    method: deposit
    params: [{type: u32, value: 300}, {type: u32, value: 0xBBBB}]
  - description: lender a deposits again
    endpoint: execute
    contract: step_0
    method: deposit
    params: [{type: u32, value: 200}, {type: u32, value: 0xAAAA}]
  - description: lender b leaves
    endpoint: execute
    contract: step_0
    method: withdraw
    params: [{type: u32, value: 300}, {type: u32, value: 0xBBBB}]
    require: {result: {operator: "==", value: "700"}}
  - description: total
    endpoint: readonly
    contract: step_0
    method: get_vault_total
    require: {result: {operator: "==", value: "700"}}
  - description: members
    endpoint: readonly
    contract: step_0
    method: get_member_count
    require: {result: {operator: "==", value: "1"}}
`

func TestRunVaultPlan(t *testing.T) {
	require := require.New(t)

	responses, err := runPlan(t, newTestRuntime(t), vaultPlan)
	require.NoError(err)
	require.Len(responses, 7)
	require.NotEmpty(responses[0].Result.Address)
	require.Equal(int32(500), *responses[1].Result.Value)
	require.Equal(int32(1000), *responses[3].Result.Value)
	require.Equal([]string{"Withdrawal recorded"}, responses[4].Result.Traces)
	for _, resp := range responses {
		require.Empty(resp.Error)
	}
}

func TestRunReadOnlyDiscardsWrites(t *testing.T) {
	require := require.New(t)

	_, err := runPlan(t, newTestRuntime(t), `{
  "steps": [
    {"endpoint": "deploy", "contract": "counter"},
    {"endpoint": "readonly", "contract": "step_0", "method": "increment",
     "require": {"result": {"operator": "==", "value": "1"}}},
    {"endpoint": "readonly", "contract": "step_0", "method": "get_count",
     "require": {"result": {"operator": "==", "value": "0"}}}
  ]
}`)
	require.NoError(err)
}

func TestRunAddressParam(t *testing.T) {
	require := require.New(t)
	rt := newTestRuntime(t)

	responses, err := runPlan(t, rt, `{
  "steps": [
    {"endpoint": "deploy", "contract": "vault"},
    {"endpoint": "deploy", "contract": "counter"},
    {"endpoint": "execute", "contract": "step_0", "method": "deposit",
     "params": [{"type": "u32", "value": 25}, {"type": "address", "value": "step_1"}]}
  ]
}`)
	require.NoError(err)

	lender, err := codec.ParseAddress(responses[1].Result.Address)
	require.NoError(err)
	vaultAddr, err := codec.ParseAddress(responses[0].Result.Address)
	require.NoError(err)
	result, err := rt.Call(context.Background(), &runtime.CallInfo{
		Contract: vaultAddr,
		Function: "get_lender_balance",
		Params:   []uint32{vault.AddressHash(lender)},
	})
	require.NoError(err)
	require.Equal(int32(25), result.Value)
}

func TestRunFailedAssertionStops(t *testing.T) {
	require := require.New(t)

	responses, err := runPlan(t, newTestRuntime(t), `{
  "steps": [
    {"endpoint": "deploy", "contract": "counter"},
    {"endpoint": "execute", "contract": "step_0", "method": "decrement",
     "require": {"result": {"operator": ">", "value": "0"}}},
    {"endpoint": "execute", "contract": "step_0", "method": "increment"}
  ]
}`)
	require.ErrorIs(err, ErrAssertionFailed)
	require.Len(responses, 2)
}

func TestRunStepErrors(t *testing.T) {
	require := require.New(t)

	responses, err := runPlan(t, newTestRuntime(t), `{
  "steps": [
    {"endpoint": "execute", "contract": "step_3", "method": "increment"},
    {"endpoint": "deploy", "contract": "counter"},
    {"endpoint": "deploy", "contract": "counter"},
    {"endpoint": "execute", "contract": "step_1", "method": "explode"}
  ]
}`)
	require.NoError(err)
	require.Len(responses, 4)
	require.Contains(responses[0].Error, ErrUnknownStep.Error())
	require.Empty(responses[1].Error)
	require.Contains(responses[2].Error, runtime.ErrAccountExists.Error())
	require.Contains(responses[3].Error, "unknown function")
}

func TestInterpreter(t *testing.T) {
	require := require.New(t)
	rt := newTestRuntime(t)
	i := &interpreter{
		rt: rt,
		deploy: func(ctx context.Context, name string, seed string) (codec.Address, error) {
			return rt.Deploy(ctx, name, []byte(seed))
		},
	}

	script := strings.Join([]string{
		"# counter session",
		"deploy counter",
		"deploy counter 'second instance'",
		"call $0 set_count 41",
		"call $0 increment",
		"call $1 get_count",
		"call $7 get_count",
		"launch rockets",
		"exit",
		"call $0 increment",
	}, "\n")
	var out bytes.Buffer
	require.NoError(i.Run(context.Background(), strings.NewReader(script), &out))

	responses := readResponses(t, &out)
	require.Len(responses, 7)
	require.Equal(int32(41), *responses[2].Result.Value)
	require.Equal(int32(42), *responses[3].Result.Value)
	require.Equal(int32(0), *responses[4].Result.Value)
	require.Contains(responses[5].Error, ErrUnknownStep.Error())
	require.Contains(responses[6].Error, ErrUnknownCommand.Error())
}

func TestInterpreterParseError(t *testing.T) {
	require := require.New(t)
	rt := newTestRuntime(t)
	i := &interpreter{
		rt: rt,
		deploy: func(ctx context.Context, name string, seed string) (codec.Address, error) {
			return rt.Deploy(ctx, name, []byte(seed))
		},
	}

	script := strings.Join([]string{
		"deploy counter",
		"call $0 set_count '5",
		"call $0 get_count",
	}, "\n")
	var out bytes.Buffer
	require.NoError(i.Run(context.Background(), strings.NewReader(script), &out))

	// the parse error is reported on the session output and the session goes on
	responses := readResponses(t, &out)
	require.Len(responses, 3)
	require.Equal(1, responses[1].ID)
	require.NotEmpty(responses[1].Error)
	require.Equal(int32(0), *responses[2].Result.Value)
}
