// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/contract/contracttest"
	"github.com/bedrock-xrpl/bedrock/state"
)

func TestExports(t *testing.T) {
	require := require.New(t)
	exports := contract.Exports{}

	sum := contract.TwoParams(func(_ context.Context, _ contract.Runtime, a, b uint32) int32 {
		return int32(a + b)
	})
	require.NoError(exports.Add(contract.Export{Name: "sum", Params: 2, Function: sum}))
	require.NoError(exports.Add(contract.Export{Name: "zero", Function: contract.NoParams(
		func(context.Context, contract.Runtime) int32 { return 0 },
	)}))
	require.ErrorIs(exports.Add(contract.Export{Name: "sum"}), contract.ErrDuplicateExport)
	require.Equal([]string{"sum", "zero"}, exports.Names())

	export, err := exports.Get("sum")
	require.NoError(err)
	require.Equal(int32(5), export.Function(context.Background(), contracttest.NewRuntime(), []uint32{2, 3}))

	_, err = exports.Get("missing")
	require.ErrorIs(err, contract.ErrUnknownFunction)
}

func TestReadWriteHelpers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()

	v, err := contract.ReadUint32(ctx, rt, "counter")
	require.NoError(err)
	require.Zero(v)

	require.NoError(contract.WriteUint32(ctx, rt, "counter", 9))
	require.NoError(contract.WriteUint64(ctx, rt, "vault_total", 1<<33))

	v, err = contract.ReadUint32(ctx, rt, "counter")
	require.NoError(err)
	require.Equal(uint32(9), v)

	v64, err := contract.ReadUint64(ctx, rt, "vault_total")
	require.NoError(err)
	require.Equal(uint64(1<<33), v64)
}

func TestWithState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	staged := state.NewSimpleMutable(rt.State())
	srt := contract.WithState(rt, staged)

	require.Equal(rt.ContractAccount(), srt.ContractAccount())
	require.NoError(contract.WriteUint32(ctx, srt, "counter", 4))

	v, err := contract.ReadUint32(ctx, rt, "counter")
	require.NoError(err)
	require.Zero(v)

	require.NoError(staged.Flush(ctx, rt.State()))
	v, err = contract.ReadUint32(ctx, rt, "counter")
	require.NoError(err)
	require.Equal(uint32(4), v)
}
