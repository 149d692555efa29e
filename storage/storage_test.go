// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/state"
	"github.com/bedrock-xrpl/bedrock/state/statetest"
)

func TestMissingKeyReadsAsZero(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	account := codec.CreateAddress(1, ids.GenerateTestID())
	db := state.MutableStorage{}

	v32, exists, err := GetUint32(ctx, db, account, "counter")
	require.NoError(err)
	require.False(exists)
	require.Zero(v32)

	v64, exists, err := GetUint64(ctx, db, account, "vault_total")
	require.NoError(err)
	require.False(exists)
	require.Zero(v64)
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	account := codec.CreateAddress(1, ids.GenerateTestID())
	db := state.MutableStorage{}

	require.NoError(SetUint32(ctx, db, account, "counter", 7))
	require.NoError(SetUint64(ctx, db, account, "vault_total", 1<<40))

	v32, exists, err := GetUint32(ctx, db, account, "counter")
	require.NoError(err)
	require.True(exists)
	require.Equal(uint32(7), v32)

	v64, exists, err := GetUint64(ctx, db, account, "vault_total")
	require.NoError(err)
	require.True(exists)
	require.Equal(uint64(1<<40), v64)
}

func TestAccountsAreIsolated(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	alice := codec.CreateAddress(1, ids.GenerateTestID())
	bob := codec.CreateAddress(1, ids.GenerateTestID())
	db := state.MutableStorage{}

	require.NoError(SetUint32(ctx, db, alice, "counter", 3))

	v, exists, err := GetUint32(ctx, db, bob, "counter")
	require.NoError(err)
	require.False(exists)
	require.Zero(v)
	require.NotEqual(StateKey(alice, "counter"), StateKey(bob, "counter"))
}

func TestTypeMismatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	account := codec.CreateAddress(1, ids.GenerateTestID())
	db := state.MutableStorage{}

	require.NoError(SetUint64(ctx, db, account, "vault_members", 1))
	_, _, err := GetUint32(ctx, db, account, "vault_members")
	require.ErrorIs(err, ErrCorruptValue)
	require.ErrorIs(err, codec.ErrTypeMismatch)
}

func TestInvalidKey(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	account := codec.CreateAddress(1, ids.GenerateTestID())
	db := state.MutableStorage{}

	require.ErrorIs(SetUint32(ctx, db, account, "", 1), ErrInvalidKey)
	_, _, err := GetUint64(ctx, db, account, strings.Repeat("k", MaxKeyLen+1))
	require.ErrorIs(err, ErrInvalidKey)
}

func TestStorageErrorsPropagate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	account := codec.CreateAddress(1, ids.GenerateTestID())
	errHost := errors.New("host write failure")

	ctrl := gomock.NewController(t)
	mu := statetest.NewMockMutable(ctrl)
	mu.EXPECT().GetValue(gomock.Any(), StateKey(account, "counter")).Return(nil, errHost)
	mu.EXPECT().Insert(gomock.Any(), StateKey(account, "counter"), codec.EncodeUint32(1)).Return(errHost)

	_, _, err := GetUint32(ctx, mu, account, "counter")
	require.ErrorIs(err, errHost)
	require.ErrorIs(SetUint32(ctx, mu, account, "counter", 1), errHost)
}
