// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/contract/contracttest"
	"github.com/bedrock-xrpl/bedrock/state"
	"github.com/bedrock-xrpl/bedrock/state/statetest"
	"github.com/bedrock-xrpl/bedrock/storage"
)

var errHost = errors.New("host write failure")

// failingState fails the insert whose (1-based) position is failOn.
type failingState struct {
	state.MutableStorage
	inserts int
	failOn  int
}

func (f *failingState) Insert(ctx context.Context, k []byte, v []byte) error {
	f.inserts++
	if f.inserts == f.failOn {
		return errHost
	}
	return f.MutableStorage.Insert(ctx, k, v)
}

func newVault(atomic bool) *Vault {
	return New(logging.NoLog{}, Config{AtomicWrites: atomic})
}

func read64(t *testing.T, rt contract.Runtime, key string) uint64 {
	v, err := contract.ReadUint64(context.Background(), rt, key)
	require.NoError(t, err)
	return v
}

func read32(t *testing.T, rt contract.Runtime, key string) uint32 {
	v, err := contract.ReadUint32(context.Background(), rt, key)
	require.NoError(t, err)
	return v
}

func TestVaultScenario(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	require.Equal(int32(500), v.Deposit(ctx, rt, 500, 0xAAAA))
	require.Equal("Deposit recorded", rt.LastTrace())
	require.Equal(int32(800), v.Deposit(ctx, rt, 300, 0xBBBB))
	require.Equal(int32(1000), v.Deposit(ctx, rt, 200, 0xAAAA))
	require.Equal(int32(2), v.GetMemberCount(ctx, rt))

	require.Equal(int32(700), v.GetLenderBalance(ctx, rt, 0xAAAA))
	require.Equal("Getting lender balance", rt.LastTrace())
	require.Equal(int32(300), v.GetLenderBalance(ctx, rt, 0xBBBB))

	require.Equal(int32(700), v.Withdraw(ctx, rt, 300, 0xBBBB))
	require.Equal("Withdrawal recorded", rt.LastTrace())
	require.Equal(int32(0), v.GetLenderBalance(ctx, rt, 0xBBBB))
	require.Equal(int32(1), v.GetMemberCount(ctx, rt))

	require.Equal(int32(700), v.GetVaultTotal(ctx, rt))
	require.Equal("Getting vault total", rt.LastTrace())

	// a lender that left rejoins the member count
	require.Equal(int32(750), v.Deposit(ctx, rt, 50, 0xBBBB))
	require.Equal(int32(2), v.GetMemberCount(ctx, rt))
}

func TestVaultDrainScenario(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	require.Equal(int32(500), v.Deposit(ctx, rt, 500, 0xAAAA))
	require.Equal(int32(800), v.Deposit(ctx, rt, 300, 0xBBBB))
	require.Equal(int32(300), v.Withdraw(ctx, rt, 500, 0xAAAA))
	require.Equal(int32(1), v.GetMemberCount(ctx, rt))

	require.Equal(consts.Error, v.Withdraw(ctx, rt, 1000, 0xBBBB))
	require.Equal("Insufficient lender balance", rt.LastTrace())
	require.Equal(int32(300), v.GetVaultTotal(ctx, rt))
	require.Equal(int32(300), v.GetLenderBalance(ctx, rt, 0xBBBB))
	require.Equal(int32(1), v.GetMemberCount(ctx, rt))
}

func TestVaultInvariants(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		name := "reference"
		if atomic {
			name = "atomic"
		}
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			v := newVault(atomic)
			r := rand.New(rand.NewSource(7)) //nolint:gosec

			var (
				hashes   = []uint32{0x1, 0x2, 0xAAAA, 0xBBBB, 0xDEAD, 0xBEEF, 0xFFFFFFFF, 0}
				balances = make(map[uint32]uint64)
				total    uint64
			)
			for i := 0; i < 5000; i++ {
				hash := hashes[r.Intn(len(hashes))]
				amount := uint32(r.Intn(1000) + 1)
				if r.Intn(2) == 0 {
					balances[hash] += uint64(amount)
					total += uint64(amount)
					require.Equal(Truncate(total), v.Deposit(ctx, rt, amount, hash))
					continue
				}
				if uint64(amount) > balances[hash] {
					require.Equal(consts.Error, v.Withdraw(ctx, rt, amount, hash))
					continue
				}
				balances[hash] -= uint64(amount)
				total -= uint64(amount)
				require.Equal(Truncate(total), v.Withdraw(ctx, rt, amount, hash))
			}

			var (
				sum     uint64
				members uint32
			)
			for _, hash := range hashes {
				require.Equal(balances[hash], read64(t, rt, LenderKey(hash)))
				sum += balances[hash]
				if balances[hash] > 0 {
					members++
				}
			}
			require.Equal(total, sum)
			require.Equal(total, read64(t, rt, VaultTotalKey))
			require.Equal(Truncate(total), v.GetVaultTotal(ctx, rt))
			require.Equal(members, read32(t, rt, VaultMembersKey))
		})
	}
}

func TestVaultRejections(t *testing.T) {
	tests := []struct {
		name  string
		call  func(context.Context, *Vault, contract.Runtime) int32
		trace string
	}{
		{
			name:  "deposit zero",
			call:  func(ctx context.Context, v *Vault, rt contract.Runtime) int32 { return v.Deposit(ctx, rt, 0, 0xAAAA) },
			trace: "Deposit amount must be > 0",
		},
		{
			name:  "withdraw zero",
			call:  func(ctx context.Context, v *Vault, rt contract.Runtime) int32 { return v.Withdraw(ctx, rt, 0, 0xAAAA) },
			trace: "Withdraw amount must be > 0",
		},
		{
			name:  "withdraw more than balance",
			call:  func(ctx context.Context, v *Vault, rt contract.Runtime) int32 { return v.Withdraw(ctx, rt, 101, 0xAAAA) },
			trace: "Insufficient lender balance",
		},
		{
			name:  "withdraw from unknown lender",
			call:  func(ctx context.Context, v *Vault, rt contract.Runtime) int32 { return v.Withdraw(ctx, rt, 1, 0xCCCC) },
			trace: "Insufficient lender balance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			v := newVault(false)
			require.Equal(int32(100), v.Deposit(ctx, rt, 100, 0xAAAA))

			require.Equal(consts.Error, tt.call(ctx, v, rt))
			require.Equal(tt.trace, rt.LastTrace())

			// nothing changed
			require.Equal(uint64(100), read64(t, rt, VaultTotalKey))
			require.Equal(uint64(100), read64(t, rt, LenderKey(0xAAAA)))
			require.Equal(uint32(1), read32(t, rt, VaultMembersKey))
		})
	}
}

func TestWithdrawInsufficientTotal(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	// lender balance without matching total
	require.NoError(contract.WriteUint64(ctx, rt, LenderKey(0xAAAA), 100))
	require.NoError(contract.WriteUint64(ctx, rt, VaultTotalKey, 50))

	require.Equal(consts.Error, v.Withdraw(ctx, rt, 80, 0xAAAA))
	require.Equal("Insufficient vault total", rt.LastTrace())
	require.Equal(uint64(50), read64(t, rt, VaultTotalKey))
	require.Equal(uint64(100), read64(t, rt, LenderKey(0xAAAA)))
}

func TestWithdrawMemberCountFloor(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	require.NoError(contract.WriteUint64(ctx, rt, LenderKey(0xAAAA), 10))
	require.NoError(contract.WriteUint64(ctx, rt, VaultTotalKey, 10))

	require.Equal(int32(0), v.Withdraw(ctx, rt, 10, 0xAAAA))
	require.Zero(read32(t, rt, VaultMembersKey))
	_, err := rt.State().GetValue(ctx, storage.StateKey(rt.Account, VaultMembersKey))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestDepositPartialFailure(t *testing.T) {
	tests := []struct {
		name    string
		failOn  int
		trace   string
		total   uint64
		members uint32
		balance uint64
	}{
		{
			name:   "total write fails",
			failOn: 1,
			trace:  "Failed to update vault total",
		},
		{
			name:   "member count write fails",
			failOn: 2,
			trace:  "Failed to update member count",
			total:  500,
		},
		{
			name:    "balance write fails",
			failOn:  3,
			trace:   "Failed to update lender balance",
			total:   500,
			members: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			rt.Store = &failingState{MutableStorage: state.MutableStorage{}, failOn: tt.failOn}
			v := newVault(false)

			require.Equal(consts.Error, v.Deposit(ctx, rt, 500, 0xAAAA))
			require.Equal(tt.trace, rt.LastTrace())
			require.Equal(tt.total, read64(t, rt, VaultTotalKey))
			require.Equal(tt.members, read32(t, rt, VaultMembersKey))
			require.Equal(tt.balance, read64(t, rt, LenderKey(0xAAAA)))
		})
	}
}

func TestWithdrawPartialFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)
	require.Equal(int32(500), v.Deposit(ctx, rt, 500, 0xAAAA))

	// fail the lender balance write: the total is already reduced
	store := &failingState{MutableStorage: rt.Store.(state.MutableStorage), failOn: 2}
	rt.Store = store
	require.Equal(consts.Error, v.Withdraw(ctx, rt, 500, 0xAAAA))
	require.Equal("Failed to update lender balance", rt.LastTrace())
	require.Zero(read64(t, rt, VaultTotalKey))
	require.Equal(uint64(500), read64(t, rt, LenderKey(0xAAAA)))
	require.Equal(uint32(1), read32(t, rt, VaultMembersKey))
}

func TestDepositHostErrorMock(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	mu := statetest.NewMockMutable(ctrl)
	rt := contracttest.NewRuntime()
	rt.Store = mu
	totalKey := storage.StateKey(rt.Account, VaultTotalKey)

	gomock.InOrder(
		mu.EXPECT().GetValue(gomock.Any(), totalKey).Return(codec.EncodeUint64(7), nil),
		mu.EXPECT().Insert(gomock.Any(), totalKey, codec.EncodeUint64(12)).Return(errHost),
	)
	require.Equal(consts.Error, newVault(false).Deposit(ctx, rt, 5, 0x1))
	require.Equal("Failed to update vault total", rt.LastTrace())
}

func TestDepositOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	require.NoError(contract.WriteUint64(ctx, rt, VaultTotalKey, consts.MaxUint64))
	require.Equal(consts.Error, v.Deposit(ctx, rt, 1, 0xAAAA))
	require.Equal(consts.MaxUint64, read64(t, rt, VaultTotalKey))
	require.Zero(read64(t, rt, LenderKey(0xAAAA)))
}

func TestAtomicWrites(t *testing.T) {
	tests := []struct {
		name   string
		atomic bool
		total  uint64
	}{
		{name: "reference", atomic: false, total: 500},
		{name: "atomic", atomic: true, total: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			// a corrupt lender cell fails the deposit after the total is written
			require.NoError(contract.WriteUint32(ctx, rt, LenderKey(0xAAAA), 3))

			require.Equal(consts.Error, newVault(tt.atomic).Deposit(ctx, rt, 500, 0xAAAA))
			require.Equal("Failed to read lender balance", rt.LastTrace())
			require.Equal(tt.total, read64(t, rt, VaultTotalKey))
		})
	}
}

func TestAtomicDepositHostFailure(t *testing.T) {
	for failOn := 1; failOn <= 3; failOn++ {
		t.Run(fmt.Sprintf("write %d fails", failOn), func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			rt.Store = &failingState{MutableStorage: state.MutableStorage{}, failOn: failOn}

			require.Equal(consts.Error, newVault(true).Deposit(ctx, rt, 500, 0xAAAA))
			require.Equal("Failed to persist deposit", rt.LastTrace())
			require.Zero(read64(t, rt, VaultTotalKey))
			require.Zero(read32(t, rt, VaultMembersKey))
			require.Zero(read64(t, rt, LenderKey(0xAAAA)))
		})
	}
}

func TestAtomicWithdrawHostFailure(t *testing.T) {
	for failOn := 1; failOn <= 3; failOn++ {
		t.Run(fmt.Sprintf("write %d fails", failOn), func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			rt := contracttest.NewRuntime()
			v := newVault(true)
			require.Equal(int32(500), v.Deposit(ctx, rt, 500, 0xAAAA))
			require.Equal(int32(800), v.Deposit(ctx, rt, 300, 0xBBBB))

			rt.Store = &failingState{MutableStorage: rt.Store.(state.MutableStorage), failOn: failOn}
			require.Equal(consts.Error, v.Withdraw(ctx, rt, 500, 0xAAAA))
			require.Equal("Failed to persist withdrawal", rt.LastTrace())
			require.Equal(uint64(800), read64(t, rt, VaultTotalKey))
			require.Equal(uint64(500), read64(t, rt, LenderKey(0xAAAA)))
			require.Equal(uint32(2), read32(t, rt, VaultMembersKey))
		})
	}
}

func TestAtomicWritesSuccess(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(true)

	require.Equal(int32(500), v.Deposit(ctx, rt, 500, 0xAAAA))
	require.Equal(int32(200), v.Withdraw(ctx, rt, 300, 0xAAAA))
	require.Equal(uint64(200), read64(t, rt, VaultTotalKey))
	require.Equal(uint64(200), read64(t, rt, LenderKey(0xAAAA)))
	require.Equal(uint32(1), read32(t, rt, VaultMembersKey))
}

func TestResultTruncation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := contracttest.NewRuntime()
	v := newVault(false)

	require.NoError(contract.WriteUint64(ctx, rt, VaultTotalKey, 1<<31))
	require.Equal(int32(0), v.GetVaultTotal(ctx, rt))
	require.Equal(int32(5), v.Deposit(ctx, rt, 5, 0xAAAA))
	require.Equal(uint64(1<<31+5), read64(t, rt, VaultTotalKey))

	require.Equal(int32(0x7FFFFFFF), Truncate(0xFFFFFFFF))
	require.Equal(int32(1), Truncate(1<<32+1))
}

func TestLenderKey(t *testing.T) {
	require := require.New(t)

	require.Equal("vm_0000aaaa", LenderKey(0xAAAA))
	require.Equal("vm_00000000", LenderKey(0))
	require.Equal("vm_ffffffff", LenderKey(0xFFFFFFFF))
	require.Equal("vm_12345678", LenderKey(0x12345678))
	require.Len(LenderKey(0xdeadbeef), LenderKeyLen)

	seen := make(map[string]uint32)
	for _, h := range []uint32{0, 1, 0x10, 0x100, 0xAAAA, 0xBBBB, 0x0000AAAB, 0xAAAA0000, 0xFFFFFFFF} {
		k := LenderKey(h)
		prev, ok := seen[k]
		require.False(ok, "collision between %x and %x", prev, h)
		seen[k] = h
	}
}

func TestAddressHash(t *testing.T) {
	require := require.New(t)

	a := codec.CreateAddress(0, [32]byte{1})
	b := codec.CreateAddress(0, [32]byte{2})
	require.Equal(AddressHash(a), AddressHash(a))
	require.NotEqual(AddressHash(a), AddressHash(b))
}

func TestExports(t *testing.T) {
	require := require.New(t)
	exports := newVault(false).Exports()

	require.Equal([]string{
		"deposit",
		"get_lender_balance",
		"get_member_count",
		"get_vault_total",
		"withdraw",
	}, exports.Names())
	for name, e := range exports {
		require.Equal(name, e.Name)
		require.Equal(e.ReadOnly, name != "deposit" && name != "withdraw")
	}
	require.Equal(2, exports["deposit"].Params)
	require.Equal(1, exports["get_lender_balance"].Params)
}
