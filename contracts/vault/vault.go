// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vault implements a pooled-funds contract. It tracks the total of
// every lender balance, the number of lenders with a nonzero balance, and a
// balance per lender keyed by a 32-bit address hash. Amounts are in cents.
//
// Values returned to the host keep only the low 31 bits of the stored u64
// (see [Truncate]); the stored values themselves are exact.
package vault

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

const Name = "vault"

type Vault struct {
	log logging.Logger
	cfg Config
}

func New(log logging.Logger, cfg Config) *Vault {
	return &Vault{log: log, cfg: cfg}
}

// Exports returns the vault entry points.
func (v *Vault) Exports() contract.Exports {
	return contract.Exports{
		"deposit":            {Name: "deposit", Params: 2, Function: contract.TwoParams(v.Deposit)},
		"withdraw":           {Name: "withdraw", Params: 2, Function: contract.TwoParams(v.Withdraw)},
		"get_vault_total":    {Name: "get_vault_total", ReadOnly: true, Function: contract.NoParams(v.GetVaultTotal)},
		"get_lender_balance": {Name: "get_lender_balance", Params: 1, ReadOnly: true, Function: contract.OneParam(v.GetLenderBalance)},
		"get_member_count":   {Name: "get_member_count", ReadOnly: true, Function: contract.NoParams(v.GetMemberCount)},
	}
}

// Truncate keeps the low 31 bits of [v] so the result is a non-negative
// int32. Totals at or above 2^31 alias to smaller values.
func Truncate(v uint64) int32 {
	return int32(v & consts.ResultMask)
}

// Deposit adds [amount] to the vault total and to the balance of the lender
// behind [addrHash]. A lender going from zero to nonzero joins the member
// count. Returns the truncated new total.
//
// Writes happen in order: total, member count (new lenders only), lender
// balance. Unless AtomicWrites is set, a failing write leaves the earlier
// ones persisted.
func (v *Vault) Deposit(ctx context.Context, rt contract.Runtime, amount uint32, addrHash uint32) int32 {
	if amount == 0 {
		_ = rt.Trace(ctx, "Deposit amount must be > 0")
		return consts.Error
	}
	rt, commit := v.begin(rt)

	total, err := contract.ReadUint64(ctx, rt, VaultTotalKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read vault total", err)
	}
	newTotal, err := smath.Add(total, uint64(amount))
	if err != nil {
		return v.fail(ctx, rt, "Vault total overflow", err)
	}
	if err := contract.WriteUint64(ctx, rt, VaultTotalKey, newTotal); err != nil {
		return v.fail(ctx, rt, "Failed to update vault total", err)
	}

	lenderKey := LenderKey(addrHash)
	balance, err := contract.ReadUint64(ctx, rt, lenderKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read lender balance", err)
	}

	// New lender
	if balance == 0 {
		members, err := contract.ReadUint32(ctx, rt, VaultMembersKey)
		if err != nil {
			return v.fail(ctx, rt, "Failed to read member count", err)
		}
		if err := contract.WriteUint32(ctx, rt, VaultMembersKey, members+1); err != nil {
			return v.fail(ctx, rt, "Failed to update member count", err)
		}
	}

	newBalance, err := smath.Add(balance, uint64(amount))
	if err != nil {
		return v.fail(ctx, rt, "Lender balance overflow", err)
	}
	if err := contract.WriteUint64(ctx, rt, lenderKey, newBalance); err != nil {
		return v.fail(ctx, rt, "Failed to update lender balance", err)
	}

	if err := commit(ctx); err != nil {
		return v.fail(ctx, rt, "Failed to persist deposit", err)
	}
	_ = rt.Trace(ctx, "Deposit recorded")
	return Truncate(newTotal)
}

// Withdraw removes [amount] from the vault total and from the balance of
// the lender behind [addrHash]. Both balances are checked before anything
// is written. A lender whose balance reaches zero leaves the member count.
// Returns the truncated new total.
func (v *Vault) Withdraw(ctx context.Context, rt contract.Runtime, amount uint32, addrHash uint32) int32 {
	if amount == 0 {
		_ = rt.Trace(ctx, "Withdraw amount must be > 0")
		return consts.Error
	}
	rt, commit := v.begin(rt)

	lenderKey := LenderKey(addrHash)
	balance, err := contract.ReadUint64(ctx, rt, lenderKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read lender balance", err)
	}
	if uint64(amount) > balance {
		_ = rt.Trace(ctx, "Insufficient lender balance")
		return consts.Error
	}

	total, err := contract.ReadUint64(ctx, rt, VaultTotalKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read vault total", err)
	}
	if uint64(amount) > total {
		_ = rt.Trace(ctx, "Insufficient vault total")
		return consts.Error
	}

	newTotal := total - uint64(amount)
	if err := contract.WriteUint64(ctx, rt, VaultTotalKey, newTotal); err != nil {
		return v.fail(ctx, rt, "Failed to update vault total", err)
	}

	newBalance := balance - uint64(amount)
	if err := contract.WriteUint64(ctx, rt, lenderKey, newBalance); err != nil {
		return v.fail(ctx, rt, "Failed to update lender balance", err)
	}

	// Lender fully withdrawn
	if newBalance == 0 {
		members, err := contract.ReadUint32(ctx, rt, VaultMembersKey)
		if err != nil {
			return v.fail(ctx, rt, "Failed to read member count", err)
		}
		if members > 0 {
			if err := contract.WriteUint32(ctx, rt, VaultMembersKey, members-1); err != nil {
				return v.fail(ctx, rt, "Failed to update member count", err)
			}
		}
	}

	if err := commit(ctx); err != nil {
		return v.fail(ctx, rt, "Failed to persist withdrawal", err)
	}
	_ = rt.Trace(ctx, "Withdrawal recorded")
	return Truncate(newTotal)
}

// GetVaultTotal returns the truncated vault total.
func (v *Vault) GetVaultTotal(ctx context.Context, rt contract.Runtime) int32 {
	total, err := contract.ReadUint64(ctx, rt, VaultTotalKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read vault total", err)
	}
	_ = rt.Trace(ctx, "Getting vault total")
	return Truncate(total)
}

// GetLenderBalance returns the truncated balance of the lender behind
// [addrHash].
func (v *Vault) GetLenderBalance(ctx context.Context, rt contract.Runtime, addrHash uint32) int32 {
	balance, err := contract.ReadUint64(ctx, rt, LenderKey(addrHash))
	if err != nil {
		return v.fail(ctx, rt, "Failed to read lender balance", err)
	}
	_ = rt.Trace(ctx, "Getting lender balance")
	return Truncate(balance)
}

// GetMemberCount returns the number of lenders with a nonzero balance.
func (v *Vault) GetMemberCount(ctx context.Context, rt contract.Runtime) int32 {
	members, err := contract.ReadUint32(ctx, rt, VaultMembersKey)
	if err != nil {
		return v.fail(ctx, rt, "Failed to read member count", err)
	}
	_ = rt.Trace(ctx, "Getting member count")
	return int32(members & consts.ResultMask)
}

// begin returns the runtime the multi-step operations write through and the
// function that persists what they wrote. Without AtomicWrites every write
// goes straight to the host and commit is a no-op. Otherwise commit
// persists every staged write or none of them.
func (v *Vault) begin(rt contract.Runtime) (contract.Runtime, func(context.Context) error) {
	if !v.cfg.AtomicWrites {
		return rt, func(context.Context) error { return nil }
	}
	parent := rt.State()
	staged := state.NewSimpleMutable(parent)
	return contract.WithState(rt, staged), func(ctx context.Context) error {
		return staged.Flush(ctx, parent)
	}
}

func (v *Vault) fail(ctx context.Context, rt contract.Runtime, msg string, err error) int32 {
	_ = rt.Trace(ctx, msg)
	v.log.Debug(msg,
		zap.Stringer("account", rt.ContractAccount()),
		zap.Error(err),
	)
	return consts.Error
}
