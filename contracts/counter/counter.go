// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter implements a contract holding a single u32 counter.
//
// Every entry point returns the new counter value on success and
// [consts.Error] when the host fails to persist it. Decrement and Subtract
// saturate at zero and report that as a successful 0.
package counter

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/contract"
)

const Name = "counter"

// CounterKey is the storage key of the counter cell.
const CounterKey = "counter"

type Counter struct {
	log logging.Logger
}

func New(log logging.Logger) *Counter {
	return &Counter{log: log}
}

// Exports returns the counter entry points.
func (c *Counter) Exports() contract.Exports {
	return contract.Exports{
		"get_count": {Name: "get_count", ReadOnly: true, Function: contract.NoParams(c.GetCount)},
		"increment": {Name: "increment", Function: contract.NoParams(c.Increment)},
		"decrement": {Name: "decrement", Function: contract.NoParams(c.Decrement)},
		"set_count": {Name: "set_count", Params: 1, Function: contract.OneParam(c.SetCount)},
		"reset":     {Name: "reset", Function: contract.NoParams(c.Reset)},
		"add":       {Name: "add", Params: 1, Function: contract.OneParam(c.Add)},
		"subtract":  {Name: "subtract", Params: 1, Function: contract.OneParam(c.Subtract)},
	}
}

// GetCount returns the current counter value.
func (c *Counter) GetCount(ctx context.Context, rt contract.Runtime) int32 {
	current, err := contract.ReadUint32(ctx, rt, CounterKey)
	if err != nil {
		return c.fail(ctx, rt, "Failed to read counter", err)
	}
	_ = rt.Trace(ctx, "Getting counter value")
	return int32(current)
}

func (c *Counter) Increment(ctx context.Context, rt contract.Runtime) int32 {
	current, err := contract.ReadUint32(ctx, rt, CounterKey)
	if err != nil {
		return c.fail(ctx, rt, "Failed to read counter", err)
	}
	next := current + 1
	if err := contract.WriteUint32(ctx, rt, CounterKey, next); err != nil {
		return c.fail(ctx, rt, "Failed to increment counter", err)
	}
	_ = rt.Trace(ctx, "Counter incremented")
	return int32(next)
}

func (c *Counter) Decrement(ctx context.Context, rt contract.Runtime) int32 {
	current, err := contract.ReadUint32(ctx, rt, CounterKey)
	if err != nil {
		return c.fail(ctx, rt, "Failed to read counter", err)
	}
	if current == 0 {
		_ = rt.Trace(ctx, "Counter already at 0")
		return 0
	}
	next := current - 1
	if err := contract.WriteUint32(ctx, rt, CounterKey, next); err != nil {
		return c.fail(ctx, rt, "Failed to decrement counter", err)
	}
	_ = rt.Trace(ctx, "Counter decremented")
	return int32(next)
}

// SetCount stores [value] unconditionally.
func (c *Counter) SetCount(ctx context.Context, rt contract.Runtime, value uint32) int32 {
	if err := contract.WriteUint32(ctx, rt, CounterKey, value); err != nil {
		return c.fail(ctx, rt, "Failed to set counter", err)
	}
	_ = rt.Trace(ctx, "Counter set")
	return int32(value)
}

func (c *Counter) Reset(ctx context.Context, rt contract.Runtime) int32 {
	if err := contract.WriteUint32(ctx, rt, CounterKey, 0); err != nil {
		return c.fail(ctx, rt, "Failed to reset counter", err)
	}
	_ = rt.Trace(ctx, "Counter reset to 0")
	return 0
}

// Add adds [amount] to the counter. The sum wraps at 2^32.
func (c *Counter) Add(ctx context.Context, rt contract.Runtime, amount uint32) int32 {
	current, err := contract.ReadUint32(ctx, rt, CounterKey)
	if err != nil {
		return c.fail(ctx, rt, "Failed to read counter", err)
	}
	next := current + amount
	if err := contract.WriteUint32(ctx, rt, CounterKey, next); err != nil {
		return c.fail(ctx, rt, "Failed to add to counter", err)
	}
	_ = rt.Trace(ctx, "Added to counter")
	return int32(next)
}

// Subtract removes [amount] from the counter, clamping at zero.
func (c *Counter) Subtract(ctx context.Context, rt contract.Runtime, amount uint32) int32 {
	current, err := contract.ReadUint32(ctx, rt, CounterKey)
	if err != nil {
		return c.fail(ctx, rt, "Failed to read counter", err)
	}
	if amount > current {
		_ = rt.Trace(ctx, "Subtraction would go below 0, setting to 0")
		if err := contract.WriteUint32(ctx, rt, CounterKey, 0); err != nil {
			return c.fail(ctx, rt, "Failed to set counter to 0", err)
		}
		return 0
	}
	next := current - amount
	if err := contract.WriteUint32(ctx, rt, CounterKey, next); err != nil {
		return c.fail(ctx, rt, "Failed to subtract from counter", err)
	}
	_ = rt.Trace(ctx, "Subtracted from counter")
	return int32(next)
}

func (c *Counter) fail(ctx context.Context, rt contract.Runtime, msg string, err error) int32 {
	_ = rt.Trace(ctx, msg)
	c.log.Debug(msg,
		zap.Stringer("account", rt.ContractAccount()),
		zap.Error(err),
	)
	return consts.Error
}
