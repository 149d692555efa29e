// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines what a contract sees of its host: the account it
// runs under, the state it can read and write, and a trace sink.
package contract

import (
	"context"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/state"
	"github.com/bedrock-xrpl/bedrock/storage"
)

// Runtime is the host side of a single entry-point invocation.
type Runtime interface {
	// ContractAccount returns the account of the contract being called.
	// Every storage cell the contract touches lives under this account.
	ContractAccount() codec.Address
	// State returns the store backing this invocation.
	State() state.Mutable
	// Trace records a diagnostic message. Callers ignore the error.
	Trace(ctx context.Context, msg string) error
}

// ReadUint32 reads a u32 cell of the calling contract's account. A missing
// cell reads as zero.
func ReadUint32(ctx context.Context, rt Runtime, key string) (uint32, error) {
	v, _, err := storage.GetUint32(ctx, rt.State(), rt.ContractAccount(), key)
	return v, err
}

func WriteUint32(ctx context.Context, rt Runtime, key string, value uint32) error {
	return storage.SetUint32(ctx, rt.State(), rt.ContractAccount(), key, value)
}

// ReadUint64 reads a u64 cell of the calling contract's account. A missing
// cell reads as zero.
func ReadUint64(ctx context.Context, rt Runtime, key string) (uint64, error) {
	v, _, err := storage.GetUint64(ctx, rt.State(), rt.ContractAccount(), key)
	return v, err
}

func WriteUint64(ctx context.Context, rt Runtime, key string, value uint64) error {
	return storage.SetUint64(ctx, rt.State(), rt.ContractAccount(), key, value)
}

// WithState returns a Runtime identical to [rt] except that its state is
// [mu].
func WithState(rt Runtime, mu state.Mutable) Runtime {
	return &stateOverride{Runtime: rt, mu: mu}
}

type stateOverride struct {
	Runtime
	mu state.Mutable
}

func (s *stateOverride) State() state.Mutable {
	return s.mu
}
