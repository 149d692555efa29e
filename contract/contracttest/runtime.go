// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contracttest

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/state"
)

var _ contract.Runtime = (*Runtime)(nil)

// Runtime is an in-memory contract.Runtime that keeps every trace message.
type Runtime struct {
	Account codec.Address
	Store   state.Mutable
	Traces  []string
}

// NewRuntime returns a Runtime with a random account and empty state.
func NewRuntime() *Runtime {
	return &Runtime{
		Account: codec.CreateAddress(0, ids.GenerateTestID()),
		Store:   state.MutableStorage{},
	}
}

func (r *Runtime) ContractAccount() codec.Address {
	return r.Account
}

func (r *Runtime) State() state.Mutable {
	return r.Store
}

func (r *Runtime) Trace(_ context.Context, msg string) error {
	r.Traces = append(r.Traces, msg)
	return nil
}

// LastTrace returns the most recent trace message.
func (r *Runtime) LastTrace() string {
	if len(r.Traces) == 0 {
		return ""
	}
	return r.Traces[len(r.Traces)-1]
}
