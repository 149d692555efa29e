// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	_ contract.Runtime = (*callHost)(nil)
	_ state.Mutable    = (*meteredState)(nil)
)

// meteredState charges every state access against the call's meter. The
// first charge that cannot be paid, or a cancelled context, aborts the
// call: every later access fails with the same error.
type meteredState struct {
	cfg   *Config
	meter *meter
	inner *state.Recorder

	abort error
}

func (m *meteredState) charge(ctx context.Context, key []byte, units uint64) error {
	if m.abort != nil {
		return m.abort
	}
	if err := ctx.Err(); err != nil {
		m.abort = err
		return err
	}
	if len(key) > m.cfg.MaxKeySize {
		return fmt.Errorf("%w: %d > %d", ErrKeyTooLarge, len(key), m.cfg.MaxKeySize)
	}
	if err := m.meter.Consume(units); err != nil {
		m.abort = err
		return err
	}
	return nil
}

func (m *meteredState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if err := m.charge(ctx, key, m.cfg.ReadUnits); err != nil {
		return nil, err
	}
	return m.inner.GetValue(ctx, key)
}

func (m *meteredState) Insert(ctx context.Context, key []byte, value []byte) error {
	if err := m.charge(ctx, key, m.cfg.WriteUnits); err != nil {
		return err
	}
	return m.inner.Insert(ctx, key, value)
}

func (m *meteredState) Remove(ctx context.Context, key []byte) error {
	if err := m.charge(ctx, key, m.cfg.WriteUnits); err != nil {
		return err
	}
	return m.inner.Remove(ctx, key)
}

// callHost is what a contract sees during one call.
type callHost struct {
	log      logging.Logger
	span     oteltrace.Span
	account  codec.Address
	function string
	state    *meteredState

	traces []string
}

func (c *callHost) ContractAccount() codec.Address {
	return c.account
}

func (c *callHost) State() state.Mutable {
	return c.state
}

func (c *callHost) Trace(_ context.Context, msg string) error {
	c.traces = append(c.traces, msg)
	c.span.AddEvent(msg)
	c.log.Debug("contract trace",
		zap.Stringer("account", c.account),
		zap.String("function", c.function),
		zap.String("msg", msg),
	)
	return nil
}
