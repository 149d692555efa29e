// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime hosts contracts. It deploys contract instances to
// accounts, dispatches calls to their entry points by name and decides what
// each call leaves in the database.
//
// Calls run one at a time. Each call reads through a buffer over the
// database and is charged units for every state access. When the call
// returns its buffered writes are applied in a single batch, including the
// writes of a call that reported failure. A call that runs out of units or
// whose context is cancelled is aborted instead: nothing it wrote is
// applied.
package runtime

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/contract"
	"github.com/bedrock-xrpl/bedrock/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type CallInfo struct {
	// Contract is the account the called instance is deployed to.
	Contract codec.Address
	Function string
	Params   []uint32
	// Units is the budget of this call. Zero uses the configured MaxUnits.
	Units uint64
	// ReadOnly discards whatever the call writes.
	ReadOnly bool
}

type Result struct {
	Value    int32    `json:"value"`
	Traces   []string `json:"traces"`
	Consumed uint64   `json:"consumed"`
}

// Success reports whether the entry point returned a non-negative value.
func (r *Result) Success() bool {
	return r.Value >= consts.Success
}

type Runtime struct {
	log     logging.Logger
	cfg     Config
	tracer  trace.Tracer
	metrics *metrics

	db       state.Database
	accounts *accountManager

	lock      sync.Mutex
	contracts map[string]contract.Exports
}

func New(
	log logging.Logger,
	cfg Config,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	db state.Database,
) (*Runtime, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		log:       log,
		cfg:       cfg,
		tracer:    tracer,
		metrics:   m,
		db:        db,
		accounts:  newAccountManager(db),
		contracts: make(map[string]contract.Exports),
	}, nil
}

// Register makes [name] available for deployment.
func (r *Runtime) Register(name string, exports contract.Exports) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.contracts[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateContract, name)
	}
	r.contracts[name] = exports
	return nil
}

// Contracts returns the registered contract names in sorted order.
func (r *Runtime) Contracts() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	names := maps.Keys(r.contracts)
	slices.Sort(names)
	return names
}

// Deploy creates a new instance of [contractName]. The account is derived
// from the name and [creationData], so deploying twice with the same data
// fails with ErrAccountExists.
func (r *Runtime) Deploy(ctx context.Context, contractName string, creationData []byte) (codec.Address, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ctx, span := r.tracer.Start(ctx, "Runtime.Deploy", oteltrace.WithAttributes(
		attribute.String("contract", contractName),
	))
	defer span.End()

	if _, ok := r.contracts[contractName]; !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownContract, contractName)
	}
	account := NewAccountAddress(contractName, creationData)
	if err := r.accounts.SetAccountContract(ctx, account, contractName); err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", err, account)
	}
	r.metrics.deployed.Inc()
	r.log.Info("deployed contract",
		zap.String("contract", contractName),
		zap.Stringer("account", account),
	)
	return account, nil
}

// ContractOf returns the name of the contract deployed at [account].
func (r *Runtime) ContractOf(ctx context.Context, account codec.Address) (string, error) {
	return r.accounts.GetAccountContract(ctx, account)
}

// Call invokes [callInfo.Function] on the instance at [callInfo.Contract].
// A returned error means the host rejected or aborted the call and nothing
// was persisted. Otherwise the Result carries the entry point's value,
// whatever it is.
func (r *Runtime) Call(ctx context.Context, callInfo *CallInfo) (*Result, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ctx, span := r.tracer.Start(ctx, "Runtime.Call", oteltrace.WithAttributes(
		attribute.Stringer("account", callInfo.Contract),
		attribute.String("function", callInfo.Function),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		r.metrics.latency.Observe(time.Since(start).Seconds())
	}()
	r.metrics.calls.Inc()

	result, err := r.call(ctx, callInfo)
	if err != nil {
		r.log.Debug("call rejected",
			zap.Stringer("account", callInfo.Contract),
			zap.String("function", callInfo.Function),
			zap.Error(err),
		)
		return nil, err
	}
	r.metrics.units.Add(float64(result.Consumed))
	if !result.Success() {
		r.metrics.failed.Inc()
	}
	span.SetAttributes(attribute.Int("result", int(result.Value)))
	return result, nil
}

func (r *Runtime) call(ctx context.Context, callInfo *CallInfo) (*Result, error) {
	contractName, err := r.accounts.GetAccountContract(ctx, callInfo.Contract)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, callInfo.Contract)
	}
	exports, ok := r.contracts[contractName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, contractName)
	}
	export, err := exports.Get(callInfo.Function)
	if err != nil {
		return nil, err
	}
	if len(callInfo.Params) != export.Params {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrInvalidParams, export.Name, export.Params, len(callInfo.Params))
	}

	units := callInfo.Units
	if units == 0 {
		units = r.cfg.MaxUnits
	}
	meter := newMeter(units)
	if err := meter.Consume(r.cfg.CallUnits); err != nil {
		return nil, err
	}
	recorder := state.NewRecorder(r.db)
	host := &callHost{
		log:      r.log,
		span:     oteltrace.SpanFromContext(ctx),
		account:  callInfo.Contract,
		function: export.Name,
		state: &meteredState{
			cfg:   &r.cfg,
			meter: meter,
			inner: recorder,
		},
	}

	value := export.Function(ctx, host, callInfo.Params)
	if err := host.state.abort; err != nil {
		r.metrics.aborted.Inc()
		return nil, fmt.Errorf("%s.%s aborted after %d units: %w", contractName, export.Name, meter.Consumed(), err)
	}

	result := &Result{
		Value:    value,
		Traces:   host.traces,
		Consumed: meter.Consumed(),
	}
	if export.ReadOnly && recorder.GetStateKeys().Writes() {
		return nil, fmt.Errorf("%w: %s.%s", ErrReadOnlyWrite, contractName, export.Name)
	}
	if export.ReadOnly || callInfo.ReadOnly {
		return result, nil
	}
	if changes := recorder.Changes(); len(changes) > 0 {
		if err := r.db.Apply(ctx, changes); err != nil {
			return nil, err
		}
	}
	return result, nil
}
