// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

var (
	ErrDuplicateExport = errors.New("duplicate export")
	ErrUnknownFunction = errors.New("unknown function")
)

// Function is an entry point. [params] has exactly the number of values the
// export declares. The return value is a status code or a result.
type Function func(ctx context.Context, rt Runtime, params []uint32) int32

type Export struct {
	Name string
	// Params is the number of u32 arguments the entry point takes.
	Params int
	// ReadOnly entry points never persist state.
	ReadOnly bool
	Function Function
}

// Exports is the set of entry points a contract exposes to the host.
type Exports map[string]Export

func (e Exports) Add(export Export) error {
	if _, ok := e[export.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateExport, export.Name)
	}
	e[export.Name] = export
	return nil
}

func (e Exports) Get(name string) (Export, error) {
	export, ok := e[name]
	if !ok {
		return Export{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return export, nil
}

// Names returns the exported function names in sorted order.
func (e Exports) Names() []string {
	names := maps.Keys(e)
	slices.Sort(names)
	return names
}

// NoParams adapts an entry point without arguments.
func NoParams(f func(context.Context, Runtime) int32) Function {
	return func(ctx context.Context, rt Runtime, _ []uint32) int32 {
		return f(ctx, rt)
	}
}

// OneParam adapts an entry point with one u32 argument.
func OneParam(f func(context.Context, Runtime, uint32) int32) Function {
	return func(ctx context.Context, rt Runtime, params []uint32) int32 {
		return f(ctx, rt, params[0])
	}
}

// TwoParams adapts an entry point with two u32 arguments.
func TwoParams(f func(context.Context, Runtime, uint32, uint32) int32) Function {
	return func(ctx context.Context, rt Runtime, params []uint32) int32 {
		return f(ctx, rt, params[0], params[1])
	}
}
