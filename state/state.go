// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=statetest -destination=statetest/mock_state.go . Mutable

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

// Immutable is a read-only view over a byte key-value store. A missing key
// is reported as [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store behind a contract host. Apply must write
// every change or none of them.
type Database interface {
	Immutable

	// Apply writes [changes] atomically. A [maybe.Nothing] value deletes the
	// key.
	Apply(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
}
