// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
)

var _ Mutable = (*SimpleMutable)(nil)

var ErrRestore = errors.New("failed to restore value after flush failure")

// SimpleMutable stages writes on top of [Immutable]. Reads observe staged
// writes. Nothing reaches the underlying store until Commit or Flush.
type SimpleMutable struct {
	v Immutable

	changes map[string]maybe.Maybe[[]byte]
}

func NewSimpleMutable(v Immutable) *SimpleMutable {
	return &SimpleMutable{v, make(map[string]maybe.Maybe[[]byte])}
}

func (s *SimpleMutable) GetValue(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return s.v.GetValue(ctx, k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = maybe.Some(v)
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = maybe.Nothing[[]byte]()
	return nil
}

// Len returns the number of staged keys.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

// Changes returns the staged writes. The map must not be modified.
func (s *SimpleMutable) Changes() map[string]maybe.Maybe[[]byte] {
	return s.changes
}

// Commit applies every staged write to [db] in one call and clears the
// buffer on success.
func (s *SimpleMutable) Commit(ctx context.Context, db Database) error {
	if len(s.changes) == 0 {
		return nil
	}
	if err := db.Apply(ctx, s.changes); err != nil {
		return err
	}
	s.Reset()
	return nil
}

// Flush replays the staged writes into [mu] in key order. If a write
// fails, the keys already written are restored to the values [mu] held
// before the flush, so [mu] sees either every staged write or none.
func (s *SimpleMutable) Flush(ctx context.Context, mu Mutable) error {
	keys := maps.Keys(s.changes)
	slices.Sort(keys)

	prior := make(map[string]maybe.Maybe[[]byte], len(keys))
	for _, k := range keys {
		v, err := mu.GetValue(ctx, []byte(k))
		switch {
		case err == nil:
			prior[k] = maybe.Some(v)
		case errors.Is(err, database.ErrNotFound):
			prior[k] = maybe.Nothing[[]byte]()
		default:
			return err
		}
	}

	for i, k := range keys {
		if err := write(ctx, mu, k, s.changes[k]); err != nil {
			if rerr := restore(ctx, mu, keys[:i], prior); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
	}
	s.Reset()
	return nil
}

// restore writes [prior] back for [keys] in reverse order.
func restore(ctx context.Context, mu Mutable, keys []string, prior map[string]maybe.Maybe[[]byte]) error {
	for i := len(keys) - 1; i >= 0; i-- {
		if err := write(ctx, mu, keys[i], prior[keys[i]]); err != nil {
			return fmt.Errorf("%w: key %x: %w", ErrRestore, keys[i], err)
		}
	}
	return nil
}

func write(ctx context.Context, mu Mutable, k string, v maybe.Maybe[[]byte]) error {
	if v.IsNothing() {
		return mu.Remove(ctx, []byte(k))
	}
	return mu.Insert(ctx, []byte(k), v.Value())
}

// Reset drops every staged write.
func (s *SimpleMutable) Reset() {
	s.changes = make(map[string]maybe.Maybe[[]byte])
}
