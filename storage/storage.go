// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/consts"
	"github.com/bedrock-xrpl/bedrock/state"
)

// State
// 0x0/ (contract registry, owned by the runtime)
//   -> [account] => contract name
//
// 0x1/ (contract state)
//   -> [account] + [key] => [type tag] + [value]

const contractStatePrefix byte = 0x1

// MaxKeyLen bounds the logical key a contract may use.
const MaxKeyLen = 64

// StateKey returns the physical key of [key] in the namespace of [account].
func StateKey(account codec.Address, key string) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen+len(key))
	k[0] = contractStatePrefix
	copy(k[1:], account[:])
	copy(k[1+codec.AddressLen:], key)
	return k
}

func verifyKey(key string) error {
	if len(key) == 0 || len(key) > MaxKeyLen {
		return fmt.Errorf("%w: length %d", ErrInvalidKey, len(key))
	}
	return nil
}

// GetUint32 reads a u32 cell. A missing cell returns (0, false, nil).
func GetUint32(
	ctx context.Context,
	im state.Immutable,
	account codec.Address,
	key string,
) (uint32, bool, error) {
	v, exists, err := getValue(ctx, im, account, key)
	if err != nil || !exists {
		return 0, false, err
	}
	n, err := codec.DecodeUint32(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: key=%q: %w", ErrCorruptValue, key, err)
	}
	return n, true, nil
}

func SetUint32(
	ctx context.Context,
	mu state.Mutable,
	account codec.Address,
	key string,
	value uint32,
) error {
	if err := verifyKey(key); err != nil {
		return err
	}
	return mu.Insert(ctx, StateKey(account, key), codec.EncodeUint32(value))
}

// GetUint64 reads a u64 cell. A missing cell returns (0, false, nil).
func GetUint64(
	ctx context.Context,
	im state.Immutable,
	account codec.Address,
	key string,
) (uint64, bool, error) {
	v, exists, err := getValue(ctx, im, account, key)
	if err != nil || !exists {
		return 0, false, err
	}
	n, err := codec.DecodeUint64(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: key=%q: %w", ErrCorruptValue, key, err)
	}
	return n, true, nil
}

func SetUint64(
	ctx context.Context,
	mu state.Mutable,
	account codec.Address,
	key string,
	value uint64,
) error {
	if err := verifyKey(key); err != nil {
		return err
	}
	return mu.Insert(ctx, StateKey(account, key), codec.EncodeUint64(value))
}

func getValue(
	ctx context.Context,
	im state.Immutable,
	account codec.Address,
	key string,
) ([]byte, bool, error) {
	if err := verifyKey(key); err != nil {
		return nil, false, err
	}
	v, err := im.GetValue(ctx, StateKey(account, key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
