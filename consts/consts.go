// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen     = 32
	ByteLen   = 1
	Uint32Len = 4
	Uint64Len = 8
	MaxUint32 = ^uint32(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
)

// Status codes returned by contract entry points. Any non-negative value
// reports success and carries the entry point's result.
const (
	Success int32 = 0
	Error   int32 = -1
)

// ResultMask keeps the low 31 bits of a stored u64 so it fits a
// non-negative i32 return value.
const ResultMask = 0x7FFFFFFF
