// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueEncoding(t *testing.T) {
	require := require.New(t)

	b := EncodeUint32(42)
	require.Equal([]byte{TypeUint32, 0, 0, 0, 42}, b)
	v32, err := DecodeUint32(b)
	require.NoError(err)
	require.Equal(uint32(42), v32)

	b = EncodeUint64(1<<32 + 1)
	require.Len(b, Uint64ValueLen)
	v64, err := DecodeUint64(b)
	require.NoError(err)
	require.Equal(uint64(1<<32+1), v64)
}

func TestValueDecodeErrors(t *testing.T) {
	tests := []struct {
		name        string
		decode      func([]byte) error
		input       []byte
		expectedErr error
	}{
		{
			name:        "u64 read as u32",
			decode:      func(b []byte) error { _, err := DecodeUint32(b); return err },
			input:       EncodeUint64(1),
			expectedErr: ErrTypeMismatch,
		},
		{
			name:        "u32 read as u64",
			decode:      func(b []byte) error { _, err := DecodeUint64(b); return err },
			input:       EncodeUint32(1),
			expectedErr: ErrTypeMismatch,
		},
		{
			name:        "empty",
			decode:      func(b []byte) error { _, err := DecodeUint32(b); return err },
			input:       nil,
			expectedErr: ErrInsufficientLength,
		},
		{
			name:        "unknown tag",
			decode:      func(b []byte) error { _, err := DecodeUint64(b); return err },
			input:       []byte{0xff, 0, 0, 0, 0, 0, 0, 0, 1},
			expectedErr: ErrUnknownType,
		},
		{
			name:        "truncated",
			decode:      func(b []byte) error { _, err := DecodeUint32(b); return err },
			input:       []byte{TypeUint32, 0, 1},
			expectedErr: ErrInvalidSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.decode(tt.input), tt.expectedErr)
		})
	}
}
