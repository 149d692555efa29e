// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackerUints(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(13, 13)
	wp.PackByte(7)
	wp.PackUint32(0xAABBCCDD)
	wp.PackUint64(1 << 40)
	require.NoError(wp.Err())
	require.Len(wp.Bytes(), 13)

	rp := NewReader(wp.Bytes(), 13)
	require.Equal(byte(7), rp.UnpackByte())
	require.Equal(uint32(0xAABBCCDD), rp.UnpackUint32())
	require.Equal(uint64(1<<40), rp.UnpackUint64())
	require.True(rp.Empty())
	require.NoError(rp.Err())
}

func TestPackerLimit(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(4, 4)
	wp.PackUint64(1)
	require.Error(wp.Err())
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)
	rp := NewReader([]byte{1, 2}, 2)
	rp.UnpackUint32()
	require.Error(rp.Err())
}
