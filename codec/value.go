// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/bedrock-xrpl/bedrock/consts"
)

// Type tags prefixed to every stored value so a cell written as one width
// is never silently read back as another.
const (
	TypeUint32 byte = 0x01
	TypeUint64 byte = 0x02
)

const (
	Uint32ValueLen = consts.ByteLen + consts.Uint32Len
	Uint64ValueLen = consts.ByteLen + consts.Uint64Len
)

func EncodeUint32(v uint32) []byte {
	p := NewWriter(Uint32ValueLen, Uint32ValueLen)
	p.PackByte(TypeUint32)
	p.PackUint32(v)
	return p.Bytes()
}

func EncodeUint64(v uint64) []byte {
	p := NewWriter(Uint64ValueLen, Uint64ValueLen)
	p.PackByte(TypeUint64)
	p.PackUint64(v)
	return p.Bytes()
}

func DecodeUint32(b []byte) (uint32, error) {
	p, err := newValueReader(b, TypeUint32, Uint32ValueLen)
	if err != nil {
		return 0, err
	}
	v := p.UnpackUint32()
	return v, p.Err()
}

func DecodeUint64(b []byte) (uint64, error) {
	p, err := newValueReader(b, TypeUint64, Uint64ValueLen)
	if err != nil {
		return 0, err
	}
	v := p.UnpackUint64()
	return v, p.Err()
}

// TypeOf returns the tag of an encoded value.
func TypeOf(b []byte) (byte, error) {
	if len(b) == 0 {
		return 0, ErrInsufficientLength
	}
	switch b[0] {
	case TypeUint32, TypeUint64:
		return b[0], nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", ErrUnknownType, b[0])
	}
}

func newValueReader(b []byte, tag byte, size int) (*Packer, error) {
	typ, err := TypeOf(b)
	if err != nil {
		return nil, err
	}
	if typ != tag {
		return nil, fmt.Errorf("%w: want 0x%02x, have 0x%02x", ErrTypeMismatch, tag, typ)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: want %d bytes, have %d", ErrInvalidSize, size, len(b))
	}
	p := NewReader(b, size)
	p.UnpackByte()
	return p, nil
}
