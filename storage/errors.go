// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrCorruptValue = errors.New("corrupt value")
)
