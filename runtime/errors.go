// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrUnknownContract   = errors.New("unknown contract")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrAccountExists     = errors.New("account already exists")
	ErrDuplicateContract = errors.New("contract already registered")
	ErrInvalidParams     = errors.New("invalid number of params")
	ErrOutOfUnits        = errors.New("out of units")
	ErrKeyTooLarge       = errors.New("state key too large")
	ErrReadOnlyWrite     = errors.New("read-only function wrote state")
)
