// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidEndpoint     = errors.New("invalid endpoint")
	ErrInvalidParamType    = errors.New("invalid param type")
	ErrFailedParamTypeCast = errors.New("failed to cast param type")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrUnknownStep         = errors.New("unknown step reference")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrUnknownCommand      = errors.New("unknown command")
)
