// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

type Config struct {
	// AtomicWrites buffers every write of a deposit or withdrawal and
	// persists them once all steps succeeded. If the host fails one of those
	// writes, the ones already made are rolled back. When false a failure on
	// step k leaves steps 1..k-1 persisted.
	AtomicWrites bool `json:"atomicWrites"`
}

func NewConfig() Config {
	return Config{AtomicWrites: false}
}
