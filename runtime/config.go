// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

type Config struct {
	// MaxUnits is the budget of a call that does not set its own.
	MaxUnits uint64 `json:"maxUnits"`
	// CallUnits is charged once when a call starts.
	CallUnits uint64 `json:"callUnits"`
	// ReadUnits is charged for every state read.
	ReadUnits uint64 `json:"readUnits"`
	// WriteUnits is charged for every state insert or removal.
	WriteUnits uint64 `json:"writeUnits"`
	// MaxKeySize bounds the raw state keys a contract may touch.
	MaxKeySize int `json:"maxKeySize"`
}

func NewConfig() Config {
	return Config{
		MaxUnits:   100_000,
		CallUnits:  1_000,
		ReadUnits:  100,
		WriteUnits: 500,
		MaxKeySize: 128,
	}
}
