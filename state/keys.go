// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys maps every key touched during a call to the permissions that call
// needed. Allocate means the key did not exist before the write.
type Keys map[string]Permissions

// All acceptable permission options
type Permissions byte

// Add merges [permission] into the permissions already recorded for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

// Writes returns true if any key was written or allocated.
func (k Keys) Writes() bool {
	for _, p := range k {
		if p&^Read != 0 {
			return true
		}
	}
	return false
}

func (p Permissions) String() string {
	switch p {
	case None:
		return "none"
	case Read:
		return "read"
	case Write:
		return "write"
	case Allocate:
		return "allocate"
	case All:
		return "all"
	default:
		return "unknown"
	}
}
