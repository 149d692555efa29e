// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/bedrock-xrpl/bedrock/codec"
)

const (
	VaultTotalKey   = "vault_total"
	VaultMembersKey = "vault_members"

	lenderKeyPrefix = "vm_"
	// LenderKeyLen is the length of every lender key: the prefix followed by
	// eight hex digits.
	LenderKeyLen = len(lenderKeyPrefix) + 8
)

const hexDigits = "0123456789abcdef"

// LenderKey returns "vm_" followed by [addrHash] as eight lowercase hex
// digits, most significant nibble first. Distinct hashes always produce
// distinct keys.
func LenderKey(addrHash uint32) string {
	var k [LenderKeyLen]byte
	copy(k[:], lenderKeyPrefix)
	for i := LenderKeyLen - 1; i >= len(lenderKeyPrefix); i-- {
		k[i] = hexDigits[addrHash&0xF]
		addrHash >>= 4
	}
	return string(k[:])
}

// AddressHash maps an account to the 32-bit hash used to key its lender
// balance: the first four bytes of SHA-256 of the address, big endian.
func AddressHash(addr codec.Address) uint32 {
	digest := hashing.ComputeHash256(addr[:])
	return binary.BigEndian.Uint32(digest[:4])
}
