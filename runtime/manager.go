// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"crypto/sha256"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/bedrock-xrpl/bedrock/codec"
	"github.com/bedrock-xrpl/bedrock/state"
)

const (
	// Directory of deployed accounts. Contract state lives under its own
	// prefix, see the storage package.
	accountPrefix = 0x0

	contractTypeID uint8 = 0
)

// accountManager maps deployed accounts to the contract they run.
type accountManager struct {
	db state.Database
}

func newAccountManager(db state.Database) *accountManager {
	return &accountManager{db: db}
}

// NewAccountAddress derives the account of a [contractName] instance
// created with [creationData].
func NewAccountAddress(contractName string, creationData []byte) codec.Address {
	preimage := make([]byte, 0, len(contractName)+len(creationData))
	preimage = append(preimage, contractName...)
	preimage = append(preimage, creationData...)
	return codec.CreateAddress(contractTypeID, sha256.Sum256(preimage))
}

// GetAccountContract returns the contract [account] runs.
func (m *accountManager) GetAccountContract(ctx context.Context, account codec.Address) (string, error) {
	name, exists, err := m.getAccountContract(ctx, account)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUnknownAccount
	}
	return name, nil
}

// SetAccountContract binds [account] to [contractName]. It fails if the
// account is already bound.
func (m *accountManager) SetAccountContract(ctx context.Context, account codec.Address, contractName string) error {
	_, exists, err := m.getAccountContract(ctx, account)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists
	}
	return m.db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		string(accountContractKey(account)): maybe.Some([]byte(contractName)),
	})
}

func (m *accountManager) getAccountContract(ctx context.Context, account codec.Address) (string, bool, error) {
	v, err := m.db.GetValue(ctx, accountContractKey(account))
	if errors.Is(err, database.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func accountContractKey(account codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], account[:])
	return k
}
