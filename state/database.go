// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Database = (*avaDatabase)(nil)

type avaDatabase struct {
	db database.Database
}

// NewDatabase adapts an avalanchego database (memdb, prefixdb, ...) to
// [Database]. Changes are applied through a single batch.
func NewDatabase(db database.Database) Database {
	return &avaDatabase{db: db}
}

func (a *avaDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return a.db.Get(key)
}

func (a *avaDatabase) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := a.db.NewBatch()
	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	return batch.Write()
}
