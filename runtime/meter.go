// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// meter tracks the units a call may still spend.
type meter struct {
	limit    uint64
	consumed uint64
}

func newMeter(limit uint64) *meter {
	return &meter{limit: limit}
}

// Consume charges [units]. A charge past the limit exhausts the meter.
func (m *meter) Consume(units uint64) error {
	consumed, err := smath.Add(m.consumed, units)
	if err != nil || consumed > m.limit {
		m.consumed = m.limit
		return fmt.Errorf("%w: limit=%d", ErrOutOfUnits, m.limit)
	}
	m.consumed = consumed
	return nil
}

func (m *meter) Consumed() uint64 {
	return m.consumed
}

func (m *meter) Remaining() uint64 {
	return m.limit - m.consumed
}
