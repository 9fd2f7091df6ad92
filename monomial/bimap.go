// SPDX-License-Identifier: MIT

package monomial

import (
	"sort"

	"github.com/katalvlaran/exactdiag/states"
)

// Connection is one left/right block pair of an operator.
type Connection struct {
	Left, Right states.BlockID
}

// Bimap is a partial bijection between left and right blocks. The zero value
// is empty and ready to use.
type Bimap struct {
	leftOf  map[states.BlockID]states.BlockID
	rightOf map[states.BlockID]states.BlockID
}

// Insert records l <-> r. It reports false when either side is already
// mapped, leaving the map unchanged.
func (m *Bimap) Insert(l, r states.BlockID) bool {
	if m.leftOf == nil {
		m.leftOf = make(map[states.BlockID]states.BlockID)
		m.rightOf = make(map[states.BlockID]states.BlockID)
	}
	if _, ok := m.rightOf[l]; ok {
		return false
	}
	if _, ok := m.leftOf[r]; ok {
		return false
	}
	m.rightOf[l] = r
	m.leftOf[r] = l

	return true
}

// Left returns the left block paired with r, or states.InvalidBlock.
func (m *Bimap) Left(r states.BlockID) states.BlockID {
	if l, ok := m.leftOf[r]; ok {
		return l
	}

	return states.InvalidBlock
}

// Right returns the right block paired with l, or states.InvalidBlock.
func (m *Bimap) Right(l states.BlockID) states.BlockID {
	if r, ok := m.rightOf[l]; ok {
		return r
	}

	return states.InvalidBlock
}

// Len returns the number of connections.
func (m *Bimap) Len() int { return len(m.leftOf) }

// Connections returns every pair ordered by right block.
func (m *Bimap) Connections() []Connection {
	out := make([]Connection, 0, len(m.leftOf))
	for r, l := range m.leftOf {
		out = append(out, Connection{Left: l, Right: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Right < out[j].Right })

	return out
}

// Inverse returns the map with left and right swapped.
func (m *Bimap) Inverse() Bimap {
	var inv Bimap
	for r, l := range m.leftOf {
		inv.Insert(r, l)
	}

	return inv
}
