// SPDX-License-Identifier: MIT

package states

import (
	"fmt"

	"github.com/katalvlaran/exactdiag/operators"
	"github.com/sirupsen/logrus"
)

// State is a Fock basis state: bit i set when mode i is occupied.
type State uint64

// BlockID identifies a block within one Classification.
type BlockID int

// InvalidBlock is the "no such block" sentinel returned by connectivity
// queries when an operator vanishes on a block.
const InvalidBlock BlockID = -1

type block struct {
	label  Label
	states []State
}

type location struct {
	block  int32
	offset int32
}

// Classification is the immutable block partition of the Fock space.
type Classification struct {
	modes   int
	charges Charges
	blocks  []block
	byLabel map[string]BlockID
	where   []location
}

// Classify partitions the 2^n basis states of n modes by charges and checks
// that every monomial of h conserves them.
//
// Implementation:
//   - Stage 1: validate mode count, charge table and index range of h.
//   - Stage 2: reject any monomial of h with a non-zero charge shift.
//   - Stage 3: scan states ascending, appending each to the block of its label.
//
// Errors:
//   - ErrTooManyModes, ErrBadCharges, operators.ErrIndexRange, ErrSymmetryBroken.
//
// Complexity:
//   - Time O(2^n * n * dim), Space O(2^n).
func Classify(h operators.Expression, n int, charges Charges, opts ...Option) (*Classification, error) {
	o := gatherOptions(opts...)
	if n <= 0 || n > MaxModes {
		return nil, fmt.Errorf("Classify(n=%d): %w", n, ErrTooManyModes)
	}
	if charges.Modes() != n {
		return nil, fmt.Errorf("Classify(charges for %d modes, n=%d): %w", charges.Modes(), n, ErrBadCharges)
	}
	if err := h.CheckRange(n); err != nil {
		return nil, fmt.Errorf("Classify: %w", err)
	}
	for _, m := range h.Terms() {
		if shift := charges.Shift(m); !shift.IsZero() {
			return nil, fmt.Errorf("Classify(%s shifts by %s): %w", m, shift, ErrSymmetryBroken)
		}
	}

	total := 1 << uint(n)
	c := &Classification{
		modes:   n,
		charges: charges,
		byLabel: make(map[string]BlockID),
		where:   make([]location, total),
	}
	for s := 0; s < total; s++ {
		st := State(s)
		label := charges.Of(st)
		key := label.String()
		b, ok := c.byLabel[key]
		if !ok {
			b = BlockID(len(c.blocks))
			c.byLabel[key] = b
			c.blocks = append(c.blocks, block{label: label})
		}
		c.where[s] = location{block: int32(b), offset: int32(len(c.blocks[b].states))}
		c.blocks[b].states = append(c.blocks[b].states, st)
	}

	o.log.WithFields(logrus.Fields{
		"modes":  n,
		"states": total,
		"blocks": len(c.blocks),
	}).Debug("states: classified")

	return c, nil
}

// NumBlocks returns the number of blocks.
func (c *Classification) NumBlocks() int { return len(c.blocks) }

// NumStates returns 2^N.
func (c *Classification) NumStates() int { return len(c.where) }

// NumModes returns N.
func (c *Classification) NumModes() int { return c.modes }

// Charges returns the charge table used for the partition.
func (c *Classification) Charges() Charges { return c.charges }

// Blocks returns every block id in ascending order.
func (c *Classification) Blocks() []BlockID {
	out := make([]BlockID, len(c.blocks))
	for i := range out {
		out[i] = BlockID(i)
	}

	return out
}

// Valid reports whether b names a block.
func (c *Classification) Valid(b BlockID) bool {
	return b >= 0 && int(b) < len(c.blocks)
}

func (c *Classification) check(b BlockID, op string) error {
	if !c.Valid(b) {
		return fmt.Errorf("Classification.%s(%d): %w", op, b, ErrInvalidBlock)
	}

	return nil
}

// BlockSize returns the number of basis states in b.
func (c *Classification) BlockSize(b BlockID) (int, error) {
	if err := c.check(b, "BlockSize"); err != nil {
		return 0, err
	}

	return len(c.blocks[b].states), nil
}

// BlockStates returns a copy of the basis states of b, ascending.
func (c *Classification) BlockStates(b BlockID) ([]State, error) {
	if err := c.check(b, "BlockStates"); err != nil {
		return nil, err
	}
	out := make([]State, len(c.blocks[b].states))
	copy(out, c.blocks[b].states)

	return out, nil
}

// Label returns the quantum numbers of b.
func (c *Classification) Label(b BlockID) (Label, error) {
	if err := c.check(b, "Label"); err != nil {
		return nil, err
	}

	return append(Label(nil), c.blocks[b].label...), nil
}

// BlockOfLabel returns the block carrying label, or InvalidBlock.
func (c *Classification) BlockOfLabel(l Label) BlockID {
	if len(l) != c.charges.Dim() {
		return InvalidBlock
	}
	if b, ok := c.byLabel[l.String()]; ok {
		return b
	}

	return InvalidBlock
}

// Target returns the block an operator with the given shift maps b to, or
// InvalidBlock when no block carries the shifted label.
func (c *Classification) Target(b BlockID, shift Label) BlockID {
	if !c.Valid(b) {
		return InvalidBlock
	}

	return c.BlockOfLabel(c.blocks[b].label.Add(shift))
}

// Locate maps a basis state to its (block, offset) pair.
func (c *Classification) Locate(s State) (BlockID, int, error) {
	if uint64(s) >= uint64(len(c.where)) {
		return InvalidBlock, 0, fmt.Errorf("Classification.Locate(%d): %w", s, ErrInvalidState)
	}
	loc := c.where[s]

	return BlockID(loc.block), int(loc.offset), nil
}

// StateAt maps (block, offset) back to the basis state.
func (c *Classification) StateAt(b BlockID, offset int) (State, error) {
	if err := c.check(b, "StateAt"); err != nil {
		return 0, err
	}
	states := c.blocks[b].states
	if offset < 0 || offset >= len(states) {
		return 0, fmt.Errorf("Classification.StateAt(%d,%d): %w", b, offset, ErrInvalidState)
	}

	return states[offset], nil
}
