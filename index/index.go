// SPDX-License-Identifier: MIT

package index

import (
	"fmt"
	"sort"
)

// MaxIndices bounds the number of single-particle modes. Fock states are
// stored as uint64 bitmasks and the full space (2^N states) is enumerated.
const MaxIndices = 30

// Spin projection of a mode.
type Spin uint8

const (
	Down Spin = iota
	Up
)

// String implements fmt.Stringer.
func (s Spin) String() string {
	if s == Up {
		return "up"
	}

	return "dn"
}

// Info is the physical label of a single-particle mode.
type Info struct {
	Site    string
	Orbital int
	Spin    Spin
}

// String implements fmt.Stringer.
func (i Info) String() string {
	return fmt.Sprintf("%s:%d:%s", i.Site, i.Orbital, i.Spin)
}

func (i Info) less(j Info) bool {
	if i.Site != j.Site {
		return i.Site < j.Site
	}
	if i.Orbital != j.Orbital {
		return i.Orbital < j.Orbital
	}

	return i.Spin < j.Spin
}

// Classification is an immutable bijection between labels and [0, Len()).
type Classification struct {
	infos []Info
	byKey map[Info]int
}

// New builds a classification from labels in any order.
func New(infos ...Info) (*Classification, error) {
	if len(infos) == 0 {
		return nil, ErrEmpty
	}
	if len(infos) > MaxIndices {
		return nil, fmt.Errorf("index.New(%d labels): %w", len(infos), ErrTooManyIndices)
	}
	sorted := make([]Info, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].less(sorted[b]) })

	byKey := make(map[Info]int, len(sorted))
	for i, info := range sorted {
		if _, dup := byKey[info]; dup {
			return nil, fmt.Errorf("index.New(%s): %w", info, ErrDuplicateIndex)
		}
		byKey[info] = i
	}

	return &Classification{infos: sorted, byKey: byKey}, nil
}

// ForSites declares every (site, orbital, spin) combination for the given
// sites and their orbital counts.
func ForSites(orbitals map[string]int) (*Classification, error) {
	infos := make([]Info, 0, 2*len(orbitals))
	for site, n := range orbitals {
		for o := 0; o < n; o++ {
			infos = append(infos, Info{Site: site, Orbital: o, Spin: Down}, Info{Site: site, Orbital: o, Spin: Up})
		}
	}

	return New(infos...)
}

// Len returns the number of modes.
func (c *Classification) Len() int { return len(c.infos) }

// Index returns the integer index of a label.
func (c *Classification) Index(info Info) (int, error) {
	i, ok := c.byKey[info]
	if !ok {
		return 0, fmt.Errorf("Classification.Index(%s): %w", info, ErrUnknownIndex)
	}

	return i, nil
}

// Lookup is Index with the label given by parts.
func (c *Classification) Lookup(site string, orbital int, spin Spin) (int, error) {
	return c.Index(Info{Site: site, Orbital: orbital, Spin: spin})
}

// Info returns the label of an integer index.
func (c *Classification) Info(i int) (Info, error) {
	if i < 0 || i >= len(c.infos) {
		return Info{}, fmt.Errorf("Classification.Info(%d): %w", i, ErrUnknownIndex)
	}

	return c.infos[i], nil
}

// Infos returns a copy of all labels in index order.
func (c *Classification) Infos() []Info {
	out := make([]Info, len(c.infos))
	copy(out, c.infos)

	return out
}

// Orbitals returns the number of orbitals declared for site.
func (c *Classification) Orbitals(site string) int {
	n := 0
	for _, info := range c.infos {
		if info.Site == site && info.Orbital+1 > n {
			n = info.Orbital + 1
		}
	}

	return n
}
