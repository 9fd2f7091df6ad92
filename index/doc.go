// SPDX-License-Identifier: MIT

// Package index maps physical single-particle labels (site, orbital, spin)
// to a dense integer range [0, N) and back.
//
// The ordering is deterministic: labels are sorted by site name, then
// orbital, then spin (Down before Up). Every other package of the engine
// refers to single-particle modes only through these integers.
package index
