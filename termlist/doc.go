// SPDX-License-Identifier: MIT

// Package termlist stores the terms of a Lehmann sum in an ordered slice that
// merges equivalent terms on insertion.
//
// Two terms a and b are equivalent when neither Less(a, b) nor Less(b, a)
// holds under the list's comparison tolerance. Adding a term equivalent to a
// stored one replaces it with Merge(stored, new); the merged term is dropped
// if Negligible(merged, tol, Len()+1). A term with no equivalent is inserted
// as is.
//
// Snapshot flattens a list together with both tolerances, and Restore
// rebuilds the ordered list from it, so a list can be shipped between ranks
// without losing its ordering parameters.
package termlist
