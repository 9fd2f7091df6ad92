// SPDX-License-Identifier: MIT

package termlist

import "sort"

// Policy defines ordering, merging and negligibility of terms of type T.
type Policy[T any] interface {
	// Less is a strict order on terms that are not equivalent within tol.
	Less(a, b T, tol float64) bool
	// Merge returns the sum of two equivalent terms.
	Merge(a, b T) T
	// Negligible reports whether t can be dropped from a list that would
	// hold divisor terms.
	Negligible(t T, tol float64, divisor int) bool
}

// Tolerances parameterize a Policy.
type Tolerances struct {
	Compare    float64 `yaml:"compare" json:"compare"`
	Negligible float64 `yaml:"negligible" json:"negligible"`
}

// List is an ordered, merging container of terms.
type List[T any] struct {
	policy Policy[T]
	tol    Tolerances
	terms  []T
}

// New returns an empty list.
func New[T any](p Policy[T], tol Tolerances) *List[T] {
	return &List[T]{policy: p, tol: tol}
}

// Tolerances returns the ordering and negligibility tolerances.
func (l *List[T]) Tolerances() Tolerances { return l.tol }

// Len returns the number of stored terms.
func (l *List[T]) Len() int { return len(l.terms) }

// Terms returns a copy of the stored terms in order.
func (l *List[T]) Terms() []T { return append([]T(nil), l.terms...) }

func (l *List[T]) search(t T) int {
	return sort.Search(len(l.terms), func(i int) bool {
		return !l.policy.Less(l.terms[i], t, l.tol.Compare)
	})
}

// Add inserts t or merges it with its equivalent.
func (l *List[T]) Add(t T) {
	i := l.search(t)
	if i < len(l.terms) && !l.policy.Less(t, l.terms[i], l.tol.Compare) {
		sum := l.policy.Merge(l.terms[i], t)
		l.terms = append(l.terms[:i], l.terms[i+1:]...)
		if !l.policy.Negligible(sum, l.tol.Negligible, len(l.terms)+1) {
			l.insertAt(i, sum)
		}
		return
	}
	l.insertAt(i, t)
}

func (l *List[T]) insertAt(i int, t T) {
	var zero T
	l.terms = append(l.terms, zero)
	copy(l.terms[i+1:], l.terms[i:])
	l.terms[i] = t
}

// Clear removes every term.
func (l *List[T]) Clear() { l.terms = l.terms[:0] }

// Sum evaluates f on every term in order and returns the total.
func (l *List[T]) Sum(f func(T) complex128) complex128 {
	var res complex128
	for _, t := range l.terms {
		res += f(t)
	}

	return res
}

// Check reports whether terms are strictly ordered and none is negligible.
func (l *List[T]) Check() bool {
	n := len(l.terms)
	for i, t := range l.terms {
		if l.policy.Negligible(t, l.tol.Negligible, n+1) {
			return false
		}
		if i > 0 && !l.policy.Less(l.terms[i-1], t, l.tol.Compare) {
			return false
		}
	}

	return true
}

// Snapshot is the flat form of a List.
type Snapshot[T any] struct {
	Tolerances Tolerances `yaml:"tolerances" json:"tolerances"`
	Terms      []T        `yaml:"terms" json:"terms"`
}

// Snapshot returns the terms and tolerances of l.
func (l *List[T]) Snapshot() Snapshot[T] {
	return Snapshot[T]{Tolerances: l.tol, Terms: l.Terms()}
}

// Restore rebuilds a list from s with policy p and the tolerances carried by
// s.
func Restore[T any](p Policy[T], s Snapshot[T]) *List[T] {
	l := New(p, s.Tolerances)
	for _, t := range s.Terms {
		l.Add(t)
	}

	return l
}

// Merge adds every term of o into l. The tolerances of l apply.
func (l *List[T]) Merge(o *List[T]) {
	for _, t := range o.terms {
		l.Add(t)
	}
}
