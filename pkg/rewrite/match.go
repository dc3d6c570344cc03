// Package rewrite implements pattern matching, substitution and the
// single-layer rewrite used to apply a rule to a term.
package rewrite

import (
	"github.com/aretw0/graft/pkg/term"
)

// Bindings maps atom names bound during a match to the terms they stand
// for. One Bindings value lives for exactly one top-level match attempt.
type Bindings map[string]term.Term

// Match matches a pattern against a ground value. It is one-directional,
// not unification: atoms in the pattern bind to whatever subterm sits at
// their position, while the value is never treated as containing
// variables.
//
// A repeated atom name in the pattern is a consistency constraint: the
// second occurrence only matches a value structurally equal to the one
// the first occurrence bound. On any failure the whole match fails and
// the partial bindings are discarded; there is no backtracking.
func Match(pattern, value term.Term) (Bindings, bool) {
	b := Bindings{}
	if !matchInto(pattern, value, b) {
		return nil, false
	}
	return b, true
}

// matchInto threads a single accumulator through the whole attempt, so
// bindings made by earlier arguments constrain later ones.
func matchInto(pattern, value term.Term, b Bindings) bool {
	switch p := pattern.(type) {
	case term.Atom:
		if bound, ok := b[p.Name]; ok {
			return bound.Equal(value)
		}
		b[p.Name] = value
		return true

	case term.Compound:
		v, ok := value.(term.Compound)
		if !ok || v.Functor != p.Functor || len(v.Args) != len(p.Args) {
			return false
		}
		for i := range p.Args {
			if !matchInto(p.Args[i], v.Args[i], b) {
				return false
			}
		}
		return true
	}
	return false
}
