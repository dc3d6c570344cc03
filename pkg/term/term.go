// Package term holds the symbolic term model and its parser.
//
// A Term is either an Atom (a bare identifier) or a Compound (a functor
// applied to an ordered list of argument terms). Terms are immutable:
// every transformation elsewhere in graft builds new terms and never
// modifies one in place.
package term

import (
	"fmt"
	"strings"
)

// Term is the closed variant Atom | Compound. There is no separate
// variable form: an Atom appearing in a rule head acts as a binder
// during matching, but the model itself does not distinguish it.
type Term interface {
	fmt.Stringer

	// Equal reports structural equality.
	Equal(other Term) bool

	sealed()
}

// Atom is a nullary named term.
type Atom struct {
	Name string
}

func (a Atom) sealed() {}

func (a Atom) String() string {
	return a.Name
}

// Equal reports whether other is an Atom with the same name.
func (a Atom) Equal(other Term) bool {
	o, ok := other.(Atom)
	return ok && o.Name == a.Name
}

// Compound is a named functor applied to zero or more argument terms.
type Compound struct {
	Functor string
	Args    []Term
}

func (c Compound) sealed() {}

func (c Compound) String() string {
	var b strings.Builder
	b.WriteString(c.Functor)
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether other is a Compound with the same functor, the
// same arity and pairwise-equal arguments.
func (c Compound) Equal(other Term) bool {
	o, ok := other.(Compound)
	if !ok || o.Functor != c.Functor || len(o.Args) != len(c.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}
