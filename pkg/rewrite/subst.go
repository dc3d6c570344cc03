package rewrite

import (
	"fmt"

	"github.com/aretw0/graft/pkg/term"
)

// FunctorBindingError reports a binding that puts a compound term where a
// functor name belongs. Only an atom can be substituted into functor
// position; anything else is rejected rather than coerced.
type FunctorBindingError struct {
	Functor string
	Bound   term.Term
}

func (e *FunctorBindingError) Error() string {
	return fmt.Sprintf("cannot substitute %s for functor name %s: expected a symbol", e.Bound, e.Functor)
}

// Instantiate builds a new term from a template by replacing every bound
// atom with its binding. Unbound atoms stay literal. Terms are immutable,
// so bound terms are shared rather than deep-copied.
//
// A functor name is itself subject to substitution: if the name is bound
// to an atom the result's functor takes that atom's name. A name bound to
// a compound term fails with FunctorBindingError.
func Instantiate(b Bindings, template term.Term) (term.Term, error) {
	switch tm := template.(type) {
	case term.Atom:
		if bound, ok := b[tm.Name]; ok {
			return bound, nil
		}
		return tm, nil

	case term.Compound:
		functor := tm.Functor
		if bound, ok := b[tm.Functor]; ok {
			atom, isAtom := bound.(term.Atom)
			if !isAtom {
				return nil, &FunctorBindingError{Functor: tm.Functor, Bound: bound}
			}
			functor = atom.Name
		}

		args := make([]term.Term, len(tm.Args))
		for i, arg := range tm.Args {
			inst, err := Instantiate(b, arg)
			if err != nil {
				return nil, err
			}
			args[i] = inst
		}
		return term.Compound{Functor: functor, Args: args}, nil
	}
	return template, nil
}
