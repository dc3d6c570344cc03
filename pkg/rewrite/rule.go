package rewrite

import (
	"github.com/aretw0/graft/pkg/lexer"
	"github.com/aretw0/graft/pkg/term"
)

// Rule is one named equation: occurrences of Head rewrite to Body. Loc
// records where the rule was defined, for duplicate-definition reports.
type Rule struct {
	Loc  lexer.Loc
	Head term.Term
	Body term.Term
}

func (r Rule) String() string {
	return r.Head.String() + " = " + r.Body.String()
}

// ApplyAll performs one layer of simultaneous, outermost rewrites.
//
// If the whole term matches the head, the instantiated body replaces it
// and that is the end of this subtree: there is no descent into the
// produced body and no further matching inside the original subtree.
// If the whole term does not match, every argument is rewritten
// independently, so disjoint matches across sibling branches are all
// replaced in a single call. ApplyAll never repeats to a fixpoint; one
// call is exactly one layer.
func (r Rule) ApplyAll(t term.Term) (term.Term, error) {
	if b, ok := Match(r.Head, t); ok {
		return Instantiate(b, r.Body)
	}

	c, ok := t.(term.Compound)
	if !ok {
		return t, nil
	}

	args := make([]term.Term, len(c.Args))
	for i, arg := range c.Args {
		rewritten, err := r.ApplyAll(arg)
		if err != nil {
			return nil, err
		}
		args[i] = rewritten
	}
	return term.Compound{Functor: c.Functor, Args: args}, nil
}
