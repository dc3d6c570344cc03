/*
Package graft is an interactive equational term rewriting engine: you define
named rewrite rules over symbolic terms and apply them, one observable step at
a time, to a term under inspection.

It targets exploratory equational reasoning — checking algebraic identities by
hand-driven rewriting — not automated theorem proving. There is no fixpoint
normalization and no rule-ordering strategy: every application is one explicit,
observable layer of rewrites.

# Concept

Terms are atoms or compounds: "x", "pair(a, b)", "swap(pair(f(a), g(b)))".
A rule is a head/body pair of terms; atoms in the head act as pattern
variables. Applying a rule replaces every outermost matching subtree with the
instantiated body, simultaneously across sibling branches, without descending
into the produced bodies.

# Usage

The Engine facade drives a session either through the line-oriented command
protocol or through structured calls:

	eng := graft.New()

	out, err := eng.Eval("rule swap swap(pair(a, b)) = pair(b, a)")
	out, err = eng.Eval("shape swap(pair(f(a), g(b)))")
	out, err = eng.Eval("apply swap") // "pair(g(b), f(a))"
	out, err = eng.Eval("done")

The same four operations back the interactive REPL (graft repl), the script
runner (graft run) and the HTTP adapter (graft serve).
*/
package graft
