package graft_test

import (
	"testing"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/lexer"
	"github.com/aretw0/graft/pkg/session"
	"github.com/aretw0/graft/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EvalFullSession(t *testing.T) {
	eng := graft.New()

	out, err := eng.Eval("rule swap swap(pair(a, b)) = pair(b, a)")
	require.NoError(t, err)
	assert.Equal(t, "Defined rule swap(pair(a, b)) = pair(b, a)", out)

	out, err = eng.Eval("shape foo(swap(pair(f(a), g(b))), swap(pair(q(c), z(d))))")
	require.NoError(t, err)
	assert.Equal(t, "Shaping foo(swap(pair(f(a), g(b))), swap(pair(q(c), z(d))))", out)

	out, err = eng.Eval("apply swap")
	require.NoError(t, err)
	assert.Equal(t, "foo(pair(g(b), f(a)), pair(z(d), q(c)))", out,
		"both sibling matches must be rewritten in one application")

	out, err = eng.Eval("done")
	require.NoError(t, err)
	assert.Equal(t, "Finished shaping expression foo(pair(g(b), f(a)), pair(z(d), q(c)))", out)

	_, shaping := eng.Current()
	assert.False(t, shaping)
}

func TestEngine_EvalErrors(t *testing.T) {
	t.Run("unknown command word", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("frobnicate x")

		var ute *term.UnexpectedTokenError
		require.ErrorAs(t, err, &ute)
		assert.True(t, ute.Expected.Contains(lexer.Rule))
		assert.Equal(t, lexer.Sym, ute.Actual.Kind)
	})

	t.Run("apply while idle", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("apply swap")
		assert.ErrorIs(t, err, session.ErrNoShaping)
	})

	t.Run("done while idle", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("done")
		assert.ErrorIs(t, err, session.ErrNoShaping)
	})

	t.Run("shape while shaping", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("shape f(x)")
		require.NoError(t, err)

		_, err = eng.Eval("shape g(y)")
		assert.ErrorIs(t, err, session.ErrAlreadyShaping)
	})

	t.Run("apply with unknown rule", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("shape f(x)")
		require.NoError(t, err)

		_, err = eng.Eval("apply missing")
		var missing *session.RuleMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "missing", missing.Name)
	})

	t.Run("duplicate rule", func(t *testing.T) {
		eng := graft.New()
		_, err := eng.Eval("rule r f(a) = a")
		require.NoError(t, err)

		_, err = eng.Eval("rule r g(a) = a")
		var exists *session.RuleExistsError
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, "r", exists.Name)
		assert.Equal(t, 5, exists.Loc.Col, "caret must point at the rule name")
	})
}

// A command with trailing tokens is a syntax error and must not touch
// the session.
func TestEngine_TrailingTokensAreAtomic(t *testing.T) {
	eng := graft.New()

	_, err := eng.Eval("shape f(x) junk")
	var ute *term.UnexpectedTokenError
	require.ErrorAs(t, err, &ute)
	assert.True(t, ute.Expected.Contains(lexer.End))

	_, shaping := eng.Current()
	assert.False(t, shaping, "failed shape must leave the session idle")

	_, err = eng.Eval("rule r f(a) = a extra")
	require.Error(t, err)
	assert.Empty(t, eng.RuleNames(), "failed rule must leave the table empty")
}

func TestEngine_StructuredAPI(t *testing.T) {
	eng := graft.New()

	rule, err := eng.Define("swap", "swap(pair(a, b))", "pair(b, a)")
	require.NoError(t, err)
	assert.Equal(t, "swap(pair(a, b)) = pair(b, a)", rule.String())

	shaped, err := eng.Shape("swap(pair(x, y))")
	require.NoError(t, err)
	assert.Equal(t, "swap(pair(x, y))", shaped.String())

	next, err := eng.Apply("swap")
	require.NoError(t, err)
	assert.Equal(t, "pair(y, x)", next.String())

	final, err := eng.Done()
	require.NoError(t, err)
	assert.True(t, final.Equal(next))

	assert.Equal(t, []string{"swap"}, eng.RuleNames())
}

func TestEngine_DefineRejectsBadTerms(t *testing.T) {
	eng := graft.New()

	_, err := eng.Define("broken", "f(a", "a")
	require.Error(t, err)
	assert.Empty(t, eng.RuleNames())
}
