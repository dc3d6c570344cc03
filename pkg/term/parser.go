package term

import (
	"fmt"

	"github.com/aretw0/graft/pkg/lexer"
)

// UnexpectedTokenError reports a token that does not fit the grammar. It
// carries the set of kinds the parser would have accepted and the actual
// token, whose location drives caret rendering in the CLI.
type UnexpectedTokenError struct {
	Expected lexer.KindSet
	Actual   lexer.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s but got %s '%s'", e.Expected, e.Actual.Kind, e.Actual.Text)
}

// Expect consumes one token and checks it against the accepted kinds.
func Expect(l *lexer.Lexer, kinds lexer.KindSet) (lexer.Token, error) {
	tok := l.Next()
	if !kinds.Contains(tok.Kind) {
		return lexer.Token{}, &UnexpectedTokenError{Expected: kinds, Actual: tok}
	}
	return tok, nil
}

// Parse reads exactly one term from the stream using recursive descent
// with one token of lookahead:
//
//	term := Sym | Sym '(' (term (',' term)*)? ')'
//
// It leaves the stream positioned after the term; whether trailing tokens
// are an error is the caller's decision.
func Parse(l *lexer.Lexer) (Term, error) {
	name := l.Next()
	if name.Kind != lexer.Sym {
		return nil, &UnexpectedTokenError{Expected: lexer.Single(lexer.Sym), Actual: name}
	}

	if _, ok := l.NextIf(lexer.OpenParen); !ok {
		return Atom{Name: name.Text}, nil
	}

	var args []Term
	if _, ok := l.NextIf(lexer.CloseParen); ok {
		return Compound{Functor: name.Text, Args: args}, nil
	}

	arg, err := Parse(l)
	if err != nil {
		return nil, err
	}
	args = append(args, arg)

	for {
		if _, ok := l.NextIf(lexer.Comma); !ok {
			break
		}
		arg, err := Parse(l)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if closing := l.Next(); closing.Kind != lexer.CloseParen {
		return nil, &UnexpectedTokenError{Expected: lexer.Single(lexer.CloseParen), Actual: closing}
	}
	return Compound{Functor: name.Text, Args: args}, nil
}

// ParseString parses src as a single complete term. Unlike Parse it
// rejects trailing input.
func ParseString(src string) (Term, error) {
	l := lexer.New(src)
	t, err := Parse(l)
	if err != nil {
		return nil, err
	}
	if _, err := Expect(l, lexer.Single(lexer.End)); err != nil {
		return nil, err
	}
	return t, nil
}
