package graft

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/lexer"
	"github.com/aretw0/graft/pkg/rewrite"
	"github.com/aretw0/graft/pkg/session"
	"github.com/aretw0/graft/pkg/term"
)

// Version is the current graft release.
var Version = "0.1.0"

// commandKinds is what the dispatcher accepts at the start of a line.
var commandKinds = lexer.Single(lexer.Rule).
	With(lexer.Shape).
	With(lexer.Apply).
	With(lexer.Done)

// Engine is the high-level entry point for the graft library. It wraps a
// session together with the lexer and parser, exposing both the line
// protocol (Eval) and structured operations.
//
// Engine does no locking; it is meant to be driven by a single command
// loop. Adapters that share one Engine between goroutines (the HTTP
// server does) must serialize access.
type Engine struct {
	session *session.Session
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with an idle session and an empty rule table.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.session = session.New(session.WithLogger(e.logger))
	return e
}

// Eval processes one line of the command protocol and returns the line to
// report on success. Failures are returned as errors from the taxonomy in
// pkg/term and pkg/session; the session state is then unchanged.
func (e *Engine) Eval(line string) (string, error) {
	return e.EvalAt(line, 0)
}

// EvalAt is Eval with an explicit input line number, so script runners
// keep error locations accurate.
func (e *Engine) EvalAt(line string, lineno int) (string, error) {
	l := lexer.NewAt(line, lineno)

	keyword, err := term.Expect(l, commandKinds)
	if err != nil {
		return "", err
	}

	switch keyword.Kind {
	case lexer.Rule:
		return e.evalRule(l)
	case lexer.Shape:
		return e.evalShape(l)
	case lexer.Apply:
		return e.evalApply(l)
	case lexer.Done:
		return e.evalDone(l)
	}
	panic(fmt.Sprintf("graft: accepted command token %s has no handler", keyword.Kind))
}

// evalRule handles `rule <name> <head> = <body>`. The whole command is
// parsed, including the end-of-input check, before the session is
// touched, so a syntax error never leaves a half-defined rule.
func (e *Engine) evalRule(l *lexer.Lexer) (string, error) {
	name, err := term.Expect(l, lexer.Single(lexer.Sym))
	if err != nil {
		return "", err
	}
	head, err := term.Parse(l)
	if err != nil {
		return "", err
	}
	if _, err := term.Expect(l, lexer.Single(lexer.Equals)); err != nil {
		return "", err
	}
	body, err := term.Parse(l)
	if err != nil {
		return "", err
	}
	if err := expectEnd(l); err != nil {
		return "", err
	}

	rule := rewrite.Rule{Loc: name.Loc, Head: head, Body: body}
	if err := e.session.DefineRule(name.Text, rule); err != nil {
		return "", err
	}
	return fmt.Sprintf("Defined rule %s", rule), nil
}

// evalShape handles `shape <term>`. The state check comes before the
// term parse, so shaping twice reports AlreadyShaping rather than
// whatever syntax problem the new term may have.
func (e *Engine) evalShape(l *lexer.Lexer) (string, error) {
	if _, shaping := e.session.Shaping(); shaping {
		return "", session.ErrAlreadyShaping
	}

	t, err := term.Parse(l)
	if err != nil {
		return "", err
	}
	if err := expectEnd(l); err != nil {
		return "", err
	}

	if err := e.session.Shape(t); err != nil {
		return "", err
	}
	return fmt.Sprintf("Shaping %s", t), nil
}

// evalApply handles `apply <rule-name>`.
func (e *Engine) evalApply(l *lexer.Lexer) (string, error) {
	if _, shaping := e.session.Shaping(); !shaping {
		return "", session.ErrNoShaping
	}

	name, err := term.Expect(l, lexer.Single(lexer.Sym))
	if err != nil {
		return "", err
	}
	if err := expectEnd(l); err != nil {
		return "", err
	}

	next, err := e.session.Apply(name.Text)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// evalDone handles `done`.
func (e *Engine) evalDone(l *lexer.Lexer) (string, error) {
	if err := expectEnd(l); err != nil {
		return "", err
	}

	final, err := e.session.Done()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Finished shaping expression %s", final), nil
}

// expectEnd requires that exactly the end-of-input token remains.
func expectEnd(l *lexer.Lexer) error {
	_, err := term.Expect(l, lexer.Single(lexer.End))
	return err
}

// Define parses head and body sources and inserts the rule under name.
// It is the structured counterpart of the `rule` command.
func (e *Engine) Define(name, headSrc, bodySrc string) (rewrite.Rule, error) {
	head, err := term.ParseString(headSrc)
	if err != nil {
		return rewrite.Rule{}, fmt.Errorf("head of rule %s: %w", name, err)
	}
	body, err := term.ParseString(bodySrc)
	if err != nil {
		return rewrite.Rule{}, fmt.Errorf("body of rule %s: %w", name, err)
	}

	rule := rewrite.Rule{Head: head, Body: body}
	if err := e.session.DefineRule(name, rule); err != nil {
		return rewrite.Rule{}, err
	}
	return rule, nil
}

// AddRule inserts an already-built rule, e.g. one loaded from a rules
// file.
func (e *Engine) AddRule(name string, rule rewrite.Rule) error {
	return e.session.DefineRule(name, rule)
}

// Shape parses src and starts shaping it.
func (e *Engine) Shape(src string) (term.Term, error) {
	if _, shaping := e.session.Shaping(); shaping {
		return nil, session.ErrAlreadyShaping
	}
	t, err := term.ParseString(src)
	if err != nil {
		return nil, err
	}
	if err := e.session.Shape(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply applies the named rule to the term being shaped.
func (e *Engine) Apply(name string) (term.Term, error) {
	return e.session.Apply(name)
}

// Done ends shaping and returns the final term.
func (e *Engine) Done() (term.Term, error) {
	return e.session.Done()
}

// Current returns the term being shaped, if any.
func (e *Engine) Current() (term.Term, bool) {
	return e.session.Shaping()
}

// RuleNames returns the defined rule names in sorted order.
func (e *Engine) RuleNames() []string {
	return e.session.RuleNames()
}

// Rule looks up a defined rule by name.
func (e *Engine) Rule(name string) (rewrite.Rule, bool) {
	return e.session.Rule(name)
}
