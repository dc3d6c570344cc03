// Package session holds the state machine behind a graft session: the
// rule table and the term currently being shaped.
//
// A session is in one of two states. Idle means no term is held; Shaping
// means a current term is held and subject to rule application. Every
// command is atomic: a failing command leaves the rule table and the
// current term exactly as they were.
//
// A Session is exclusively owned by its command loop and does no locking
// of its own. Adapters that expose one session to concurrent callers
// must serialize access themselves.
package session

import (
	"log/slog"
	"sort"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/rewrite"
	"github.com/aretw0/graft/pkg/term"
)

// Session is the rule table plus the optional term under inspection.
// current == nil is the Idle state.
type Session struct {
	rules   map[string]rewrite.Rule
	current term.Term
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a structured logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates an idle session with an empty rule table.
func New(opts ...Option) *Session {
	s := &Session{
		rules:  make(map[string]rewrite.Rule),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefineRule inserts a rule under the given name. Valid in any state and
// does not change it. Redefinition fails with RuleExistsError and leaves
// the table untouched, keeping the first definition.
func (s *Session) DefineRule(name string, rule rewrite.Rule) error {
	if existing, ok := s.rules[name]; ok {
		return &RuleExistsError{Name: name, Loc: rule.Loc, Existing: existing.Loc}
	}
	s.rules[name] = rule
	s.logger.Debug("rule defined", "name", name, "rule", rule.String())
	return nil
}

// Shape starts shaping the given term. Only valid while idle.
func (s *Session) Shape(t term.Term) error {
	if s.current != nil {
		return ErrAlreadyShaping
	}
	s.current = t
	s.logger.Debug("shaping started", "term", t.String())
	return nil
}

// Apply rewrites the current term with the named rule and makes the
// result the new current term. Only valid while shaping. On any failure
// the current term is unchanged.
func (s *Session) Apply(name string) (term.Term, error) {
	if s.current == nil {
		return nil, ErrNoShaping
	}
	rule, ok := s.rules[name]
	if !ok {
		return nil, &RuleMissingError{Name: name}
	}

	next, err := rule.ApplyAll(s.current)
	if err != nil {
		return nil, err
	}
	s.current = next
	s.logger.Debug("rule applied", "name", name, "term", next.String())
	return next, nil
}

// Done ends shaping, returning the final term and going back to idle.
func (s *Session) Done() (term.Term, error) {
	if s.current == nil {
		return nil, ErrNoShaping
	}
	final := s.current
	s.current = nil
	s.logger.Debug("shaping finished", "term", final.String())
	return final, nil
}

// Shaping returns the term currently being shaped, if any.
func (s *Session) Shaping() (term.Term, bool) {
	return s.current, s.current != nil
}

// Rule looks up a rule by name.
func (s *Session) Rule(name string) (rewrite.Rule, bool) {
	rule, ok := s.rules[name]
	return rule, ok
}

// RuleNames returns the defined rule names in sorted order.
func (s *Session) RuleNames() []string {
	names := make([]string, 0, len(s.rules))
	for name := range s.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
