package session

import (
	"errors"
	"fmt"

	"github.com/aretw0/graft/pkg/lexer"
)

// ErrAlreadyShaping is returned when shape is issued while a term is
// already being shaped.
var ErrAlreadyShaping = errors.New("already shaping an expression")

// ErrNoShaping is returned when apply or done is issued while idle.
var ErrNoShaping = errors.New("no shaping in place")

// RuleExistsError reports an attempt to redefine a rule. It carries both
// definition sites so the CLI can point at the offending name.
type RuleExistsError struct {
	Name     string
	Loc      lexer.Loc
	Existing lexer.Loc
}

func (e *RuleExistsError) Error() string {
	return fmt.Sprintf("redefinition of existing rule %s", e.Name)
}

// RuleMissingError reports an apply referencing an unknown rule.
type RuleMissingError struct {
	Name string
}

func (e *RuleMissingError) Error() string {
	return fmt.Sprintf("rule %s does not exist", e.Name)
}
