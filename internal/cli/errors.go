package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/graft/pkg/lexer"
	"github.com/aretw0/graft/pkg/session"
	"github.com/aretw0/graft/pkg/term"
)

// errorLoc extracts the source location an error points at, if it has
// one. Syntax errors point at the offending token, duplicate rules at
// the redefined name.
func errorLoc(err error) (lexer.Loc, bool) {
	var ute *term.UnexpectedTokenError
	if errors.As(err, &ute) {
		return ute.Actual.Loc, true
	}
	var exists *session.RuleExistsError
	if errors.As(err, &exists) {
		return exists.Loc, true
	}
	return lexer.Loc{}, false
}

// renderError produces the human-readable message for an ERROR line.
func renderError(err error) string {
	switch {
	case errors.Is(err, session.ErrAlreadyShaping):
		return "already shaping an expression. Finish the current shaping with done first."
	case errors.Is(err, session.ErrNoShaping):
		return "no shaping in place."
	default:
		return err.Error()
	}
}

// reportError writes the caret line (when the error has a location) and
// the ERROR line. offset shifts the caret right, to account for the
// prompt the input was typed after.
func reportError(w io.Writer, err error, offset int) {
	if loc, ok := errorLoc(err); ok {
		fmt.Fprintf(w, "%*s\n", offset+loc.Col+1, "^")
	}
	p := termenv.ColorProfile()
	label := termenv.String("ERROR:").Foreground(p.Color("#f87171")).Bold()
	fmt.Fprintf(w, "%s %s\n", label, renderError(err))
}
