package tui

import (
	"github.com/charmbracelet/glamour"
)

const guide = `Commands:

- ` + "`rule <name> <head> = <body>`" + ` defines a rewrite rule
- ` + "`shape <term>`" + ` starts shaping a term
- ` + "`apply <name>`" + ` applies a rule once to the shaped term
- ` + "`done`" + ` finishes shaping and reports the result
- ` + "`quit`" + ` leaves the REPL

Terms are symbols or functor applications: ` + "`swap(pair(f(a), g(b)))`" + `.
`

// RenderGuide renders the REPL command guide as styled markdown. It
// falls back to the plain text when the renderer cannot be built.
func RenderGuide() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return guide
	}
	out, err := r.Render(guide)
	if err != nil {
		return guide
	}
	return out
}
