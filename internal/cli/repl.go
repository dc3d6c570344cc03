// Package cli drives graft sessions from the command line: the
// interactive REPL and the script runner.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/rules"
)

const prompt = "> "

// Options configures the REPL and the script runner.
type Options struct {
	// RulesPath optionally preloads rules from a YAML file.
	RulesPath string
	// Debug enables structured logging to stderr.
	Debug bool
	// NoBanner suppresses the banner and guide even on a terminal.
	NoBanner bool

	// IO streams, settable for tests. Nil means the std streams.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (o *Options) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// RunREPL runs the interactive read-process-report loop. Every line is
// one command; a failing command reports its error and the loop goes on.
// The loop ends on EOF or on the quit/exit shell words, which belong to
// the REPL, not to the command protocol.
func RunREPL(opts Options) error {
	opts.defaults()
	logger := createLogger(opts.Debug)

	eng := graft.New(graft.WithLogger(logger))

	interactive := isTerminal(opts.In)
	if interactive && !opts.NoBanner {
		tui.PrintBanner(graft.Version)
		fmt.Fprint(opts.Out, tui.RenderGuide())
	}

	if err := preloadRules(eng, opts, logger, interactive); err != nil {
		return err
	}

	caretOffset := 0
	if interactive {
		// The typed input sits after the prompt, so the caret shifts
		// with it.
		caretOffset = len(prompt)
	}

	scanner := bufio.NewScanner(opts.In)
	lineno := 0
	for {
		if interactive {
			fmt.Fprint(opts.Out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lineno++
			continue
		}
		if trimmed == "quit" || trimmed == "exit" {
			break
		}

		result, err := eng.EvalAt(line, lineno)
		if err != nil {
			reportError(opts.Err, err, caretOffset)
		} else {
			fmt.Fprintln(opts.Out, result)
		}
		lineno++
	}
	return scanner.Err()
}

// preloadRules loads the optional rules file into the engine.
func preloadRules(eng *graft.Engine, opts Options, logger *slog.Logger, interactive bool) error {
	if opts.RulesPath == "" {
		return nil
	}

	named, err := rules.Load(opts.RulesPath)
	if err != nil {
		return err
	}
	for _, nr := range named {
		if err := eng.AddRule(nr.Name, nr.Rule); err != nil {
			return fmt.Errorf("preloading rule %s: %w", nr.Name, err)
		}
	}

	logger.Debug("rules preloaded", "path", opts.RulesPath, "count", len(named))
	if interactive && len(named) > 0 {
		printSystemMessage(opts.Out, "Loaded %d rule(s) from %s", len(named), opts.RulesPath)
	}
	return nil
}

// createLogger configures the application logger. Outside debug mode it
// is a no-op so stdout stays a clean protocol surface.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && xterm.IsTerminal(int(f.Fd()))
}
