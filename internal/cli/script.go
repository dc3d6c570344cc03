package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/graft"
)

// RunScript feeds a file of protocol lines through a fresh session.
// Failing commands are reported and processing continues, mirroring the
// REPL; the returned error reflects whether any command failed, so the
// process exit status is useful in automation.
func RunScript(path string, opts Options) error {
	opts.defaults()
	logger := createLogger(opts.Debug)

	eng := graft.New(graft.WithLogger(logger))
	if err := preloadRules(eng, opts, logger, false); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	failed := 0
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineno++

		if strings.TrimSpace(line) == "" {
			continue
		}

		result, err := eng.EvalAt(line, lineno-1)
		if err != nil {
			failed++
			// Scripts are not echoed like REPL input, so print the
			// offending line before the caret.
			fmt.Fprintf(opts.Err, "%s:%d:\n", path, lineno)
			fmt.Fprintln(opts.Err, line)
			reportError(opts.Err, err, 0)
			continue
		}
		fmt.Fprintln(opts.Out, result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}
