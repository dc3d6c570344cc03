package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLines(t *testing.T, opts Options, lines ...string) (string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	opts.In = strings.NewReader(strings.Join(lines, "\n") + "\n")
	opts.Out = &out
	opts.Err = &errOut

	require.NoError(t, RunREPL(opts))
	return out.String(), errOut.String()
}

func TestRunREPL_FullSession(t *testing.T) {
	out, errOut := runLines(t, Options{},
		"rule swap swap(pair(a, b)) = pair(b, a)",
		"shape foo(swap(pair(f(a), g(b))), swap(pair(q(c), z(d))))",
		"apply swap",
		"done",
	)

	assert.Empty(t, errOut)
	assert.Equal(t, strings.Join([]string{
		"Defined rule swap(pair(a, b)) = pair(b, a)",
		"Shaping foo(swap(pair(f(a), g(b))), swap(pair(q(c), z(d))))",
		"foo(pair(g(b), f(a)), pair(z(d), q(c)))",
		"Finished shaping expression foo(pair(g(b), f(a)), pair(z(d), q(c)))",
	}, "\n")+"\n", out)
}

func TestRunREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	out, errOut := runLines(t, Options{},
		"apply ghost",
		"shape f(x)",
		"done",
	)

	assert.Contains(t, errOut, "ERROR:")
	assert.Contains(t, errOut, "no shaping in place.")
	assert.Contains(t, out, "Shaping f(x)")
	assert.Contains(t, out, "Finished shaping expression f(x)")
}

func TestRunREPL_SyntaxErrorHasCaret(t *testing.T) {
	_, errOut := runLines(t, Options{}, "shape f(x")

	assert.Contains(t, errOut, "^")
	assert.Contains(t, errOut, "expected ')' but got end of input")
}

func TestRunREPL_BlankLinesAndQuit(t *testing.T) {
	out, errOut := runLines(t, Options{},
		"",
		"   ",
		"shape f(x)",
		"quit",
		"done",
	)

	assert.Empty(t, errOut, "blank lines are not commands")
	assert.Contains(t, out, "Shaping f(x)")
	assert.NotContains(t, out, "Finished", "nothing after quit runs")
}

func TestRunREPL_PreloadsRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"rules:\n  - name: swap\n    head: swap(pair(a, b))\n    body: pair(b, a)\n"), 0644))

	out, errOut := runLines(t, Options{RulesPath: path},
		"shape swap(pair(x, y))",
		"apply swap",
	)

	assert.Empty(t, errOut)
	assert.Contains(t, out, "pair(y, x)")
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "session.graft")
	require.NoError(t, os.WriteFile(script, []byte(strings.Join([]string{
		"rule swap swap(pair(a, b)) = pair(b, a)",
		"shape swap(pair(x, y))",
		"apply swap",
		"done",
	}, "\n")+"\n"), 0644))

	var out, errOut bytes.Buffer
	err := RunScript(script, Options{Out: &out, Err: &errOut})

	require.NoError(t, err)
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "pair(y, x)")
}

func TestRunScript_FailuresAffectExitStatus(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "broken.graft")
	require.NoError(t, os.WriteFile(script, []byte(strings.Join([]string{
		"apply ghost",
		"shape f(x)",
		"done",
	}, "\n")+"\n"), 0644))

	var out, errOut bytes.Buffer
	err := RunScript(script, Options{Out: &out, Err: &errOut})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 command(s) failed")
	assert.Contains(t, errOut.String(), "no shaping in place.")
	assert.Contains(t, out.String(), "Finished shaping expression f(x)",
		"the script keeps running after a failed command")
}
