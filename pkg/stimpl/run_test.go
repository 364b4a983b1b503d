package stimpl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/vito/stimpl/pkg/ioctx"
)

func debugProgram() Node {
	return prog(
		assign("x", intLit(5)),
		assign("name", strLit("stimpl")),
		assign("x", NewMultiply(varRef("x"), intLit(2))),
		printOf(varRef("x")),
		&While{
			Condition: NewLt(varRef("x"), intLit(12)),
			Body:      assign("x", NewAdd(varRef("x"), intLit(1))),
		},
	)
}

func TestRunDebugDump(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	res, err := Run(ctx, debugProgram(), true)
	require.NoError(t, err)
	require.Equal(t, BoolValue{Val: false}, res.Value)

	golden.Assert(t, out.String(), "debug_dump.golden")
}

func TestRunWithoutDebug(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	res, err := Run(ctx, debugProgram(), false)
	require.NoError(t, err)
	require.Equal(t, "10\n", out.String())
	require.Equal(t, 5, res.Env.Len())
}

func TestRunFailureWritesNoDiagnostics(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	res, err := Run(ctx, prog(printOf(strLit("partial")), varRef("nope")), true)
	require.ErrorIs(t, err, ErrSyntax)
	require.Equal(t, Result{}, res)
	require.Equal(t, "partial\n", out.String())
}

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "hello.yaml", `
program:
  - assign: {name: greeting, value: {string: hello}}
  - print: {add: [{var: greeting}, {string: ", world"}]}
`)

	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	res, err := RunFile(ctx, path, false)
	require.NoError(t, err)
	require.Equal(t, "hello, world\n", out.String())
	require.Equal(t, StringValue{Val: "hello, world"}, res.Value)

	_, err = RunFile(ctx, filepath.Join(dir, "missing.yaml"), false)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	var expected strings.Builder
	for n := range 12 {
		// later files do less work, so they tend to finish first
		paths = append(paths, writeProgram(t, dir, fmt.Sprintf("p%02d.yaml", n), fmt.Sprintf(`
program:
  - assign: {name: i, value: {int: 0}}
  - while:
      condition: {lt: [{var: i}, {int: %d}]}
      body: {assign: {name: i, value: {add: [{var: i}, {int: 1}]}}}
  - print: {int: %d}
`, (12-n)*1000, n)))
		fmt.Fprintf(&expected, "%d\n", n)
	}

	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	err := RunFiles(ctx, paths, RunOptions{Parallel: 4})
	require.NoError(t, err)
	require.Equal(t, expected.String(), out.String())
}

func TestRunFilesReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.yaml", "print: {string: ok}\n")
	math := writeProgram(t, dir, "math.yaml", "divide: [{int: 1}, {int: 0}]\n")
	typ := writeProgram(t, dir, "type.yaml", "add: [{int: 1}, {string: one}]\n")
	missing := filepath.Join(dir, "missing.yaml")

	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	err := RunFiles(ctx, []string{math, good, typ, missing}, RunOptions{Parallel: 2, Debug: true})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMath)
	require.ErrorIs(t, err, ErrType)
	require.ErrorIs(t, err, os.ErrNotExist)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, math+":1:1: math error: division by zero: cannot divide 1 by 0", lines[0])
	require.Equal(t, typ+":1:1: type error: mismatched types for Add: cannot add Integer and String", lines[1])
	require.True(t, strings.HasPrefix(lines[2], missing+": failed to open program: "), lines[2])

	require.Equal(t, "ok\n"+
		"program: Print(StringLiteral(\"ok\"))\n"+
		"final_value: (ok, String)\n"+
		"final_state: \n", out.String())
}

func TestRunFilesNamesMalformedFilesOnce(t *testing.T) {
	dir := t.TempDir()
	malformed := writeProgram(t, dir, "malformed.yaml", "add: {int: 1}\n")
	empty := writeProgram(t, dir, "empty.yaml", "")
	broken := writeProgram(t, dir, "broken.yaml", "add: [\n")

	ctx := ioctx.StdoutToContext(context.Background(), io.Discard)

	err := RunFiles(ctx, []string{malformed, empty, broken}, RunOptions{})
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, malformed+":1:6: expected a list of nodes", lines[0])
	require.Equal(t, empty+": empty program document", lines[1])
	require.True(t, strings.HasPrefix(lines[2], broken+": yaml: "), lines[2])
	for _, line := range lines {
		require.Equal(t, 1, strings.Count(line, dir), line)
	}
}

func TestExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			ctx := ioctx.StdoutToContext(context.Background(), &out)

			_, err := RunFile(ctx, path, false)
			require.NoError(t, err)
			golden.Assert(t, out.String(), filepath.Join("examples", name+".golden"))
		})
	}
}
