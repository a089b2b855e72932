package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compat-infra/rth/types"
)

// writeStub writes an executable shell script into dir and returns its path.
func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

type recordingSink struct {
	stages   []types.Stage
	commands [][]string
	outputs  []string
	errs     []error
}

func (s *recordingSink) ConsumeInvocation(stage types.Stage, command []string, output []byte, invErr error) error {
	s.stages = append(s.stages, stage)
	s.commands = append(s.commands, command)
	s.outputs = append(s.outputs, string(output))
	s.errs = append(s.errs, invErr)
	return nil
}

func TestInvokerRunSuccess(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "ok.sh", `echo hello from stub`)

	var out bytes.Buffer
	inv := NewInvoker(Config{Verbose: true, Out: &out})

	err := inv.Run(context.Background(), types.StageCompileLibrary, dir, []string{stub, "-D", "BEFORE"})
	require.NoError(t, err)

	// Command echo comes before the child's output.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], stub)
	assert.Contains(t, lines[0], "-D BEFORE")
	assert.Contains(t, out.String(), "hello from stub")
}

func TestInvokerRunNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "fail.sh", `echo compile error >&2; exit 7`)

	var out bytes.Buffer
	inv := NewInvoker(Config{Verbose: false, Out: &out})

	err := inv.Run(context.Background(), types.StageLink, dir, []string{stub})
	require.Error(t, err)
	require.True(t, IsCommandError(err))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 7, cmdErr.ExitCode)
	assert.Equal(t, []string{stub}, cmdErr.Command)
	assert.Contains(t, cmdErr.Error(), "exited with code 7")

	// stderr is still forwarded.
	assert.Contains(t, out.String(), "compile error")
}

func TestInvokerRunVerboseOff(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "quiet.sh", `true`)

	var out bytes.Buffer
	inv := NewInvoker(Config{Verbose: false, Out: &out})

	require.NoError(t, inv.Run(context.Background(), types.StageExecute, dir, []string{stub}))
	assert.Empty(t, out.String())
}

func TestInvokerRunMissingBinary(t *testing.T) {
	var out bytes.Buffer
	inv := NewInvoker(Config{Out: &out})

	err := inv.Run(context.Background(), types.StageExecute, t.TempDir(), []string{"/nonexistent/toolchain"})
	require.Error(t, err)
	assert.False(t, IsCommandError(err), "startup failures are not command exits")
}

func TestInvokerRunEmptyCommand(t *testing.T) {
	inv := NewInvoker(Config{Out: &bytes.Buffer{}})
	err := inv.Run(context.Background(), types.StageSetup, t.TempDir(), nil)
	require.Error(t, err)
}

func TestInvokerSinkReceivesOutput(t *testing.T) {
	dir := t.TempDir()
	ok := writeStub(t, dir, "ok.sh", `echo captured`)
	bad := writeStub(t, dir, "bad.sh", `exit 3`)

	sink := &recordingSink{}
	inv := NewInvoker(Config{Out: &bytes.Buffer{}, Sink: sink})

	require.NoError(t, inv.Run(context.Background(), types.StageCompileMain, dir, []string{ok}))
	require.Error(t, inv.Run(context.Background(), types.StageExecute, dir, []string{bad}))

	require.Len(t, sink.stages, 2)
	assert.Equal(t, types.StageCompileMain, sink.stages[0])
	assert.Contains(t, sink.outputs[0], "captured")
	assert.NoError(t, sink.errs[0])
	assert.True(t, IsCommandError(sink.errs[1]))
}

func TestQuoteCommand(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		want    string
	}{
		{
			name:    "plain args untouched",
			command: []string{"swiftc", "-D", "BEFORE"},
			want:    "swiftc -D BEFORE",
		},
		{
			name:    "spaces quoted",
			command: []string{"run", "a b"},
			want:    "run 'a b'",
		},
		{
			name:    "empty arg",
			command: []string{"run", ""},
			want:    "run ''",
		},
		{
			name:    "single quote escaped",
			command: []string{"echo", "it's"},
			want:    `echo 'it'"'"'s'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteCommand(tt.command))
		})
	}
}
