package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compat-infra/rth/runner"
	"github.com/compat-infra/rth/types"
)

func TestFileLoggerWritesPerInvocationLogs(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-1")
	require.NoError(t, err)

	require.NoError(t, l.ConsumeInvocation(types.StageCompileLibrary,
		[]string{"swiftc", "-D", "BEFORE"}, []byte("lib output\n"), nil))
	require.NoError(t, l.ConsumeInvocation(types.StageLink,
		[]string{"swiftc", "-o", "before_before"}, []byte("link output\n"),
		runner.NewCommandError([]string{"swiftc"}, 1)))

	logDir := filepath.Join(base, RunDirectoryPrefix+"run-1")
	assert.Equal(t, logDir, l.LogDir())

	first, err := os.ReadFile(filepath.Join(logDir, "001_compile-library.log"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "swiftc -D BEFORE")
	assert.Contains(t, string(first), "=> ok")
	assert.Contains(t, string(first), "lib output")

	second, err := os.ReadFile(filepath.Join(logDir, "002_link.log"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "exited with code 1")

	combined, err := os.ReadFile(filepath.Join(logDir, AllLogsFilename))
	require.NoError(t, err)
	assert.Contains(t, string(combined), "lib output")
	assert.Contains(t, string(combined), "link output")
}

func TestFileLoggerStripsANSICodes(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-3")
	require.NoError(t, err)

	colored := []byte("\x1b[31merror: cannot find 'foo'\x1b[0m\n")
	require.NoError(t, l.ConsumeInvocation(types.StageCompileMain,
		[]string{"swiftc", "-c", "test_x.swift"}, colored, nil))

	entry, err := os.ReadFile(filepath.Join(l.LogDir(), "001_compile-main.log"))
	require.NoError(t, err)
	assert.Contains(t, string(entry), "error: cannot find 'foo'")
	assert.NotContains(t, string(entry), "\x1b[")

	combined, err := os.ReadFile(filepath.Join(l.LogDir(), AllLogsFilename))
	require.NoError(t, err)
	assert.NotContains(t, string(combined), "\x1b[")
}

func TestFileLoggerComplete(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-2")
	require.NoError(t, err)

	require.NoError(t, l.ConsumeInvocation(types.StageExecute, []string{"run"}, nil, nil))
	require.NoError(t, l.Complete("run-2", types.StatusPass))

	summary, err := os.ReadFile(filepath.Join(l.LogDir(), SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "status: pass")
	assert.Contains(t, string(summary), "invocations: 1")
}
