// Package logging handles writing per-invocation command output to files.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"

	"github.com/compat-infra/rth/runner"
	"github.com/compat-infra/rth/types"
)

const (
	// RunDirectoryPrefix is the standardized prefix for run directories.
	RunDirectoryPrefix = "matrixrun-"
	// SummaryFilename is the per-run summary file.
	SummaryFilename = "summary.log"
	// AllLogsFilename is the combined log of every invocation in order.
	AllLogsFilename = "all.log"
)

// FileLogger handles writing invocation output to files. One file is written
// per external invocation, plus a combined log, all under a run directory.
type FileLogger struct {
	logDir      string // directory for this run's logs
	summaryFile string
	allLogsFile string

	mu       sync.Mutex
	sequence int
	failed   int
}

// NewFileLogger creates a logger writing under baseDir/<prefix><runID>/.
func NewFileLogger(baseDir string, runID string) (*FileLogger, error) {
	logDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}
	return &FileLogger{
		logDir:      logDir,
		summaryFile: filepath.Join(logDir, SummaryFilename),
		allLogsFile: filepath.Join(logDir, AllLogsFilename),
	}, nil
}

// LogDir returns the directory this run's logs are written to.
func (l *FileLogger) LogDir() string {
	return l.logDir
}

// ConsumeInvocation writes one invocation's command line, outcome, and
// captured output. Implements the runner.Sink interface.
func (l *FileLogger) ConsumeInvocation(stage types.Stage, command []string, output []byte, invErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sequence++
	outcome := "ok"
	if invErr != nil {
		l.failed++
		outcome = invErr.Error()
	}

	entry := fmt.Sprintf("# %03d %s\n%s\n=> %s\n", l.sequence, stage, runner.QuoteCommand(command), outcome)
	// Strip ANSI color codes so the files stay readable in plain viewers.
	body := entry + stripansi.Strip(string(output)) + "\n"

	name := fmt.Sprintf("%03d_%s.log", l.sequence, stage)
	if err := os.WriteFile(filepath.Join(l.logDir, name), []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write invocation log %s: %w", name, err)
	}

	f, err := os.OpenFile(l.allLogsFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open combined log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(body); err != nil {
		return fmt.Errorf("failed to append combined log: %w", err)
	}
	return nil
}

// Complete writes the run summary once all invocations have been consumed.
func (l *FileLogger) Complete(runID string, status types.Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := fmt.Sprintf("run: %s\nstatus: %s\ninvocations: %d\nfailed: %d\n",
		runID, status, l.sequence, l.failed)
	if err := os.WriteFile(l.summaryFile, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
