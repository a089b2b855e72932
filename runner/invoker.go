// Package runner executes the external toolchain and runner commands on
// behalf of the matrix harness. Every invocation is blocking and is held to
// an exact zero-exit-code contract.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/compat-infra/rth/metrics"
	"github.com/compat-infra/rth/types"
)

// Sink receives the captured output of each invocation. Implemented by
// logging.FileLogger; nil sinks are allowed.
type Sink interface {
	ConsumeInvocation(stage types.Stage, command []string, output []byte, invErr error) error
}

// Invoker runs external commands sequentially, echoing each command line
// before it runs and converting non-zero exits into CommandErrors.
type Invoker struct {
	log     log.Logger
	verbose bool
	out     io.Writer
	sink    Sink
}

// Config contains invoker configuration
type Config struct {
	Log     log.Logger
	Verbose bool
	Out     io.Writer // destination for the verbose command echo; defaults to os.Stdout
	Sink    Sink
}

// NewInvoker creates a new Invoker.
func NewInvoker(cfg Config) *Invoker {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Invoker{
		log:     cfg.Log,
		verbose: cfg.Verbose,
		out:     cfg.Out,
		sink:    cfg.Sink,
	}
}

// Run executes command (argv form) in workDir, blocking until it exits.
// A non-zero exit status is returned as a *CommandError carrying the full
// argv; all other failures (command not found, context canceled) are
// returned as-is. The child's combined output is forwarded to the invoker's
// writer and, when a sink is configured, recorded per invocation.
func (i *Invoker) Run(ctx context.Context, stage types.Stage, workDir string, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command for stage %s", stage)
	}

	if i.verbose {
		// Echo the quoted command line before running it, flushed
		// immediately so interleaved child output stays ordered.
		fmt.Fprintln(i.out, QuoteCommand(command))
	}

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = io.MultiWriter(i.out, &buf)
	cmd.Stderr = io.MultiWriter(i.out, &buf)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	var invErr error
	switch {
	case err == nil:
		i.log.Debug("Command succeeded", "stage", stage, "command", command[0], "duration", duration)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr = NewCommandError(command, exitErr.ExitCode())
		} else {
			invErr = fmt.Errorf("failed to start %q: %w", command[0], err)
		}
		i.log.Error("Command failed", "stage", stage, "command", QuoteCommand(command), "error", invErr)
	}

	metrics.RecordInvocation(stage, duration, invErr == nil)

	if i.sink != nil {
		if err := i.sink.ConsumeInvocation(stage, command, buf.Bytes(), invErr); err != nil {
			i.log.Error("Failed to record invocation log", "error", err)
		}
	}
	return invErr
}

// QuoteCommand renders an argv as a copy-pasteable shell command line.
func QuoteCommand(command []string) string {
	quoted := make([]string, len(command))
	for n, arg := range command {
		quoted[n] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'\\$&|;<>()*?[]#~") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}
