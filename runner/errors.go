package runner

import (
	"errors"
	"fmt"
)

// CommandError represents an external invocation that exited non-zero.
// The matrix treats every such exit as fatal, whether it came from a
// compile, a link, or a run of a linked binary.
type CommandError struct {
	Command  []string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s exited with code %d", QuoteCommand(e.Command), e.ExitCode)
}

// NewCommandError creates a new CommandError
func NewCommandError(command []string, exitCode int) *CommandError {
	return &CommandError{Command: command, ExitCode: exitCode}
}

// IsCommandError checks if the error is or wraps a CommandError
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return err != nil && errors.As(err, &cmdErr)
}
