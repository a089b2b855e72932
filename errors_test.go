package rth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compat-infra/rth/runner"
)

func TestRuntimeErrorPredicate(t *testing.T) {
	err := NewRuntimeError(errors.New("bad config"))
	assert.True(t, IsRuntimeError(err))
	assert.True(t, IsRuntimeError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRuntimeError(errors.New("plain")))
	assert.False(t, IsRuntimeError(nil))
	assert.Contains(t, err.Error(), "runtime error")
}

func TestMatrixFailureErrorWrapsCommandError(t *testing.T) {
	cmdErr := runner.NewCommandError([]string{"swiftc", "-D", "AFTER"}, 1)
	err := NewMatrixFailureError(cmdErr)

	assert.True(t, IsMatrixFailureError(err))
	assert.True(t, runner.IsCommandError(err), "CommandError stays inspectable through the wrapper")
	assert.False(t, IsRuntimeError(err))

	var unwrapped *runner.CommandError
	assert.True(t, errors.As(err, &unwrapped))
	assert.Equal(t, 1, unwrapped.ExitCode)
}
