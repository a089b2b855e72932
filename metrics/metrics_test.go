package metrics

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/compat-infra/rth/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("test error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("test@error#123"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("test   error"),
		},
	}

	validLabel := regexp.MustCompile(`^[a-zA-Z_]*$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := errToLabel(tt.err)
			if !validLabel.MatchString(label) {
				t.Errorf("errToLabel(%v) = %q, not a valid label", tt.err, label)
			}
		})
	}
}

func TestRecordInvocationDoesNotPanic(t *testing.T) {
	RecordInvocation(types.StageCompileLibrary, 10*time.Millisecond, true)
	RecordInvocation(types.StageLink, time.Second, false)
	RecordMatrix("fixed_layout", "run-1", 4, types.StatusPass)
	RecordErrorDetails("setup", errors.New("boom"))
}
