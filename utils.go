package rth

import (
	"time"

	"github.com/compat-infra/rth/types"
)

// getResultString returns a symbol-prefixed string representing a result
func getResultString(status types.Status) string {
	if status == types.StatusPass {
		return "✓ pass"
	}
	return "✗ fail"
}

// boolToMark renders a yes/no table cell
func boolToMark(b bool) string {
	if b {
		return "✓"
	}
	return "-"
}

// formatDuration rounds a duration for display
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
