// Package exitcodes defines the standard exit codes used by rth.
package exitcodes

// Exit code constants used by rth
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every external invocation in every matrix exits zero
// * MatrixFailure (1): Used when a compile, link, or execute invocation fails
// * RuntimeErr (2): Used for runtime errors such as bad configuration or filesystem failures
const (
	Success       = 0 // All matrices pass
	MatrixFailure = 1 // An external invocation exited non-zero
	RuntimeErr    = 2 // Runtime or configuration errors
)
