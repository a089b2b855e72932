package types

// Stage identifies one phase of the matrix pipeline.
type Stage string

// String implements the Stringer interface for Stage
func (s Stage) String() string {
	return string(s)
}

// Stage enum values, in pipeline order.
const (
	StageSetup          Stage = "setup"
	StageCompileLibrary Stage = "compile-library"
	StageCompileMain    Stage = "compile-main"
	StageLink           Stage = "link"
	StageExecute        Stage = "execute"
)

// Status represents the outcome of a stage or pair.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// String implements the Stringer interface for Status
func (s Status) String() string {
	return string(s)
}
