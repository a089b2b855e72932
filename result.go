package rth

import (
	"fmt"
	"time"

	"github.com/compat-infra/rth/types"
)

// StageResult captures the outcome of one pipeline stage.
type StageResult struct {
	Stage    types.Stage
	Duration time.Duration
	Status   types.Status
}

// PairResult captures the outcome of one matrix cell across the link and
// execute phases. A pair the run never reached has neither flag set.
type PairResult struct {
	Pair     types.Pair
	Linked   bool
	Executed bool
	Status   types.Status
}

// MatrixResult captures the complete outcome of one matrix test run.
type MatrixResult struct {
	RunID    string
	TestName string
	Stages   []StageResult
	Pairs    []PairResult
	Status   types.Status
	Duration time.Duration
}

func newMatrixResult(runID, testName string, pairs []types.Pair) *MatrixResult {
	r := &MatrixResult{
		RunID:    runID,
		TestName: testName,
		Status:   types.StatusPass,
	}
	for _, p := range pairs {
		r.Pairs = append(r.Pairs, PairResult{Pair: p, Status: types.StatusPass})
	}
	return r
}

func (r *MatrixResult) recordStage(stage types.Stage, start time.Time, err error) {
	status := types.StatusPass
	if err != nil {
		status = types.StatusFail
		r.Status = types.StatusFail
	}
	r.Stages = append(r.Stages, StageResult{
		Stage:    stage,
		Duration: time.Since(start),
		Status:   status,
	})
}

func (r *MatrixResult) pair(p types.Pair) *PairResult {
	for n := range r.Pairs {
		if r.Pairs[n].Pair == p {
			return &r.Pairs[n]
		}
	}
	return nil
}

func (r *MatrixResult) recordLink(p types.Pair, err error) {
	pr := r.pair(p)
	pr.Linked = err == nil
	if err != nil {
		pr.Status = types.StatusFail
	}
}

func (r *MatrixResult) recordExecute(p types.Pair, err error) {
	pr := r.pair(p)
	pr.Executed = err == nil
	if err != nil {
		pr.Status = types.StatusFail
	}
}

// String returns a one-line summary of the run.
func (r *MatrixResult) String() string {
	linked, executed := 0, 0
	for _, p := range r.Pairs {
		if p.Linked {
			linked++
		}
		if p.Executed {
			executed++
		}
	}
	return fmt.Sprintf("%s: %s (run %s, %d pairs, %d linked, %d executed, %s)",
		r.TestName, r.Status, r.RunID, len(r.Pairs), linked, executed, formatDuration(r.Duration))
}
