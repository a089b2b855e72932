package rth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/compat-infra/rth/types"
)

func TestMatrixResultRecording(t *testing.T) {
	pairs := types.Pairs(false)
	r := newMatrixResult("run-1", "fixed_layout", pairs)
	assert.Equal(t, types.StatusPass, r.Status)

	r.recordStage(types.StageSetup, time.Now(), nil)
	r.recordStage(types.StageCompileLibrary, time.Now(), errors.New("boom"))
	assert.Equal(t, types.StatusFail, r.Status)

	r.recordLink(pairs[0], nil)
	r.recordExecute(pairs[0], nil)
	assert.True(t, r.Pairs[0].Linked)
	assert.True(t, r.Pairs[0].Executed)
	assert.Equal(t, types.StatusPass, r.Pairs[0].Status)

	r.recordLink(pairs[1], errors.New("link failed"))
	assert.False(t, r.Pairs[1].Linked)
	assert.Equal(t, types.StatusFail, r.Pairs[1].Status)
}

func TestMatrixResultString(t *testing.T) {
	r := newMatrixResult("run-2", "struct_change", types.Pairs(true))
	r.Duration = 1500 * time.Millisecond
	for _, p := range types.Pairs(true) {
		r.recordLink(p, nil)
		r.recordExecute(p, nil)
	}

	s := r.String()
	assert.Contains(t, s, "struct_change")
	assert.Contains(t, s, "pass")
	assert.Contains(t, s, "3 pairs")
	assert.Contains(t, s, "3 linked")
	assert.Contains(t, s, "3 executed")
	assert.Contains(t, s, "1.5s")
}
