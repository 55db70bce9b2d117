package workers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexsim/paddock/internal/modules/negotiation"
)

// stubEval answers deterministically from the session id alone, so batch
// and sequential runs must agree exactly.
func stubEval(sessionID string) (negotiation.Response, error) {
	if sessionID == "ses-broken" {
		return negotiation.Response{}, errors.New("snapshot build failed")
	}
	action := negotiation.ActionAccept
	if len(sessionID)%2 == 1 {
		action = negotiation.ActionCounter
	}
	return negotiation.Response{
		Action:            action,
		Tone:              negotiation.ToneProfessional,
		ResponseDelayDays: len(sessionID) % 7,
		Reason:            sessionID,
	}, nil
}

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name            string
		numWorkers      int
		expectedWorkers int
	}{
		{"positive workers", 5, 5},
		{"zero workers defaults to 10", 0, 10},
		{"negative workers defaults to 10", -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.numWorkers)
			assert.Equal(t, tt.expectedWorkers, pool.numWorkers)
		})
	}
}

func TestEvaluateBatch_Empty(t *testing.T) {
	pool := NewWorkerPool(2)

	progressCalls := 0
	results := pool.EvaluateBatch(nil, stubEval, func(int, int, string) { progressCalls++ })

	assert.Empty(t, results)
	assert.Zero(t, progressCalls, "no progress should be reported for empty input")
}

func TestEvaluateBatch_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(4)

	ids := []string{"ses-a", "ses-bb", "ses-ccc", "ses-dddd", "ses-eeeee"}
	results := pool.EvaluateBatch(ids, stubEval, nil)

	require.Len(t, results, len(ids))
	for i, result := range results {
		assert.Equal(t, ids[i], result.SessionID, "result %d should correspond to input %d", i, i)
		assert.Equal(t, ids[i], result.Response.Reason)
	}
}

func TestEvaluateBatch_MatchesSequential(t *testing.T) {
	pool := NewWorkerPool(3)

	ids := []string{"ses-1", "ses-22", "ses-333", "ses-4444"}

	sequential := make([]SessionResult, 0, len(ids))
	for _, id := range ids {
		resp, err := stubEval(id)
		sequential = append(sequential, SessionResult{SessionID: id, Response: resp, Err: err})
	}

	batch := pool.EvaluateBatch(ids, stubEval, nil)
	assert.Equal(t, sequential, batch)
}

func TestEvaluateBatch_WithProgress(t *testing.T) {
	pool := NewWorkerPool(2)

	ids := []string{"ses-a", "ses-b", "ses-c"}

	var progressCalls []struct {
		current int
		total   int
		message string
	}
	callback := func(current, total int, message string) {
		progressCalls = append(progressCalls, struct {
			current int
			total   int
			message string
		}{current, total, message})
	}

	results := pool.EvaluateBatch(ids, stubEval, callback)

	assert.Len(t, results, 3)
	require.Len(t, progressCalls, 3, "progress should be called for each completed evaluation")

	// Order may vary with parallelism, but the counter never skips.
	for _, call := range progressCalls {
		assert.Equal(t, 3, call.total)
		assert.GreaterOrEqual(t, call.current, 1)
		assert.LessOrEqual(t, call.current, 3)
		assert.Contains(t, call.message, "Evaluating")
	}
}

func TestEvaluateBatch_NilProgress(t *testing.T) {
	pool := NewWorkerPool(2)

	assert.NotPanics(t, func() {
		pool.EvaluateBatch([]string{"ses-a"}, stubEval, nil)
	})
}

func TestEvaluateBatch_CollectsErrors(t *testing.T) {
	pool := NewWorkerPool(2)

	results := pool.EvaluateBatch([]string{"ses-a", "ses-broken", "ses-c"}, stubEval, nil)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err, "one failed evaluation must not poison the batch")
	assert.NoError(t, results[2].Err)
}

func TestEvaluateBatch_MoreSessionsThanWorkers(t *testing.T) {
	pool := NewWorkerPool(2)

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = "ses-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}

	results := pool.EvaluateBatch(ids, stubEval, nil)

	require.Len(t, results, 50)
	for i, result := range results {
		assert.Equal(t, ids[i], result.SessionID)
	}
}
