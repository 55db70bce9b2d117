// Package workers provides a fixed-size worker pool for evaluating many
// negotiation sessions in parallel. Evaluations are pure and independent
// of each other, so they fan out safely; applying the answers stays
// sequential in the caller.
package workers

import (
	"fmt"
	"sync"

	"github.com/apexsim/paddock/internal/modules/negotiation"
)

// DefaultWorkers is the pool size used when none is given.
const DefaultWorkers = 10

// EvalFunc computes the counterparty's answer for one session without
// mutating it.
type EvalFunc func(sessionID string) (negotiation.Response, error)

// ProgressFunc receives one tick per completed evaluation.
type ProgressFunc func(current, total int, message string)

// SessionResult pairs a session with its computed answer.
type SessionResult struct {
	SessionID string
	Response  negotiation.Response
	Err       error
}

// WorkerPool manages a pool of worker goroutines for parallel session evaluation
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// EvaluateBatch evaluates the given sessions in parallel and returns the
// results in input order. The progress callback, when non-nil, is called
// once per completed session; calls are serialized.
func (wp *WorkerPool) EvaluateBatch(sessionIDs []string, evaluate EvalFunc, progress ProgressFunc) []SessionResult {
	total := len(sessionIDs)
	if total == 0 {
		return []SessionResult{}
	}

	jobs := make(chan jobItem, total)
	results := make(chan resultItem, total)

	numActualWorkers := wp.numWorkers
	if total < numActualWorkers {
		numActualWorkers = total // Don't spawn more workers than sessions
	}

	var progressMu sync.Mutex
	completed := 0
	tick := func(sessionID string) {
		if progress == nil {
			return
		}
		progressMu.Lock()
		completed++
		progress(completed, total, fmt.Sprintf("Evaluating session %s", sessionID))
		progressMu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				resp, err := evaluate(job.sessionID)
				results <- resultItem{
					index: job.index,
					result: SessionResult{
						SessionID: job.sessionID,
						Response:  resp,
						Err:       err,
					},
				}
				tick(job.sessionID)
			}
		}()
	}

	for idx, id := range sessionIDs {
		jobs <- jobItem{
			index:     idx,
			sessionID: id,
		}
	}
	close(jobs)

	wg.Wait()
	close(results)

	out := make([]SessionResult, total)
	for r := range results {
		out[r.index] = r.result
	}
	return out
}

// jobItem represents a single evaluation job
type jobItem struct {
	sessionID string
	index     int
}

// resultItem represents the result of an evaluation job
type resultItem struct {
	result SessionResult
	index  int
}
