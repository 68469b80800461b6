package validation

import (
	"context"
	"sync"
)

// BatchError records a single company's failure within a batch run.
type BatchError struct {
	Err       error
	CompanyID string
}

// BatchResult collects the outcomes of a portfolio run. Results and Errors
// together account for every requested company exactly once.
type BatchResult struct {
	Results []*Result
	Errors  []BatchError
}

// ValidateBatch validates every company for one reporting year with bounded
// concurrency. Failures are isolated per company; one bad company never
// aborts the rest. Results preserve the order of companyIDs. The progress
// callback, if non-nil, is invoked once per finished company from worker
// goroutines.
func (e *Engine) ValidateBatch(ctx context.Context, companyIDs []string, year int, concurrency int, progress func()) BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	type slot struct {
		result *Result
		err    error
	}
	slots := make([]slot, len(companyIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for i, id := range companyIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := e.Validate(ctx, id, year)
			slots[i] = slot{result: result, err: err}
			if progress != nil {
				progress()
			}
		}(i, id)
	}
	wg.Wait()

	var batch BatchResult
	for i, s := range slots {
		if s.err != nil {
			batch.Errors = append(batch.Errors, BatchError{
				CompanyID: companyIDs[i],
				Err:       s.err,
			})
			continue
		}
		batch.Results = append(batch.Results, s.result)
	}
	return batch
}
