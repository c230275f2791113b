package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Batch resolves a fixed set of jobs in parallel and returns their
// results in submission order. Unlike Pool, which hands results back on
// a channel the caller must drain concurrently, Batch owns the whole
// submit/collect cycle, so a caller holding the full job list cannot
// wedge itself by queueing every job before reading a result.
type Batch struct {
	resolver Resolver
	workers  int
}

// NewBatch creates a batch runner. Non-positive workers defaults to
// runtime.NumCPU().
func NewBatch(resolver Resolver, workers int) *Batch {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Batch{resolver: resolver, workers: workers}
}

// ResolveAll resolves every job and returns a result per job, with
// Results[i] corresponding to jobs[i]. Cancelling the context stops
// work early; already-completed results are still returned, and the
// slots of jobs never resolved stay nil.
func (b *Batch) ResolveAll(ctx context.Context, jobs []Job) *BatchResult {
	if len(jobs) == 0 {
		return &BatchResult{Results: make([]*JobResult, 0)}
	}

	// Small batches are not worth the goroutine churn.
	if len(jobs) <= 2 {
		return b.resolveSequential(ctx, jobs)
	}
	return b.resolveParallel(ctx, jobs)
}

func (b *Batch) resolveSequential(ctx context.Context, jobs []Job) *BatchResult {
	batch := &BatchResult{
		Results:   make([]*JobResult, 0, len(jobs)),
		TotalJobs: len(jobs),
	}
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return batch
		default:
		}

		result := resolveJob(ctx, b.resolver, withID(job))
		batch.Results = append(batch.Results, result)
		batch.CompletedJobs++
		if result.Err != nil {
			batch.Errors++
		} else if result.Diagnosis != nil {
			batch.Matched++
		}
	}
	return batch
}

func (b *Batch) resolveParallel(ctx context.Context, jobs []Job) *BatchResult {
	workers := b.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	// Both channels hold the whole batch, so neither the submitter nor
	// the workers can block on a full buffer.
	jobsChan := make(chan indexedJob, len(jobs))
	resultsChan := make(chan indexedResult, len(jobs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				resultsChan <- indexedResult{
					index:  job.index,
					result: resolveJob(ctx, b.resolver, job.job),
				}
			}
		}()
	}

	go func() {
		for i, job := range jobs {
			jobsChan <- indexedJob{index: i, job: withID(job)}
		}
		close(jobsChan)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	batch := &BatchResult{
		Results:   make([]*JobResult, len(jobs)),
		TotalJobs: len(jobs),
	}
	for ir := range resultsChan {
		batch.Results[ir.index] = ir.result
		batch.CompletedJobs++
		if ir.result.Err != nil {
			batch.Errors++
		} else if ir.result.Diagnosis != nil {
			batch.Matched++
		}
	}
	return batch
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result *JobResult
}

func withID(job Job) Job {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	return job
}

// ResolveBatch is a convenience wrapper running one batch with a
// default-sized runner.
func ResolveBatch(ctx context.Context, resolver Resolver, jobs []Job) *BatchResult {
	return NewBatch(resolver, runtime.NumCPU()).ResolveAll(ctx, jobs)
}
