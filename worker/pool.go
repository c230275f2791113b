// Package worker provides a goroutine pool for resolving many
// observations in parallel, e.g. re-scoring every tooth of a full
// mouth chart after a rule-table reload.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	dx "github.com/godental/diagnostics"
)

// Resolver is the subset of the engine the pool needs. Defined here so
// the pool does not depend on the engine package.
type Resolver interface {
	ResolveCaries(ctx context.Context, obs dx.CariesObservation) (*dx.Diagnosis, error)
	ResolveEndodontic(ctx context.Context, obs dx.EndodonticObservation) (*dx.Diagnosis, error)
	ResolvePeriodontal(ctx context.Context, obs dx.PeriodontalObservation) (*dx.Diagnosis, error)
}

// ErrNoResolver is returned on jobs processed by a pool without a
// resolver configured.
var ErrNoResolver = poolError("no resolver configured")

type poolError string

func (e poolError) Error() string {
	return string(e)
}

// Pool manages worker goroutines resolving submitted jobs. Both the
// job queue and the result channel are bounded, so a caller must
// consume Results while it submits; to resolve a fixed job list in one
// call, use Batch instead.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	resolver   Resolver
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	matched       atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool starts a pool with the given number of workers. Non-positive
// defaults to runtime.NumCPU().
func NewPool(resolver Resolver, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		resolver:   resolver,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a job, blocking while the queue is full. Returns false
// once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}
	job = withID(job)
	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// Results returns the channel job results arrive on.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// CloseAndWait stops accepting jobs, drains every pending result and
// returns the aggregated batch outcome.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}
	close(p.jobsChan)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(p.resultChan)
		close(done)
	}()

	batch := &BatchResult{}
	for result := range p.resultChan {
		batch.Results = append(batch.Results, result)
		if result.Err != nil {
			batch.Errors++
		} else if result.Diagnosis != nil {
			batch.Matched++
		}
	}
	<-done

	p.cancel()
	batch.TotalJobs = int(p.jobsSubmitted.Load())
	batch.CompletedJobs = int(p.jobsCompleted.Load())
	return batch
}

// Close shuts the pool down, discarding pending results.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.cancel()
	close(p.jobsChan)

	done := make(chan struct{})
	go func() {
		for range p.resultChan {
		}
		close(done)
	}()
	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// Stats contains pool counters.
type Stats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	Matched       uint64
	AvgDuration   time.Duration
}

// Stats returns the current pool counters.
func (p *Pool) Stats() Stats {
	s := Stats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		Matched:       p.matched.Load(),
	}
	if s.JobsCompleted > 0 {
		s.AvgDuration = time.Duration(p.totalDuration.Load() / s.JobsCompleted)
	}
	return s
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.process(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration.Nanoseconds()))
		if result.Err == nil && result.Diagnosis != nil {
			p.matched.Add(1)
		}

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) process(job Job) *JobResult {
	return resolveJob(p.ctx, p.resolver, job)
}

// resolveJob dispatches one job to the resolver. Shared by Pool and
// Batch.
func resolveJob(ctx context.Context, resolver Resolver, job Job) *JobResult {
	start := time.Now()
	result := &JobResult{ID: job.ID, Tooth: job.Tooth, Family: job.Family}

	if resolver == nil {
		result.Err = ErrNoResolver
		result.Duration = time.Since(start)
		return result
	}

	switch job.Family {
	case dx.FamilyCaries:
		if job.Caries == nil {
			result.Err = fmt.Errorf("job %s: missing caries observation", job.ID)
		} else {
			result.Diagnosis, result.Err = resolver.ResolveCaries(ctx, *job.Caries)
		}
	case dx.FamilyEndodontic:
		result.Diagnosis, result.Err = resolver.ResolveEndodontic(ctx, job.Endodontic)
	case dx.FamilyPeriodontal:
		if job.Periodontal == nil {
			result.Err = fmt.Errorf("job %s: missing periodontal observation", job.ID)
		} else {
			result.Diagnosis, result.Err = resolver.ResolvePeriodontal(ctx, *job.Periodontal)
		}
	default:
		result.Err = fmt.Errorf("job %s: unsupported family %q", job.ID, job.Family)
	}

	result.Duration = time.Since(start)
	return result
}
