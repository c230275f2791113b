package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	dx "github.com/godental/diagnostics"
)

// stubResolver answers caries jobs with a fixed code, treats C4 as an
// input error and everything periodontal as a no-match.
type stubResolver struct{}

func (stubResolver) ResolveCaries(_ context.Context, obs dx.CariesObservation) (*dx.Diagnosis, error) {
	if obs.Classification == dx.ClassC4 {
		return nil, fmt.Errorf("classification %s rejected", obs.Classification)
	}
	return dx.NewDiagnosis(dx.Code{Code: "K02.61", Description: "caries of enamel"}), nil
}

func (stubResolver) ResolveEndodontic(context.Context, dx.EndodonticObservation) (*dx.Diagnosis, error) {
	return dx.NewDiagnosis(dx.Code{Code: "K04.02", Description: "irreversible pulpitis"}), nil
}

func (stubResolver) ResolvePeriodontal(context.Context, dx.PeriodontalObservation) (*dx.Diagnosis, error) {
	return nil, nil
}

func cariesJob(tooth string) Job {
	return Job{
		Tooth:  tooth,
		Family: dx.FamilyCaries,
		Caries: &dx.CariesObservation{Classification: dx.ClassC1},
	}
}

func TestPool_ResolvesBatch(t *testing.T) {
	pool := NewPool(stubResolver{}, 4)

	for i := 0; i < 10; i++ {
		if !pool.Submit(cariesJob(fmt.Sprintf("1%d", i))) {
			t.Fatalf("Submit refused job %d", i)
		}
	}
	batch := pool.CloseAndWait()

	if batch.TotalJobs != 10 {
		t.Errorf("TotalJobs = %d; want 10", batch.TotalJobs)
	}
	if batch.CompletedJobs != 10 {
		t.Errorf("CompletedJobs = %d; want 10", batch.CompletedJobs)
	}
	if batch.Matched != 10 {
		t.Errorf("Matched = %d; want 10", batch.Matched)
	}
	if batch.Errors != 0 {
		t.Errorf("Errors = %d; want 0", batch.Errors)
	}
	if len(batch.Results) != 10 {
		t.Fatalf("len(Results) = %d; want 10", len(batch.Results))
	}
	for _, res := range batch.Results {
		if res.ID == "" {
			t.Error("result carries empty job ID; want pool-assigned UUID")
		}
		if res.Diagnosis == nil || res.Diagnosis.Primary().Code != "K02.61" {
			t.Errorf("job %s diagnosis = %s; want K02.61", res.Tooth, res.Diagnosis)
		}
	}
}

func TestPool_KeepsCallerID(t *testing.T) {
	pool := NewPool(stubResolver{}, 1)

	job := cariesJob("16")
	job.ID = "chart-16"
	pool.Submit(job)
	batch := pool.CloseAndWait()

	if len(batch.Results) != 1 || batch.Results[0].ID != "chart-16" {
		t.Errorf("results = %+v; want the caller-assigned ID kept", batch.Results)
	}
}

func TestPool_CountsNoMatchesAndErrors(t *testing.T) {
	pool := NewPool(stubResolver{}, 2)

	pool.Submit(cariesJob("11"))
	pool.Submit(Job{
		Tooth:       "12",
		Family:      dx.FamilyPeriodontal,
		Periodontal: &dx.PeriodontalObservation{},
	})
	pool.Submit(Job{
		Tooth:  "13",
		Family: dx.FamilyCaries,
		Caries: &dx.CariesObservation{Classification: dx.ClassC4},
	})
	batch := pool.CloseAndWait()

	if batch.Matched != 1 {
		t.Errorf("Matched = %d; want 1", batch.Matched)
	}
	if batch.Errors != 1 {
		t.Errorf("Errors = %d; want 1", batch.Errors)
	}
	if batch.CompletedJobs != 3 {
		t.Errorf("CompletedJobs = %d; want 3", batch.CompletedJobs)
	}
}

func TestPool_InvalidJobs(t *testing.T) {
	tests := []struct {
		name string
		job  Job
	}{
		{"missing caries observation", Job{Family: dx.FamilyCaries}},
		{"missing periodontal observation", Job{Family: dx.FamilyPeriodontal}},
		{"unsupported family", Job{Family: dx.FamilyHeat}},
		{"unknown family", Job{Family: dx.Family("orthodontic")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(stubResolver{}, 1)
			pool.Submit(tt.job)
			batch := pool.CloseAndWait()

			if batch.Errors != 1 {
				t.Fatalf("Errors = %d; want 1", batch.Errors)
			}
			if batch.Results[0].Err == nil {
				t.Error("result Err = nil; want error")
			}
		})
	}
}

func TestPool_NoResolver(t *testing.T) {
	pool := NewPool(nil, 1)
	pool.Submit(cariesJob("21"))
	batch := pool.CloseAndWait()

	if len(batch.Results) != 1 {
		t.Fatalf("len(Results) = %d; want 1", len(batch.Results))
	}
	if !errors.Is(batch.Results[0].Err, ErrNoResolver) {
		t.Errorf("Err = %v; want ErrNoResolver", batch.Results[0].Err)
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(stubResolver{}, 1)
	pool.Submit(cariesJob("11"))
	pool.CloseAndWait()

	if pool.Submit(cariesJob("12")) {
		t.Error("Submit after close = true; want false")
	}
}

func TestPool_CloseDiscardsResults(t *testing.T) {
	pool := NewPool(stubResolver{}, 2)
	for i := 0; i < 5; i++ {
		pool.Submit(cariesJob("31"))
	}
	pool.Close()

	if pool.Submit(cariesJob("32")) {
		t.Error("Submit after Close = true; want false")
	}
	// Close twice is a no-op.
	pool.Close()
}

func TestPool_Stats(t *testing.T) {
	pool := NewPool(stubResolver{}, 3)
	for i := 0; i < 6; i++ {
		pool.Submit(cariesJob("41"))
	}
	pool.CloseAndWait()

	stats := pool.Stats()
	if stats.Workers != 3 {
		t.Errorf("Workers = %d; want 3", stats.Workers)
	}
	if stats.JobsSubmitted != 6 {
		t.Errorf("JobsSubmitted = %d; want 6", stats.JobsSubmitted)
	}
	if stats.JobsCompleted != 6 {
		t.Errorf("JobsCompleted = %d; want 6", stats.JobsCompleted)
	}
	if stats.Matched != 6 {
		t.Errorf("Matched = %d; want 6", stats.Matched)
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	pool := NewPool(stubResolver{}, 0)
	defer pool.Close()

	if pool.Stats().Workers <= 0 {
		t.Errorf("Workers = %d; want positive default", pool.Stats().Workers)
	}
}
