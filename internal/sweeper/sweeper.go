package sweeper

import (
	"context"
	"time"

	"marketai/internal/marketerrors"
	"marketai/internal/metrics"
	"marketai/internal/models"
	"marketai/utils"
)

// JobFunc processes every record that is due at the time of the call
type JobFunc func(ctx context.Context) (models.SweepResult, error)

// Job is a named sweep step
type Job struct {
	Name string
	Run  JobFunc
}

// JobResult is the outcome of one job in one pass
type JobResult struct {
	Job    string             `json:"job"`
	Result models.SweepResult `json:"result"`
	Err    error              `json:"-"`
}

// Sweeper runs the time-driven jobs in a fixed order, once or on an interval
type Sweeper struct {
	jobs    []Job
	metrics *metrics.Metrics
}

// New creates a Sweeper; m may be nil
func New(m *metrics.Metrics, jobs ...Job) *Sweeper {
	return &Sweeper{jobs: jobs, metrics: m}
}

// RunOnce runs every job once. A failing job is logged and the remaining jobs still run.
func (s *Sweeper) RunOnce(ctx context.Context) []JobResult {
	results := make([]JobResult, 0, len(s.jobs))
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		res, err := job.Run(ctx)
		results = append(results, JobResult{Job: job.Name, Result: res, Err: err})

		s.metrics.ObserveSweep(job.Name, "succeeded", res.Succeeded)
		s.metrics.ObserveSweep(job.Name, "failed", res.Failed)

		fields := map[string]any{
			"job":         job.Name,
			"processed":   res.Processed,
			"succeeded":   res.Succeeded,
			"failed":      res.Failed,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			fields["error"] = err.Error()
			fields["code"] = marketerrors.Code(err)
			utils.Error("sweep job failed", fields)
			continue
		}
		if res.Processed > 0 {
			utils.Info("sweep job completed", fields)
		} else {
			utils.Debug("sweep job completed", fields)
		}
	}
	return results
}

// Run calls RunOnce every interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.Info("sweeper started", map[string]any{"interval": interval.String(), "jobs": len(s.jobs)})
	for {
		select {
		case <-ctx.Done():
			utils.Info("sweeper stopped", nil)
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
