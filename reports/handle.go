package reports

import (
	"context"
	"fmt"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/jobs"
)

// JobHandle tracks one submitted report-generation job through its
// lifecycle. It composes the job service's streaming and waiting primitives
// and fetches the report once the job succeeds.
//
// JobHandle is NOT safe for concurrent use; each goroutine should hold its
// own handle or use the job id with the services directly.
type JobHandle struct {
	reports *Service
	jobs    *jobs.Service
	job     *core.Job
}

// Job returns the most recent job snapshot the handle has observed.
func (h *JobHandle) Job() *core.Job {
	return h.job
}

// ID returns the job id.
func (h *JobHandle) ID() string {
	return h.job.ID
}

// Stream opens the reconnecting event stream for the job.
func (h *JobHandle) Stream(ctx context.Context, opts ...jobs.StreamOption) (*core.JobStream, error) {
	return h.jobs.Stream(ctx, h.job.ID, opts...)
}

// Wait blocks until the job reaches a terminal state and updates the
// handle's snapshot.
func (h *JobHandle) Wait(ctx context.Context, opts ...jobs.WaitOption) (*core.Job, error) {
	job, err := h.jobs.Wait(ctx, h.job.ID, opts...)
	if err != nil {
		return nil, err
	}
	h.job = job
	return job, nil
}

// Cancel requests cancellation of the job and updates the handle's snapshot.
func (h *JobHandle) Cancel(ctx context.Context) (*core.Job, error) {
	job, err := h.jobs.Cancel(ctx, h.job.ID)
	if err != nil {
		return nil, err
	}
	h.job = job
	return job, nil
}

// Report waits for the job to succeed and fetches the resulting report.
func (h *JobHandle) Report(ctx context.Context, opts ...jobs.WaitOption) (*core.Report, error) {
	job := h.job
	if !job.Status.Terminal() {
		var err error
		job, err = h.Wait(ctx, opts...)
		if err != nil {
			return nil, err
		}
	}
	if job.Status != core.StatusSucceeded {
		return nil, &core.JobFailedError{
			JobID:   job.ID,
			Message: fmt.Sprintf("job is %s, no report available", job.Status),
		}
	}
	if job.ReportID == "" {
		return nil, &core.JobFailedError{
			JobID:   job.ID,
			Code:    "missing_report_id",
			Message: "job succeeded without a report id",
		}
	}
	return h.reports.Get(ctx, job.ReportID)
}
