// Package batch executes one mutation across a set of leads with
// per-item failure isolation and a single aggregate outcome. Two
// strategies exist behind the same Job contract: a strictly sequential
// per-id loop, and a single server-side batch request for archive and
// restore.
package batch

import (
	"context"
	"fmt"

	"leadconsole/platform/logger"
)

// Job is the aggregate bookkeeping for one batch run. The id list is a
// snapshot taken at submission time: selection changes after the run
// starts do not affect it. A job is terminal when every id is accounted
// for as completed or failed; it is reported once and then discarded.
type Job struct {
	ids          []int64
	completed    int
	failed       int
	perItemError map[int64]string
}

// Total returns the number of ids in the snapshot.
func (j *Job) Total() int { return len(j.ids) }

// Completed returns the count of successful items so far.
func (j *Job) Completed() int { return j.completed }

// Failed returns the count of failed items so far.
func (j *Job) Failed() int { return j.failed }

// Done reports whether every id is accounted for.
func (j *Job) Done() bool { return j.completed+j.failed == len(j.ids) }

// ItemError returns the recorded failure reason for one id.
func (j *Job) ItemError(id int64) (string, bool) {
	reason, ok := j.perItemError[id]
	return reason, ok
}

// FailedIDs returns the failed ids in their original submission order,
// so a caller can narrow a retry to the failed subset.
func (j *Job) FailedIDs() []int64 {
	if j.failed == 0 {
		return nil
	}
	out := make([]int64, 0, j.failed)
	for _, id := range j.ids {
		if _, ok := j.perItemError[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Summary renders the aggregate outcome line.
func (j *Job) Summary() string {
	if j.failed == 0 {
		return fmt.Sprintf("Updated %d", j.completed)
	}
	return fmt.Sprintf("Updated %d; failed %d", j.completed, j.failed)
}

// MutateFunc applies the mutation to one lead: fetch entity, apply
// change, submit the full representation.
type MutateFunc func(ctx context.Context, id int64) error

// BulkFunc applies the mutation to the whole id list in one request.
type BulkFunc func(ctx context.Context, ids []int64) error

// Options configures a run.
type Options struct {
	// Action names the mutation for logging.
	Action string
	// OnProgress is invoked after each item settles (and once, from 0
	// to total, for the single-request strategy).
	OnProgress func(completed, failed, total int)
}

// Runner executes batch operations.
type Runner struct {
	log *logger.Logger
}

// NewRunner creates a batch runner.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes mutate over the ids strictly sequentially: one id settles
// before the next begins, which keeps the progress counter trivially
// monotonic. Failures are recorded per item and never abort the run;
// every remaining id is still attempted. The returned job is terminal.
func (r *Runner) Run(ctx context.Context, ids []int64, mutate MutateFunc, opts Options) *Job {
	job := newJob(ids)

	for _, id := range ids {
		if err := mutate(ctx, id); err != nil {
			job.failed++
			job.perItemError[id] = err.Error()
			r.log.BatchItemError(opts.Action, id, err)
		} else {
			job.completed++
		}
		r.report(job, opts)
	}

	return job
}

// RunBulk executes the mutation as one server-side batch request.
// Progress jumps directly from zero to total on response. On failure
// every id records the same reason, preserving the Job contract.
func (r *Runner) RunBulk(ctx context.Context, ids []int64, bulk BulkFunc, opts Options) *Job {
	job := newJob(ids)

	if err := bulk(ctx, append([]int64(nil), ids...)); err != nil {
		job.failed = len(ids)
		for _, id := range ids {
			job.perItemError[id] = err.Error()
		}
		r.log.BatchItemError(opts.Action, 0, err)
	} else {
		job.completed = len(ids)
	}
	r.report(job, opts)

	return job
}

func newJob(ids []int64) *Job {
	return &Job{
		ids:          append([]int64(nil), ids...),
		perItemError: make(map[int64]string),
	}
}

func (r *Runner) report(job *Job, opts Options) {
	r.log.BatchProgress(opts.Action, job.completed, job.failed, job.Total())
	if opts.OnProgress != nil {
		opts.OnProgress(job.completed, job.failed, job.Total())
	}
}
