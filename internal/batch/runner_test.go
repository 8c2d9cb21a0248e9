package batch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"leadconsole/platform/logger"
)

func testRunner() *Runner {
	return NewRunner(logger.New("development"))
}

func TestRunAlwaysTerminatesWithAllIDsAccounted(t *testing.T) {
	cases := []struct {
		name     string
		failEach int // every nth mutate fails; 0 means none
	}{
		{"all succeed", 0},
		{"every second fails", 2},
		{"all fail", 1},
	}

	ids := []int64{1, 2, 3, 4, 5, 6, 7}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := 0
			job := testRunner().Run(context.Background(), ids, func(ctx context.Context, id int64) error {
				n++
				if tc.failEach > 0 && n%tc.failEach == 0 {
					return errors.New("boom")
				}
				return nil
			}, Options{Action: "test"})

			if !job.Done() {
				t.Fatalf("job not terminal: completed=%d failed=%d total=%d", job.Completed(), job.Failed(), job.Total())
			}
			if job.Completed()+job.Failed() != len(ids) {
				t.Fatalf("accounting broken: %d+%d != %d", job.Completed(), job.Failed(), len(ids))
			}
		})
	}
}

func TestRunIsolatesPerItemFailures(t *testing.T) {
	// Five leads, the third fails its fetch; the rest must still be
	// attempted and mutated.
	statuses := map[int64]int64{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}
	order := []int64{}

	job := testRunner().Run(context.Background(), []int64{1, 2, 3, 4, 5}, func(ctx context.Context, id int64) error {
		order = append(order, id)
		if id == 3 {
			return errors.New("entity fetch failed")
		}
		statuses[id] = 2
		return nil
	}, Options{Action: "set-status"})

	if job.Completed() != 4 || job.Failed() != 1 {
		t.Fatalf("expected completed=4 failed=1, got %d/%d", job.Completed(), job.Failed())
	}
	if reason, ok := job.ItemError(3); !ok || reason != "entity fetch failed" {
		t.Fatalf("per-item error missing or wrong: %q %v", reason, ok)
	}
	for id, status := range statuses {
		want := int64(2)
		if id == 3 {
			want = 1
		}
		if status != want {
			t.Fatalf("lead %d: status=%d, want %d", id, status, want)
		}
	}
	if !reflect.DeepEqual(order, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("execution must be sequential in submission order, got %v", order)
	}
	if job.Summary() != "Updated 4; failed 1" {
		t.Fatalf("unexpected summary: %q", job.Summary())
	}
}

func TestRunProgressIsMonotonic(t *testing.T) {
	var reports [][3]int
	testRunner().Run(context.Background(), []int64{1, 2, 3}, func(ctx context.Context, id int64) error {
		if id == 2 {
			return errors.New("boom")
		}
		return nil
	}, Options{
		Action: "test",
		OnProgress: func(completed, failed, total int) {
			reports = append(reports, [3]int{completed, failed, total})
		},
	})

	if len(reports) != 3 {
		t.Fatalf("expected one progress report per item, got %d", len(reports))
	}
	prev := 0
	for i, report := range reports {
		settled := report[0] + report[1]
		if settled != prev+1 {
			t.Fatalf("report %d: settled count jumped from %d to %d", i, prev, settled)
		}
		if report[2] != 3 {
			t.Fatalf("report %d: total drifted to %d", i, report[2])
		}
		prev = settled
	}
}

func TestRunSnapshotsTheIDList(t *testing.T) {
	ids := []int64{1, 2, 3}
	job := testRunner().Run(context.Background(), ids, func(ctx context.Context, id int64) error {
		return nil
	}, Options{Action: "test"})

	// Later selection changes must not affect the finished job.
	ids[0] = 99
	if job.Total() != 3 {
		t.Fatalf("total drifted: %d", job.Total())
	}
	if _, ok := job.ItemError(99); ok {
		t.Fatalf("job leaked the caller's slice")
	}
}

func TestFailedIDsKeepSubmissionOrder(t *testing.T) {
	job := testRunner().Run(context.Background(), []int64{5, 3, 8, 1}, func(ctx context.Context, id int64) error {
		if id == 8 || id == 5 {
			return fmt.Errorf("lead %d rejected", id)
		}
		return nil
	}, Options{Action: "test"})

	if got := job.FailedIDs(); !reflect.DeepEqual(got, []int64{5, 8}) {
		t.Fatalf("failed ids out of order: %v", got)
	}
}

func TestRunBulkSuccessJumpsToTotal(t *testing.T) {
	var reports [][3]int
	job := testRunner().RunBulk(context.Background(), []int64{1, 2, 3, 4}, func(ctx context.Context, ids []int64) error {
		return nil
	}, Options{
		Action: "archive",
		OnProgress: func(completed, failed, total int) {
			reports = append(reports, [3]int{completed, failed, total})
		},
	})

	if len(reports) != 1 || reports[0] != [3]int{4, 0, 4} {
		t.Fatalf("bulk progress must jump straight to total, got %v", reports)
	}
	if job.Summary() != "Updated 4" {
		t.Fatalf("unexpected summary: %q", job.Summary())
	}
}

func TestRunBulkFailureRecordsEveryID(t *testing.T) {
	job := testRunner().RunBulk(context.Background(), []int64{7, 9}, func(ctx context.Context, ids []int64) error {
		return errors.New("batch endpoint unavailable")
	}, Options{Action: "restore"})

	if !job.Done() || job.Failed() != 2 {
		t.Fatalf("expected terminal job with 2 failures, got %d/%d", job.Completed(), job.Failed())
	}
	for _, id := range []int64{7, 9} {
		if reason, ok := job.ItemError(id); !ok || reason != "batch endpoint unavailable" {
			t.Fatalf("lead %d: missing shared failure reason, got %q %v", id, reason, ok)
		}
	}
	if got := job.FailedIDs(); !reflect.DeepEqual(got, []int64{7, 9}) {
		t.Fatalf("failed ids: %v", got)
	}
}
