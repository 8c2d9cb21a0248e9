package timeline

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"leadconsole/internal/api"
	"leadconsole/internal/lookup"
	"leadconsole/platform/logger"
)

// ErrSuperseded is returned when a reconciliation completes after a newer
// one for the same reconciler has started. The stale result must be
// discarded, never rendered.
var ErrSuperseded = errors.New("timeline reconciliation superseded by a newer request")

// Fetcher is the read surface of the lead API the reconciler needs.
type Fetcher interface {
	ListActivity(ctx context.Context, leadID int64, offset, limit int) ([]api.ActivityRecord, error)
	ListStatuses(ctx context.Context) ([]api.ListItem, error)
	ListSources(ctx context.Context) ([]api.ListItem, error)
	ListUsers(ctx context.Context) ([]api.UserRow, error)
}

// Reconciler produces the ordered timeline for one lead. It holds no
// entity state of its own; the generation counter only guards against a
// stale in-flight result overwriting a newer view.
type Reconciler struct {
	fetcher    Fetcher
	log        *logger.Logger
	pageSize   int
	generation atomic.Uint64
}

// NewReconciler creates a reconciler reading through the given fetcher.
// pageSize bounds the activity fetch (first page only).
func NewReconciler(fetcher Fetcher, pageSize int, log *logger.Logger) *Reconciler {
	return &Reconciler{fetcher: fetcher, pageSize: pageSize, log: log}
}

// Reconcile fetches, deduplicates, normalizes and sorts the timeline for
// one lead. The activity fetch and the lookup fetches are issued
// concurrently: they are independent reads with no ordering requirement.
// An activity failure fails the whole call (the caller shows a retryable
// error state); lookup failures degrade gracefully, ids rendering as
// placeholder labels instead.
func (r *Reconciler) Reconcile(ctx context.Context, leadID int64) ([]Entry, error) {
	gen := r.generation.Add(1)

	var (
		records  []api.ActivityRecord
		statuses []api.ListItem
		sources  []api.ListItem
		users    []api.UserRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = r.fetcher.ListActivity(gctx, leadID, 0, r.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		if statuses, err = r.fetcher.ListStatuses(gctx); err != nil {
			r.log.Warn("status lookup failed, ids will render as placeholders", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sources, err = r.fetcher.ListSources(gctx); err != nil {
			r.log.Warn("source lookup failed, ids will render as placeholders", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = r.fetcher.ListUsers(gctx); err != nil {
			r.log.Warn("user lookup failed, ids will render as placeholders", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.generation.Load() != gen {
		return nil, ErrSuperseded
	}

	dir := lookup.New(statuses, sources, users)

	deduped := Dedupe(records)
	entries := make([]Entry, 0, len(deduped))
	for _, rec := range deduped {
		entries = append(entries, Normalize(rec, dir))
	}

	// Newest first; equal timestamps keep original fetch order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}
