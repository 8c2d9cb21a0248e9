package inline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"leadconsole/internal/api"
	"leadconsole/platform/apperr"
	"leadconsole/platform/logger"
)

func testLog() *logger.Logger {
	return logger.New("development")
}

func countingPersist(calls *atomic.Int32, result api.Lead, err error) PersistFunc {
	return func(ctx context.Context, leadID int64, fieldKey, value string) (api.Lead, error) {
		calls.Add(1)
		return result, err
	}
}

func TestNoOpSaveShortCircuitsWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	m := NewManager(testLog())

	s, err := m.Open(1, "status_id", "2", countingPersist(&calls, api.Lead{}, nil), Hooks{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("2"); err != nil {
		t.Fatalf("set candidate: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("no-op save must succeed: %v", err)
	}

	if calls.Load() != 0 {
		t.Fatalf("no-op save issued %d network calls", calls.Load())
	}
	if s.State() != StateViewing {
		t.Fatalf("expected StateViewing after no-op save, got %v", s.State())
	}
	if _, live := m.Live(1, "status_id"); live {
		t.Fatalf("session must be released after returning to viewing")
	}
}

func TestFailedSaveRevertsAndStaysEditing(t *testing.T) {
	var calls atomic.Int32
	var committed atomic.Int32
	var reportedErr error

	rejection := apperr.Validation("status transition not allowed")
	m := NewManager(testLog())

	s, err := m.Open(1, "status_id", "2", countingPersist(&calls, api.Lead{}, rejection), Hooks{
		OnCommit:    func(api.Lead) { committed.Add(1) },
		OnSaveError: func(err error) { reportedErr = err },
	})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("3"); err != nil {
		t.Fatalf("set candidate: %v", err)
	}

	saveErr := s.Save(context.Background())
	if saveErr == nil {
		t.Fatalf("expected the save to fail")
	}
	if !apperr.Is(saveErr, apperr.KindValidation) {
		t.Fatalf("expected validation kind, got %v", saveErr)
	}
	if s.State() != StateEditing {
		t.Fatalf("session must return to StateEditing for retry, got %v", s.State())
	}
	if s.Value() != "2" {
		t.Fatalf("control must revert to the captured value, got %q", s.Value())
	}
	if committed.Load() != 0 {
		t.Fatalf("a failed save must not commit")
	}
	if reportedErr == nil || reportedErr.Error() != rejection.Error() {
		t.Fatalf("failure affordance must carry the server reason, got %v", reportedErr)
	}
	if _, live := m.Live(1, "status_id"); !live {
		t.Fatalf("session must stay open after a failed save")
	}
}

func TestSuccessfulSaveCommitsAndCloses(t *testing.T) {
	var calls atomic.Int32
	var committedLead api.Lead
	highlighted := false

	updated := api.Lead{ID: 1, StatusID: 3}
	m := NewManager(testLog())

	s, err := m.Open(1, "status_id", "2", countingPersist(&calls, updated, nil), Hooks{
		OnCommit:    func(lead api.Lead) { committedLead = lead },
		OnHighlight: func() { highlighted = true },
	})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("3"); err != nil {
		t.Fatalf("set candidate: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one persist call, got %d", calls.Load())
	}
	if committedLead.StatusID != 3 {
		t.Fatalf("commit hook must receive the server-confirmed entity")
	}
	if !highlighted {
		t.Fatalf("success affordance must fire")
	}
	if s.State() != StateViewing {
		t.Fatalf("expected StateViewing, got %v", s.State())
	}
	if s.Value() != "3" {
		t.Fatalf("committed value must be the saved candidate, got %q", s.Value())
	}
	if _, live := m.Live(1, "status_id"); live {
		t.Fatalf("session must be released after a successful save")
	}
}

func TestCancelRevertsWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	m := NewManager(testLog())

	s, err := m.Open(1, "name", "Acme", countingPersist(&calls, api.Lead{}, nil), Hooks{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("Acme B.V."); err != nil {
		t.Fatalf("set candidate: %v", err)
	}
	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if calls.Load() != 0 {
		t.Fatalf("cancel must not touch the network")
	}
	if s.Value() != "Acme" {
		t.Fatalf("value must revert on cancel, got %q", s.Value())
	}
}

func TestSecondSessionForSamePairIsRejected(t *testing.T) {
	m := NewManager(testLog())

	if _, err := m.Open(1, "status_id", "2", countingPersist(new(atomic.Int32), api.Lead{}, nil), Hooks{}); err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if _, err := m.Open(1, "status_id", "2", countingPersist(new(atomic.Int32), api.Lead{}, nil), Hooks{}); !errors.Is(err, ErrSessionLive) {
		t.Fatalf("expected ErrSessionLive, got %v", err)
	}
	// A different field of the same lead is independent.
	if _, err := m.Open(1, "source_id", "3", countingPersist(new(atomic.Int32), api.Lead{}, nil), Hooks{}); err != nil {
		t.Fatalf("independent field rejected: %v", err)
	}
}

func TestControlsLockedWhileSaving(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	persist := func(ctx context.Context, leadID int64, fieldKey, value string) (api.Lead, error) {
		close(started)
		<-release
		return api.Lead{ID: 1}, nil
	}

	m := NewManager(testLog())
	s, err := m.Open(1, "status_id", "2", persist, Hooks{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("3"); err != nil {
		t.Fatalf("set candidate: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-started

	if err := s.BeginEdit(); !errors.Is(err, ErrBusy) {
		t.Fatalf("BeginEdit while saving must return ErrBusy, got %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrBusy) {
		t.Fatalf("Cancel while saving must return ErrBusy, got %v", err)
	}
	if err := s.Save(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Save while saving must return ErrBusy, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("save failed: %v", err)
	}
}

func TestClosedSessionDiscardsInFlightCompletion(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var committed atomic.Int32
	persist := func(ctx context.Context, leadID int64, fieldKey, value string) (api.Lead, error) {
		close(started)
		<-release
		return api.Lead{ID: 1, StatusID: 3}, nil
	}

	m := NewManager(testLog())
	s, err := m.Open(1, "status_id", "2", persist, Hooks{
		OnCommit: func(api.Lead) { committed.Add(1) },
	})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.SetCandidate("3"); err != nil {
		t.Fatalf("set candidate: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-started

	// The view is torn down while the save is in flight.
	m.CloseAll()
	close(release)
	<-done

	if committed.Load() != 0 {
		t.Fatalf("a save completing after Close must not write into the stale view")
	}
}
