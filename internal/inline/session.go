// Package inline implements the per-field edit/save/rollback state
// machine behind inline table editing. One session governs one field of
// one lead; saving travels the full record through the read-modify-write
// primitive because the update endpoint is not patch-semantic.
package inline

import (
	"context"
	"errors"
	"sync"

	"leadconsole/internal/api"
	"leadconsole/platform/logger"
)

// State is the session's position in the edit cycle.
type State int

const (
	// StateViewing shows the committed value; no edit in progress.
	StateViewing State = iota
	// StateEditing holds a live candidate value in the control.
	StateEditing
	// StateSaving has a persist call outstanding; controls disabled.
	StateSaving
	// StateError is the transient failure window between a rejected
	// save and the return to StateEditing.
	StateError
)

var (
	// ErrNotEditing is returned when a transition requires StateEditing.
	ErrNotEditing = errors.New("no edit in progress for this field")
	// ErrBusy is returned when a save is already outstanding.
	ErrBusy = errors.New("a save is already in progress for this field")
	// ErrSessionLive is returned when opening a second session for the
	// same (lead, field) pair.
	ErrSessionLive = errors.New("an edit session is already open for this field")
)

// PersistFunc writes one field's new value to the server and returns the
// updated entity. Implementations wrap leads.ReadModifyWrite.
type PersistFunc func(ctx context.Context, leadID int64, fieldKey, value string) (api.Lead, error)

// Hooks observe session outcomes. All are optional.
type Hooks struct {
	// OnCommit receives the server-confirmed entity after a successful
	// save, so the caller can patch its local cache and re-render.
	OnCommit func(updated api.Lead)
	// OnHighlight fires the transient success affordance.
	OnHighlight func()
	// OnSaveError fires the transient failure affordance with the
	// server-reported reason.
	OnSaveError func(err error)
}

// Session is the edit state machine for one (lead, field) pair.
type Session struct {
	mu        sync.Mutex
	leadID    int64
	fieldKey  string
	original  string
	candidate string
	state     State
	closed    bool

	persist PersistFunc
	hooks   Hooks
	release func()
	log     *logger.Logger
}

// LeadID returns the lead this session edits.
func (s *Session) LeadID() int64 { return s.leadID }

// FieldKey returns the field this session edits.
func (s *Session) FieldKey() string { return s.fieldKey }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Value returns what the control currently shows: the live candidate
// while editing, otherwise the committed value.
func (s *Session) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing || s.state == StateSaving {
		return s.candidate
	}
	return s.original
}

// BeginEdit activates the edit control, capturing the value to roll back
// to. Activating while a save is outstanding is forbidden.
func (s *Session) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSaving:
		return ErrBusy
	case StateEditing:
		return nil // already open
	}
	s.candidate = s.original
	s.state = StateEditing
	return nil
}

// SetCandidate updates the live control value.
func (s *Session) SetCandidate(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.candidate = value
	return nil
}

// Cancel abandons the edit without any network call and reverts the
// control to the captured value.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.candidate = s.original
	s.state = StateViewing
	release := s.takeRelease()
	s.mu.Unlock()

	if release != nil {
		release()
	}
	return nil
}

// Save persists the candidate value. A no-op save (candidate equals the
// captured value) short-circuits straight back to viewing without a
// network call. On success the session closes and the committed value is
// handed to OnCommit; on failure the control reverts to the captured
// value and the session returns to editing so the user can retry without
// re-opening the row.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state != StateEditing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if s.candidate == s.original {
		s.state = StateViewing
		release := s.takeRelease()
		s.mu.Unlock()
		if release != nil {
			release()
		}
		return nil
	}
	s.state = StateSaving
	candidate := s.candidate
	s.mu.Unlock()

	updated, err := s.persist(ctx, s.leadID, s.fieldKey, candidate)

	s.mu.Lock()
	if s.closed {
		// The view was replaced while the save was in flight.
		// Discard the completion instead of writing into a stale view.
		s.state = StateViewing
		s.mu.Unlock()
		return err
	}

	if err != nil {
		s.state = StateError
		s.candidate = s.original
		hooks := s.hooks
		s.mu.Unlock()

		if s.log != nil {
			s.log.SaveFailed(s.leadID, s.fieldKey, err)
		}
		if hooks.OnSaveError != nil {
			hooks.OnSaveError(err)
		}

		s.mu.Lock()
		s.state = StateEditing
		s.mu.Unlock()
		return err
	}

	s.original = candidate
	s.state = StateViewing
	hooks := s.hooks
	release := s.takeRelease()
	s.mu.Unlock()

	if hooks.OnCommit != nil {
		hooks.OnCommit(updated)
	}
	if hooks.OnHighlight != nil {
		hooks.OnHighlight()
	}
	if release != nil {
		release()
	}
	return nil
}

// Close marks the session's view as gone. A save completing afterwards
// is discarded: no hooks fire and no cache is patched.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	release := s.takeRelease()
	s.mu.Unlock()

	if release != nil {
		release()
	}
}

// takeRelease returns the manager release callback at most once.
// Callers must hold s.mu.
func (s *Session) takeRelease() func() {
	release := s.release
	s.release = nil
	return release
}
