// Package api provides the HTTP client for the lead management REST API.
// This file defines the wire types exchanged with the server.
package api

// listEnvelope is the normalized shape of every list response.
type listEnvelope[T any] struct {
	TotalCount int `json:"total_count"`
	Records    []T `json:"records"`
}

// ListItem is one row of a status or source lookup list.
type ListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRow is one row of the user lookup list. Name fields are
// inconsistently populated across accounts; display-name resolution
// applies a fallback chain over them.
type UserRow struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
}

// StatusRef is a computed relationship sub-object embedded in a Lead.
// Read-only: the server rejects or ignores it on update.
type StatusRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRef is a computed user sub-object embedded in a Lead.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Lead is the full entity representation returned by GET /entity/{id}.
type Lead struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company,omitempty"`
	StatusID         int64  `json:"status_id"`
	SourceID         *int64 `json:"source_id"`
	AssignedToUserID *int64 `json:"assigned_to_user_id"`
	Score            *int   `json:"score"`
	IsDeleted        bool   `json:"is_deleted"`

	// Computed relationship fields. Present on reads, never resubmitted.
	Status       *StatusRef `json:"status,omitempty"`
	Source       *StatusRef `json:"source,omitempty"`
	AssignedUser *UserRef   `json:"assigned_user,omitempty"`
	CreatedAt    string     `json:"created_at,omitempty"`
	UpdatedAt    string     `json:"updated_at,omitempty"`
}

// leadUpdateBody is the writable projection of a Lead. The update
// endpoint is not patch-semantic: it requires the complete writable
// representation, so every field is always sent.
type leadUpdateBody struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company"`
	StatusID         int64  `json:"status_id"`
	SourceID         *int64 `json:"source_id"`
	AssignedToUserID *int64 `json:"assigned_to_user_id"`
	Score            *int   `json:"score"`
	IsDeleted        bool   `json:"is_deleted"`
}

// updateBodyFrom strips the computed relationship fields from a fetched
// lead before resubmission. Submitting them back is rejected or ignored
// by the server.
func updateBodyFrom(lead Lead) leadUpdateBody {
	return leadUpdateBody{
		ID:               lead.ID,
		Name:             lead.Name,
		Email:            lead.Email,
		Phone:            lead.Phone,
		Company:          lead.Company,
		StatusID:         lead.StatusID,
		SourceID:         lead.SourceID,
		AssignedToUserID: lead.AssignedToUserID,
		Score:            lead.Score,
		IsDeleted:        lead.IsDeleted,
	}
}

// ActivityRecord is one raw timeline record as logged by the server.
// The shape accumulated historically: at least one of Kind/Type is set,
// TS is always set, and status transitions may carry From/To at the top
// level or inside Payload depending on which producer wrote the row.
type ActivityRecord struct {
	ID          *int64         `json:"id,omitempty"`
	TS          string         `json:"ts"`
	Kind        string         `json:"kind,omitempty"`
	Type        string         `json:"type,omitempty"`
	Channel     string         `json:"channel,omitempty"`
	ActorUserID *int64         `json:"actor_user_id,omitempty"`
	By          *int64         `json:"by,omitempty"`
	From        *int64         `json:"from,omitempty"`
	To          *int64         `json:"to,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Actor returns the actor user id regardless of which field the
// producing log writer used, or nil when the record is unattributed.
func (r ActivityRecord) Actor() *int64 {
	if r.ActorUserID != nil {
		return r.ActorUserID
	}
	return r.By
}

// NoteCreate is the body for POST /note.
type NoteCreate struct {
	Body   string `json:"body"`
	LeadID int64  `json:"lead_id"`
	UserID int64  `json:"user_id"`
}

// BulkResult is the outcome of a single-request batch endpoint.
type BulkResult struct {
	Affected int `json:"affected"`
}

// apiError is the server's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	} `json:"error"`
	Message string `json:"message,omitempty"`
}
