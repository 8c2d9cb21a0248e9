// Package timeline reconstructs the activity narrative for one lead:
// raw server-logged records are classified, deduplicated, normalized
// and sorted into UI-ready entries.
package timeline

import "leadconsole/internal/api"

// Category is the closed set of timeline entry categories. Every raw
// record is classified exactly once; downstream code switches on the
// enum, never on the raw kind/type/channel strings.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryLeadCreated
	CategoryAssigned
	CategoryStatusChanged
	CategoryFieldChanged
	CategoryNoteAdded
	CategoryEmailSent
	CategorySmsSent
	CategoryCallLogged
	CategoryScoreUpdated
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLeadCreated:
		return "LeadCreated"
	case CategoryAssigned:
		return "Assigned"
	case CategoryStatusChanged:
		return "StatusChanged"
	case CategoryFieldChanged:
		return "FieldChanged"
	case CategoryNoteAdded:
		return "NoteAdded"
	case CategoryEmailSent:
		return "EmailSent"
	case CategorySmsSent:
		return "SmsSent"
	case CategoryCallLogged:
		return "CallLogged"
	case CategoryScoreUpdated:
		return "ScoreUpdated"
	default:
		return "Generic"
	}
}

// Marker returns the UI glyph identifier for the category. The mapping
// is fixed: the console front-end keys its icons on these names.
func (c Category) Marker() string {
	switch c {
	case CategoryLeadCreated:
		return "plus"
	case CategoryAssigned:
		return "user"
	case CategoryStatusChanged:
		return "flag"
	case CategoryFieldChanged:
		return "edit"
	case CategoryNoteAdded:
		return "note"
	case CategoryEmailSent:
		return "mail"
	case CategorySmsSent:
		return "sms"
	case CategoryCallLogged:
		return "phone"
	case CategoryScoreUpdated:
		return "gauge"
	default:
		return "dot"
	}
}

// classificationRule matches a raw record when its kind, type or channel
// appears in the respective set. Rules are evaluated in order;
// first match wins.
type classificationRule struct {
	kinds    map[string]bool
	types    map[string]bool
	channels map[string]bool
	category Category
}

func (r classificationRule) matches(rec api.ActivityRecord) bool {
	return r.kinds[rec.Kind] || r.types[rec.Type] || r.channels[rec.Channel]
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// classificationRules covers every discriminator value the event log has
// historically produced. The same logical occurrence can surface under
// several spellings depending on which log producer wrote it.
var classificationRules = []classificationRule{
	{kinds: set("created", "lead_created"), types: set("LEAD_CREATED"), category: CategoryLeadCreated},
	{kinds: set("assigned"), types: set("ASSIGNED", "LEAD_ASSIGNED"), category: CategoryAssigned},
	{kinds: set("status", "status_change"), types: set("STATUS_CHANGED"), category: CategoryStatusChanged},
	{kinds: set("field", "field_change"), types: set("FIELD_CHANGED"), category: CategoryFieldChanged},
	{kinds: set("note"), types: set("NOTE_ADDED"), category: CategoryNoteAdded},
	{types: set("EMAIL_SENT"), channels: set("email"), category: CategoryEmailSent},
	{types: set("SMS_SENT"), channels: set("sms"), category: CategorySmsSent},
	{kinds: set("call"), types: set("CALL_LOGGED"), channels: set("call", "phone"), category: CategoryCallLogged},
	{kinds: set("score"), types: set("SCORE_UPDATED"), category: CategoryScoreUpdated},
}

// Classify determines the category of one raw record. Pure and total:
// unmatched discriminators fall through to CategoryGeneric.
func Classify(rec api.ActivityRecord) Category {
	for _, rule := range classificationRules {
		if rule.matches(rec) {
			return rule.category
		}
	}
	return CategoryGeneric
}
