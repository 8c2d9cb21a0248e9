package timeline

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"leadconsole/internal/api"
	"leadconsole/internal/lookup"
)

// descriptionMaxLen is the maximum character length for entry
// descriptions. Long note bodies are truncated with an ellipsis.
const descriptionMaxLen = 400

// Entry is the canonical, UI-ready representation of one occurrence.
type Entry struct {
	Timestamp   time.Time
	Category    Category
	Title       string
	Description string // pre-rendered, HTML-escaped
	ActorLabel  string // never empty; "System" when unattributed
}

// fieldLabels maps the relation field keys that carry server-supplied
// human names on their change events.
var fieldLabels = map[string]string{
	"status_id":           "Status",
	"source_id":           "Source",
	"assigned_to_user_id": "Assigned to",
}

// timestampLayouts are tried in order when parsing record timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts one raw record into one canonical entry. It never
// fails: malformed or missing fields degrade to placeholders, because a
// broken row must never block rendering of the rest of the timeline.
// Pure function of the record and the directory snapshot.
func Normalize(rec api.ActivityRecord, dir lookup.Directory) Entry {
	category := Classify(rec)
	entry := Entry{
		Timestamp:  parseTimestamp(rec.TS),
		Category:   category,
		ActorLabel: ResolveActor(rec.Actor(), dir),
	}

	switch category {
	case CategoryLeadCreated:
		entry.Title = "Lead created"
		if sourceID, ok := payloadInt64(rec.Payload, "source_id"); ok {
			entry.Description = "Source " + quoted(dir.SourceLabel(sourceID))
		}
	case CategoryAssigned:
		entry.Title = "Assigned"
		if userID, ok := payloadInt64(rec.Payload, "assigned_to_user_id", "to_user_id"); ok {
			entry.Description = "Assigned to " + quoted(dir.UserLabel(userID))
		}
	case CategoryStatusChanged:
		entry.Title = "Status changed"
		entry.Description = statusChangeDescription(rec, dir)
	case CategoryFieldChanged:
		entry.Title = "Field changed"
		entry.Description = fieldChangeDescription(rec)
	case CategoryNoteAdded:
		entry.Title = "Note added"
		if body, ok := payloadString(rec.Payload, "body", "text", "note"); ok {
			entry.Description = esc(truncate(body, descriptionMaxLen))
		}
	case CategoryEmailSent:
		entry.Title = "Email sent"
		if subject, ok := payloadString(rec.Payload, "subject"); ok {
			entry.Description = "Subject " + quoted(subject)
		}
	case CategorySmsSent:
		entry.Title = "SMS sent"
		if body, ok := payloadString(rec.Payload, "body", "message"); ok {
			entry.Description = esc(truncate(body, descriptionMaxLen))
		}
	case CategoryCallLogged:
		entry.Title = "Call logged"
		entry.Description = callDescription(rec.Payload)
	case CategoryScoreUpdated:
		entry.Title = "Score updated"
		if oldScore, ok := payloadString(rec.Payload, "old_score"); ok {
			if newScore, ok := payloadString(rec.Payload, "new_score"); ok {
				entry.Description = fmt.Sprintf("Score changed from %s to %s", esc(oldScore), esc(newScore))
			}
		}
	default:
		entry.Title = genericTitle(rec)
		if text, ok := payloadString(rec.Payload, "message", "summary", "description"); ok {
			entry.Description = esc(truncate(text, descriptionMaxLen))
		}
	}

	return entry
}

// statusChangeDescription resolves the from/to status ids. Transitions
// logged by older producers carry the ids under payload.from,
// payload.old_status_id or payload.from_status_id instead of at the top
// level; the priority order is a backward-compatibility requirement of
// the upstream event log.
func statusChangeDescription(rec api.ActivityRecord, dir lookup.Directory) string {
	from, fromOK := statusID(rec.From, rec.Payload, "from", "old_status_id", "from_status_id")
	to, toOK := statusID(rec.To, rec.Payload, "to", "new_status_id", "to_status_id")
	if !fromOK && !toOK {
		return ""
	}

	fromLabel, toLabel := "unknown", "unknown"
	if fromOK {
		fromLabel = dir.StatusLabel(from)
	}
	if toOK {
		toLabel = dir.StatusLabel(to)
	}
	return "From " + quoted(fromLabel) + " to " + quoted(toLabel)
}

func statusID(topLevel *int64, payload map[string]any, keys ...string) (int64, bool) {
	if topLevel != nil {
		return *topLevel, true
	}
	return payloadInt64(payload, keys...)
}

// fieldChangeDescription renders a field transition. The three relation
// fields carry server-supplied human names (old_name/new_name) which are
// preferred over the raw ids when present.
func fieldChangeDescription(rec api.ActivityRecord) string {
	fieldKey, _ := payloadString(rec.Payload, "field", "field_key")
	label, isRelation := fieldLabels[fieldKey]
	if !isRelation {
		label = humanize(fieldKey)
	}

	var oldVal, newVal string
	var ok bool
	if isRelation {
		oldVal, ok = payloadString(rec.Payload, "old_name")
		if ok {
			newVal, ok = payloadString(rec.Payload, "new_name")
		}
	}
	if !ok {
		oldVal, _ = payloadString(rec.Payload, "old_value", "old")
		newVal, _ = payloadString(rec.Payload, "new_value", "new")
	}

	return quoted(label) + " changed from " + quoted(oldVal) + " to " + quoted(newVal)
}

func callDescription(payload map[string]any) string {
	outcome, ok := payloadString(payload, "outcome")
	if !ok {
		return ""
	}
	desc := fmt.Sprintf("Outcome: %s", esc(outcome))
	if secs, ok := payloadInt64(payload, "duration_seconds"); ok {
		desc += fmt.Sprintf(" (%ds)", secs)
	}
	return desc
}

// genericTitle derives a readable title from whichever discriminator the
// producer populated.
func genericTitle(rec api.ActivityRecord) string {
	switch {
	case rec.Type != "":
		return humanize(rec.Type)
	case rec.Kind != "":
		return humanize(rec.Kind)
	default:
		return "Activity"
	}
}

// humanize turns a discriminator or field key into a display label:
// "LEAD_QUALIFIED" → "Lead qualified", "next_follow_up" → "Next follow up".
func humanize(key string) string {
	if key == "" {
		return "Activity"
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(key), "_", " "))
	if len(words) == 0 {
		return "Activity"
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func parseTimestamp(ts string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// payloadString extracts the first present key as a display string.
// JSON numbers and booleans are rendered; nulls count as absent.
func payloadString(payload map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			return val, true
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(val), true
		case int:
			return strconv.Itoa(val), true
		case int64:
			return strconv.FormatInt(val, 10), true
		}
	}
	return "", false
}

// payloadInt64 extracts the first present key as an integer id.
func payloadInt64(payload map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			return int64(val), true
		case int:
			return int64(val), true
		case int64:
			return val, true
		case string:
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func esc(s string) string {
	return html.EscapeString(s)
}

// quoted wraps an escaped value in literal double quotes for display.
func quoted(s string) string {
	return `"` + esc(s) + `"`
}

// truncate trims text to maxLen, appending "..." on overflow.
func truncate(text string, maxLen int) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > maxLen {
		return trimmed[:maxLen] + "..."
	}
	return trimmed
}
