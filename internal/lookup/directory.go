// Package lookup provides the id→name directory used to resolve foreign
// keys on leads and timeline records to display labels. A Directory is an
// immutable snapshot: it is rebuilt wholesale from fresh lookup lists and
// handed to whoever needs name resolution, never mutated in place.
package lookup

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"leadconsole/internal/api"
)

// Directory maps status, source and user ids to display names.
type Directory struct {
	statuses map[int64]string
	sources  map[int64]string
	users    map[int64]string
}

// New builds a Directory snapshot from freshly fetched lookup lists.
// Nil slices are fine: lookups that failed to load simply miss, and
// callers fall back to id-based placeholder labels.
func New(statuses, sources []api.ListItem, users []api.UserRow) Directory {
	d := Directory{
		statuses: make(map[int64]string, len(statuses)),
		sources:  make(map[int64]string, len(sources)),
		users:    make(map[int64]string, len(users)),
	}
	for _, s := range statuses {
		d.statuses[s.ID] = s.Name
	}
	for _, s := range sources {
		d.sources[s.ID] = s.Name
	}
	for _, u := range users {
		d.users[u.ID] = DisplayName(u)
	}
	return d
}

// StatusName resolves a status id.
func (d Directory) StatusName(id int64) (string, bool) {
	name, ok := d.statuses[id]
	return name, ok
}

// SourceName resolves a source id.
func (d Directory) SourceName(id int64) (string, bool) {
	name, ok := d.sources[id]
	return name, ok
}

// UserName resolves a user id to its display name.
func (d Directory) UserName(id int64) (string, bool) {
	name, ok := d.users[id]
	return name, ok
}

// StatusLabel resolves a status id, degrading to "Status #<id>".
func (d Directory) StatusLabel(id int64) string {
	if name, ok := d.statuses[id]; ok {
		return name
	}
	return fmt.Sprintf("Status #%d", id)
}

// SourceLabel resolves a source id, degrading to "Source #<id>".
func (d Directory) SourceLabel(id int64) string {
	if name, ok := d.sources[id]; ok {
		return name
	}
	return fmt.Sprintf("Source #%d", id)
}

// UserLabel resolves a user id, degrading to "User #<id>".
func (d Directory) UserLabel(id int64) string {
	if name, ok := d.users[id]; ok {
		return name
	}
	return fmt.Sprintf("User #%d", id)
}

// DisplayName derives a user's display name through the fixed fallback
// chain: full name → first+last → first → username → email → User #<id>.
func DisplayName(u api.UserRow) string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return fmt.Sprintf("User #%d", u.ID)
	}
}

// FormatPhone renders a raw stored phone number in international format
// for display. Unparseable input is returned verbatim.
func FormatPhone(raw, region string) string {
	if raw == "" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}
