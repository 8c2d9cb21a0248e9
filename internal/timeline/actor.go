package timeline

import (
	"fmt"

	"leadconsole/internal/lookup"
)

// ResolveActor derives the "performed by" label for a timeline entry.
// A missing actor id means the occurrence was system-generated.
// Pure and total: unresolvable ids degrade to an id-based placeholder.
func ResolveActor(actorID *int64, dir lookup.Directory) string {
	if actorID == nil {
		return "System"
	}
	if name, ok := dir.UserName(*actorID); ok {
		return "by " + name
	}
	return fmt.Sprintf("by User #%d", *actorID)
}
