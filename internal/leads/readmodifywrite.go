package leads

import (
	"context"

	"leadconsole/internal/api"
)

// EntityAPI is the read/write surface needed for a full-record update.
type EntityAPI interface {
	GetLead(ctx context.Context, id int64) (api.Lead, error)
	UpdateLead(ctx context.Context, lead api.Lead) (api.Lead, error)
}

// ReadModifyWrite fetches the full current entity, applies patch to it,
// and submits the complete representation back. The update endpoint is
// not patch-semantic, so changing one field still requires the whole
// record to travel along; the client strips computed relationship fields
// before resubmission.
//
// Both inline field edits and per-item batch mutations are callers of
// this one primitive.
func ReadModifyWrite(ctx context.Context, client EntityAPI, id int64, patch func(*api.Lead)) (api.Lead, error) {
	lead, err := client.GetLead(ctx, id)
	if err != nil {
		return api.Lead{}, err
	}
	patch(&lead)
	return client.UpdateLead(ctx, lead)
}
