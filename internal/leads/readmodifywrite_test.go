package leads

import (
	"context"
	"errors"
	"testing"

	"leadconsole/internal/api"
)

type fakeEntityAPI struct {
	lead      api.Lead
	getErr    error
	putErr    error
	submitted *api.Lead
}

func (f *fakeEntityAPI) GetLead(ctx context.Context, id int64) (api.Lead, error) {
	return f.lead, f.getErr
}

func (f *fakeEntityAPI) UpdateLead(ctx context.Context, lead api.Lead) (api.Lead, error) {
	f.submitted = &lead
	if f.putErr != nil {
		return api.Lead{}, f.putErr
	}
	return lead, nil
}

func TestReadModifyWritePatchesTheFullRecord(t *testing.T) {
	client := &fakeEntityAPI{lead: api.Lead{ID: 1, Name: "Acme", StatusID: 1}}

	updated, err := ReadModifyWrite(context.Background(), client, 1, func(lead *api.Lead) {
		lead.StatusID = 2
	})
	if err != nil {
		t.Fatalf("read-modify-write failed: %v", err)
	}

	if client.submitted == nil {
		t.Fatalf("nothing submitted")
	}
	// The untouched field travels along with the patched one.
	if client.submitted.Name != "Acme" || client.submitted.StatusID != 2 {
		t.Fatalf("submitted record wrong: %+v", client.submitted)
	}
	if updated.StatusID != 2 {
		t.Fatalf("updated record wrong: %+v", updated)
	}
}

func TestReadModifyWritePropagatesFetchFailure(t *testing.T) {
	client := &fakeEntityAPI{getErr: errors.New("gone")}

	_, err := ReadModifyWrite(context.Background(), client, 1, func(*api.Lead) {})
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if client.submitted != nil {
		t.Fatalf("must not submit after a failed fetch")
	}
}

func TestStorePatchInPlace(t *testing.T) {
	store := NewStore()
	store.Replace([]api.Lead{{ID: 1, StatusID: 1}, {ID: 2, StatusID: 1}})

	store.Put(api.Lead{ID: 1, StatusID: 2})

	lead, ok := store.Get(1)
	if !ok || lead.StatusID != 2 {
		t.Fatalf("patched lead wrong: %+v %v", lead, ok)
	}
	other, _ := store.Get(2)
	if other.StatusID != 1 {
		t.Fatalf("unrelated lead touched: %+v", other)
	}
	if store.Len() != 2 {
		t.Fatalf("unexpected cache size %d", store.Len())
	}
}
