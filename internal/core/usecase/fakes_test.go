package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"korx-catalog/internal/core/domain"

	"github.com/google/uuid"
)

type fakeAPI struct {
	properties map[int64]domain.RawPropertyInput
	children   map[int64][]domain.RawPropertyInput
	lookups    map[string][]domain.LookupItem
	lookupHits int
	submitID   int64
	submitErr  error
	submitted  []domain.PropertyRecord
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		properties: map[int64]domain.RawPropertyInput{},
		children:   map[int64][]domain.RawPropertyInput{},
		lookups:    map[string][]domain.LookupItem{},
	}
}

func (f *fakeAPI) FetchPropertyByID(_ context.Context, id int64) (domain.RawPropertyInput, error) {
	raw, ok := f.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return raw, nil
}

func (f *fakeAPI) FetchChildren(_ context.Context, parentID int64) ([]domain.RawPropertyInput, error) {
	return f.children[parentID], nil
}

func (f *fakeAPI) FetchLookups(_ context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error) {
	f.lookupHits++
	key := string(kind)
	if parentID != nil {
		key = fmt.Sprintf("%s:%d", kind, *parentID)
	}
	return f.lookups[key], nil
}

func (f *fakeAPI) SubmitProperty(_ context.Context, draft domain.PropertyRecord, _ []domain.MediaAttachment) (int64, error) {
	f.submitted = append(f.submitted, draft)
	return f.submitID, f.submitErr
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]domain.DraftSnapshot
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: map[uuid.UUID]domain.DraftSnapshot{}}
}

func (r *fakeDraftRepo) Save(_ context.Context, d domain.DraftSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = d
	return nil
}

func (r *fakeDraftRepo) FindByID(_ context.Context, id uuid.UUID) (domain.DraftSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return domain.DraftSnapshot{}, domain.ErrNotFound
	}
	return d, nil
}

func (r *fakeDraftRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

type fakeEvents struct {
	published []domain.PropertySubmittedEvent
	err       error
}

func (e *fakeEvents) PublishSubmitted(_ context.Context, ev domain.PropertySubmittedEvent) error {
	e.published = append(e.published, ev)
	return e.err
}

type fakeKV struct {
	data map[string]string
}

func (k *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := k.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (k *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	k.data[key] = value
	return nil
}

func (k *fakeKV) Delete(_ context.Context, key string) error {
	delete(k.data, key)
	return nil
}

type fakeFavorites map[int64]bool

func (f fakeFavorites) Toggle(id int64) bool {
	f[id] = !f[id]
	return f[id]
}

func (f fakeFavorites) Contains(id int64) bool { return f[id] }

func (f fakeFavorites) IDs() []int64 {
	var ids []int64
	for id, ok := range f {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// prefixResolver резолвит только относительные пути.
type prefixResolver string

func (p prefixResolver) ResolveMediaURL(path string) (string, bool) {
	if path == "" || strings.HasPrefix(path, "bad:") {
		return "", false
	}
	return string(p) + strings.TrimPrefix(path, "/"), true
}
