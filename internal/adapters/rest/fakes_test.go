package rest

import (
	"context"
	"sync"

	"korx-catalog/internal/adapters/notifier"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port/usecases_port"
	"korx-catalog/internal/core/wizard"

	"github.com/google/uuid"
)

type fakeGetListing struct {
	view domain.ListingView
	err  error
}

func (f *fakeGetListing) Execute(_ context.Context, id int64) (domain.ListingView, error) {
	if f.err != nil {
		return domain.ListingView{}, f.err
	}
	v := f.view
	v.PropertyID = id
	return v, nil
}

type fakeGetChildren struct {
	views []domain.ListingView
	err   error
}

func (f *fakeGetChildren) Execute(context.Context, int64) ([]domain.ListingView, error) {
	return f.views, f.err
}

type fakeGetLookups struct {
	gotKind   domain.LookupKind
	gotParent *int64
	items     []domain.LookupItem
	err       error
}

func (f *fakeGetLookups) Execute(_ context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error) {
	f.gotKind, f.gotParent = kind, parentID
	return f.items, f.err
}

type fakeFavorites struct {
	mu  sync.Mutex
	ids map[int64]bool
}

func (f *fakeFavorites) toggle(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids == nil {
		f.ids = map[int64]bool{}
	}
	if f.ids[id] {
		delete(f.ids, id)
		return false, nil
	}
	f.ids[id] = true
	return true, nil
}

type toggleFunc func(context.Context, int64) (bool, error)

func (fn toggleFunc) Execute(ctx context.Context, id int64) (bool, error) { return fn(ctx, id) }

type getFavoritesFunc func(context.Context) ([]int64, error)

func (fn getFavoritesFunc) Execute(ctx context.Context) ([]int64, error) { return fn(ctx) }

type fakeStream struct{}

func (fakeStream) AddClient() notifier.ClientChannel     { return make(notifier.ClientChannel, 1) }
func (fakeStream) RemoveClient(notifier.ClientChannel) {}

// fakeDrafts реализует все use case мастера поверх настоящих wizard.Machine.
type fakeDrafts struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*wizard.Machine
	media    []domain.MediaAttachment
	submitFn func(*wizard.Machine) error
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{sessions: map[uuid.UUID]*wizard.Machine{}}
}

func (f *fakeDrafts) get(id uuid.UUID) (*wizard.Machine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

type startFunc func(context.Context, *int64) (wizard.State, error)

func (fn startFunc) Execute(ctx context.Context, id *int64) (wizard.State, error) { return fn(ctx, id) }

type draftFunc func(context.Context, uuid.UUID) (wizard.State, error)

func (fn draftFunc) Execute(ctx context.Context, id uuid.UUID) (wizard.State, error) { return fn(ctx, id) }

type updateFunc func(context.Context, uuid.UUID, domain.PropertyRecord) (wizard.State, error)

func (fn updateFunc) Execute(ctx context.Context, id uuid.UUID, r domain.PropertyRecord) (wizard.State, error) {
	return fn(ctx, id, r)
}

type moveFunc func(context.Context, uuid.UUID, usecases_port.DraftMove) (wizard.State, error)

func (fn moveFunc) Execute(ctx context.Context, id uuid.UUID, mv usecases_port.DraftMove) (wizard.State, error) {
	return fn(ctx, id, mv)
}

type attachFunc func(context.Context, uuid.UUID, domain.MediaAttachment) (wizard.State, error)

func (fn attachFunc) Execute(ctx context.Context, id uuid.UUID, att domain.MediaAttachment) (wizard.State, error) {
	return fn(ctx, id, att)
}

type discardFunc func(context.Context, uuid.UUID) error

func (fn discardFunc) Execute(ctx context.Context, id uuid.UUID) error { return fn(ctx, id) }

func (f *fakeDrafts) handler(uploadDir string) *DraftsHandler {
	start := startFunc(func(_ context.Context, fromID *int64) (wizard.State, error) {
		rec := domain.NewDraftRecord()
		if fromID != nil {
			rec.PropertyID = *fromID
		}
		m := wizard.New(rec)
		f.mu.Lock()
		f.sessions[m.ID()] = m
		f.mu.Unlock()
		return m.State(), nil
	})
	get := draftFunc(func(_ context.Context, id uuid.UUID) (wizard.State, error) {
		m, err := f.get(id)
		if err != nil {
			return wizard.State{}, err
		}
		return m.State(), nil
	})
	update := updateFunc(func(_ context.Context, id uuid.UUID, r domain.PropertyRecord) (wizard.State, error) {
		m, err := f.get(id)
		if err != nil {
			return wizard.State{}, err
		}
		err = m.SetRecord(r)
		return m.State(), err
	})
	move := moveFunc(func(_ context.Context, id uuid.UUID, mv usecases_port.DraftMove) (wizard.State, error) {
		m, err := f.get(id)
		if err != nil {
			return wizard.State{}, err
		}
		switch mv.Action {
		case usecases_port.MoveNext:
			err = m.Next()
		case usecases_port.MoveBack:
			err = m.Back()
		case usecases_port.MoveJump:
			err = m.JumpTo(mv.Target)
		}
		return m.State(), err
	})
	attach := attachFunc(func(_ context.Context, id uuid.UUID, att domain.MediaAttachment) (wizard.State, error) {
		m, err := f.get(id)
		if err != nil {
			return wizard.State{}, err
		}
		f.mu.Lock()
		f.media = append(f.media, att)
		f.mu.Unlock()
		err = m.AddMedia(att)
		return m.State(), err
	})
	submit := draftFunc(func(_ context.Context, id uuid.UUID) (wizard.State, error) {
		m, err := f.get(id)
		if err != nil {
			return wizard.State{}, err
		}
		if f.submitFn != nil {
			return m.State(), f.submitFn(m)
		}
		err = m.Submit(context.Background(), acceptingSubmitter{})
		return m.State(), err
	})
	discard := discardFunc(func(_ context.Context, id uuid.UUID) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.sessions[id]; !ok {
			return domain.ErrNotFound
		}
		delete(f.sessions, id)
		return nil
	})
	return NewDraftsHandler(start, get, update, move, attach, submit, discard, uploadDir)
}

type acceptingSubmitter struct{}

func (acceptingSubmitter) SubmitProperty(context.Context, domain.PropertyRecord, []domain.MediaAttachment) (int64, error) {
	return 1, nil
}
