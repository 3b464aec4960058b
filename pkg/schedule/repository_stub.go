package schedule

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
)

var errStubStoreFailure = errors.New("stub: store failure")

type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[int]Event
	nextId int
	// FailStoreAt makes the n-th StoreEvent call (1-based, counted across the stub's life) fail.
	FailStoreAt int
	storeCalls  int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[int]Event),
		nextId: 1,
	}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	snapshot := maps.Clone(r.items)
	nextId := r.nextId
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.items = snapshot
		r.nextId = nextId
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) ListEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(r.items))
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, r.items[id])
	}
	return events, nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.storeCalls++
	if r.FailStoreAt > 0 && r.storeCalls == r.FailStoreAt {
		return Event{}, errStubStoreFailure
	}

	event.Id = r.nextId
	r.items[event.Id] = event
	r.nextId++
	return event, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, id int, start, end, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.items[id]
	if !ok {
		return false, nil
	}
	event.Start = start
	event.End = end
	event.Title = title
	r.items[id] = event
	return true, nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *RepositoryStub) DeleteRepeatGroup(ctx context.Context, group string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, event := range r.items {
		if event.RepeatGroup == group {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *RepositoryStub) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int]Event)
	r.nextId = 1
	r.storeCalls = 0
	r.FailStoreAt = 0
}
