// Package favorites keeps the set of favourite property ids. The in-memory
// set is the source of truth for the process; the KV store is written
// asynchronously and its failures never undo a toggle.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"
)

// StorageKey - единственный ключ, под которым лежит JSON-массив id.
const StorageKey = "favorites"

const persistTimeout = 5 * time.Second

// Listener получает полный список id после каждого изменения.
type Listener func(ids []int64)

type Set struct {
	// notifyMu держится от снимка до конца рассылки, чтобы подписчики
	// видели снимки в порядке изменений.
	notifyMu  sync.Mutex
	mu        sync.RWMutex
	ids       map[int64]struct{}
	listeners map[uint64]Listener
	nextSubID uint64

	store  port.KVStorePort
	logger port.LoggerPort

	// dirty - сигнал писателю; буфер 1, поэтому серия toggle схлопывается
	// в одну запись последнего состояния.
	dirty     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSet creates an empty set and starts its background writer.
func NewSet(store port.KVStorePort, logger port.LoggerPort) *Set {
	s := &Set{
		ids:       make(map[int64]struct{}),
		listeners: make(map[uint64]Listener),
		store:     store,
		logger:    logger.WithFields(port.Fields{"component": "FavoritesSet"}),
		dirty:     make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

// Load replaces the in-memory set with the persisted one. A missing key is
// an empty set; unreadable contents are logged and ignored.
func (s *Set) Load(ctx context.Context) error {
	value, err := s.store.Get(ctx, StorageKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		s.logger.Info("No stored favorites yet, starting empty", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	var stored []int64
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		s.logger.Warn("Stored favorites are not a JSON integer array, ignoring", port.Fields{"error": err.Error()})
		return nil
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	s.ids = make(map[int64]struct{}, len(stored))
	for _, id := range stored {
		s.ids[id] = struct{}{}
	}
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	s.logger.Info("Favorites loaded", port.Fields{"count": len(snapshot)})
	s.notify(snapshot)
	return nil
}

// Toggle flips membership of id and returns whether it is now a favourite.
func (s *Set) Toggle(id int64) bool {
	s.notifyMu.Lock()
	s.mu.Lock()
	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	s.notifyMu.Unlock()
	s.schedulePersist()
	return !present
}

func (s *Set) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the favourite ids in ascending order.
func (s *Set) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Subscribe registers fn for change notifications. The returned function
// removes it. fn is called synchronously from the mutating goroutine, one
// snapshot at a time in mutation order; it must not call Toggle or Load.
func (s *Set) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Close stops the writer after flushing a pending write.
func (s *Set) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

func (s *Set) notify(snapshot []int64) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(append([]int64(nil), snapshot...))
	}
}

func (s *Set) schedulePersist() {
	select {
	case s.dirty <- struct{}{}:
	default:
		// запись уже запланирована, она возьмет актуальное состояние
	}
}

func (s *Set) writer() {
	defer s.wg.Done()
	for {
		select {
		case <-s.dirty:
			s.persist()
		case <-s.done:
			select {
			case <-s.dirty:
				s.persist()
			default:
			}
			return
		}
	}
}

func (s *Set) persist() {
	snapshot := s.IDs()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("Failed to marshal favorites", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.Set(ctx, StorageKey, string(payload), 0); err != nil {
		s.logger.Error("Failed to persist favorites, keeping in-memory state", err, port.Fields{"count": len(snapshot)})
		return
	}
	s.logger.Debug("Favorites persisted", port.Fields{"count": len(snapshot)})
}

func (s *Set) sortedLocked() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
