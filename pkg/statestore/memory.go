package statestore

import (
	"container/list"
	"context"
	"sync"

	"github.com/benbjohnson/clock"
)

type memoryEntry struct {
	key    Key
	record Record
}

// MemoryStore keeps states in process memory. With a capacity it behaves as an LRU:
// once full, saving a new key evicts the least recently used record.
type MemoryStore struct {
	capacity int
	clock    clock.Clock

	mu      sync.Mutex
	items   map[Key]*list.Element
	recency *list.List
	onEvict func(key Key, rec Record)
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithCapacity bounds the number of stored records. Zero means unbounded.
func WithCapacity(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the clock stamping Record.UpdatedAt.
func WithClock(c clock.Clock) MemoryOption {
	return func(s *MemoryStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithEvictCallback sets a function called for every record dropped to make room.
func WithEvictCallback(fn func(key Key, rec Record)) MemoryOption {
	return func(s *MemoryStore) {
		s.onEvict = fn
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		clock:   clock.New(),
		items:   make(map[Key]*list.Element),
		recency: list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the record for key and marks it as recently used.
func (s *MemoryStore) Load(_ context.Context, key Key) (Record, error) {
	if err := key.Validate(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	s.recency.MoveToFront(elem)
	return elem.Value.(*memoryEntry).record, nil
}

func (s *MemoryStore) Save(_ context.Context, key Key, state string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	rec := Record{State: state, UpdatedAt: s.clock.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.recency.MoveToFront(elem)
		elem.Value.(*memoryEntry).record = rec
		return nil
	}
	s.items[key] = s.recency.PushFront(&memoryEntry{key: key, record: rec})
	if s.capacity > 0 && s.recency.Len() > s.capacity {
		s.evict(s.recency.Back())
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.recency.Remove(elem)
		delete(s.items, key)
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recency.Len()
}

// Must be called with the lock held.
func (s *MemoryStore) evict(elem *list.Element) {
	if elem == nil {
		return
	}
	s.recency.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(s.items, entry.key)
	if s.onEvict != nil {
		s.onEvict(entry.key, entry.record)
	}
}
