package contentstore

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	opts  Options
	now   func() time.Time
}

// NewMemory returns a process-local store; the go-cache janitor sweeps
// expired entries every TTL/2.
func NewMemory(opts Options) Store {
	opts = opts.withDefaults()
	return &memoryStore{
		cache: gocache.New(opts.TTL, opts.TTL/2),
		opts:  opts,
		now:   time.Now,
	}
}

func (s *memoryStore) Put(_ context.Context, c Content) (Entry, error) {
	e, err := newEntry(c, s.now())
	if err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.DeleteExpired()
	for s.cache.ItemCount() >= s.opts.Capacity {
		s.evictOldestLocked()
	}
	s.cache.Set(e.Key, e, s.opts.TTL)
	return e, nil
}

func (s *memoryStore) Take(_ context.Context, key string) (Entry, error) {
	key = strings.TrimSpace(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(key)
	if !ok {
		return Entry{}, ErrNotFound
	}
	s.cache.Delete(key)
	return v.(Entry), nil
}

func (s *memoryStore) Len(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.DeleteExpired()
	return s.cache.ItemCount(), nil
}

func (s *memoryStore) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, item := range s.cache.Items() {
		e, ok := item.Object.(Entry)
		if !ok {
			s.cache.Delete(k)
			return
		}
		if oldestKey == "" || e.CreatedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.CreatedAt
		}
	}
	if oldestKey != "" {
		s.cache.Delete(oldestKey)
	}
}
