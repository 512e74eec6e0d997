package contentstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutTake(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Options{TTL: time.Minute, Capacity: 10})

	e, err := s.Put(ctx, Content{Title: " Cats ", Text: " The cat sat. ", URL: "https://x.test"})
	require.NoError(t, err)
	require.NotEmpty(t, e.Key)
	assert.Equal(t, "Cats", e.Content.Title)
	assert.Equal(t, "The cat sat.", e.Content.Text)

	got, err := s.Take(ctx, e.Key)
	require.NoError(t, err)
	assert.Equal(t, e.Key, got.Key)
	assert.Equal(t, "https://x.test", got.Content.URL)

	_, err = s.Take(ctx, e.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRejectsEmptyText(t *testing.T) {
	s := NewMemory(Options{})
	_, err := s.Put(context.Background(), Content{Title: "x", Text: "   "})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestMemoryUnknownKey(t *testing.T) {
	s := NewMemory(Options{})
	_, err := s.Take(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Options{TTL: 20 * time.Millisecond, Capacity: 10})
	e, err := s.Put(ctx, Content{Text: "short lived"})
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = s.Take(ctx, e.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	ms := NewMemory(Options{TTL: time.Minute, Capacity: 2}).(*memoryStore)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	ms.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := ms.Put(ctx, Content{Text: "one"})
	require.NoError(t, err)
	second, err := ms.Put(ctx, Content{Text: "two"})
	require.NoError(t, err)
	third, err := ms.Put(ctx, Content{Text: "three"})
	require.NoError(t, err)

	n, err := ms.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = ms.Take(ctx, first.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ms.Take(ctx, second.Key)
	assert.NoError(t, err)
	_, err = ms.Take(ctx, third.Key)
	assert.NoError(t, err)
}

func TestMemoryTakeIsSingleUseUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Options{})
	e, err := s.Put(ctx, Content{Text: "contended"})
	require.NoError(t, err)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, e.Key); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}
