// Package contentstore holds extracted page content between the moment a
// client submits it and the moment the tutor workflow claims it. Entries are
// single-use, expire after a TTL and the store is capacity bounded.
package contentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("content not found or already claimed")
	ErrEmpty    = errors.New("content text required")
)

type Content struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

type Entry struct {
	Key       string    `json:"key"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the hand-off contract. Take must return ErrNotFound for every
// caller except the first one to claim a key.
type Store interface {
	Put(ctx context.Context, c Content) (Entry, error)
	Take(ctx context.Context, key string) (Entry, error)
	Len(ctx context.Context) (int, error)
}

type Options struct {
	TTL      time.Duration
	Capacity int
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 10 * time.Minute
	}
	if o.Capacity <= 0 {
		o.Capacity = 1000
	}
	return o
}

func newEntry(c Content, now time.Time) (Entry, error) {
	c.Text = strings.TrimSpace(c.Text)
	c.Title = strings.TrimSpace(c.Title)
	c.URL = strings.TrimSpace(c.URL)
	if c.Text == "" {
		return Entry{}, ErrEmpty
	}
	return Entry{Key: uuid.NewString(), Content: c, CreatedAt: now.UTC()}, nil
}
