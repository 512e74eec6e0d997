package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	index  string
	opts   Options
}

// NewRedis stores entries as JSON under "<prefix>:<key>" with a TTL and keeps
// a sorted-set index by creation time to enforce the capacity bound.
func NewRedis(rdb goredis.UniversalClient, prefix string, opts Options) Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "linguaspark:extract"
	}
	return &redisStore{rdb: rdb, prefix: prefix, index: prefix + ":index", opts: opts.withDefaults()}
}

func (s *redisStore) key(k string) string { return s.prefix + ":" + k }

func (s *redisStore) Put(ctx context.Context, c Content) (Entry, error) {
	e, err := newEntry(c, time.Now())
	if err != nil {
		return Entry{}, err
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return Entry{}, err
	}
	score := float64(e.CreatedAt.UnixNano())
	cutoff := float64(e.CreatedAt.Add(-s.opts.TTL).UnixNano())
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.key(e.Key), raw, s.opts.TTL)
		p.ZAdd(ctx, s.index, goredis.Z{Score: score, Member: e.Key})
		p.ZRemRangeByScore(ctx, s.index, "-inf", fmt.Sprintf("(%f", cutoff))
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("store content: %w", err)
	}
	if err := s.trim(ctx); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *redisStore) trim(ctx context.Context) error {
	n, err := s.rdb.ZCard(ctx, s.index).Result()
	if err != nil {
		return fmt.Errorf("content index size: %w", err)
	}
	over := n - int64(s.opts.Capacity)
	if over <= 0 {
		return nil
	}
	evicted, err := s.rdb.ZPopMin(ctx, s.index, over).Result()
	if err != nil {
		return fmt.Errorf("content index trim: %w", err)
	}
	keys := make([]string, 0, len(evicted))
	for _, z := range evicted {
		if member, ok := z.Member.(string); ok {
			keys = append(keys, s.key(member))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// Take uses GETDEL so exactly one concurrent caller receives the entry.
func (s *redisStore) Take(ctx context.Context, key string) (Entry, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, ErrNotFound
	}
	raw, err := s.rdb.GetDel(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("take content: %w", err)
	}
	_ = s.rdb.ZRem(ctx, s.index, key).Err()
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, fmt.Errorf("decode content: %w", err)
	}
	return e, nil
}

func (s *redisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.ZCard(ctx, s.index).Result()
	return int(n), err
}
