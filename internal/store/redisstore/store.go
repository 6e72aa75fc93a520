package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no transcript is cached for the user.
var ErrCacheMiss = errors.New("cache miss")

// Store is a read-through cache for serialized chat transcripts. It holds
// opaque JSON; the chat service owns the encoding.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(addr, password string, db int, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb, ttl: ttl}
}

func transcriptKey(userID uint64) string {
	return fmt.Sprintf("chat:transcript:%d", userID)
}

func (s *Store) GetTranscript(ctx context.Context, userID uint64) ([]byte, error) {
	b, err := s.rdb.Get(ctx, transcriptKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) SetTranscript(ctx context.Context, userID uint64, data []byte) error {
	return s.rdb.Set(ctx, transcriptKey(userID), data, s.ttl).Err()
}

func (s *Store) Invalidate(ctx context.Context, userID uint64) error {
	return s.rdb.Del(ctx, transcriptKey(userID)).Err()
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.rdb.Close()
}

// Ping verifies connectivity at startup.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
