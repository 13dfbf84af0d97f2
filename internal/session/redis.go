package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "feedback:challenge"

// RedisStore keeps challenges in Redis so that every server instance sees
// the same pending value. Requires Redis 6.2 or newer for GETDEL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a store whose keys expire after ttl
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, challenge uint32) error {
	err := s.client.Set(ctx, s.key(sessionID), uint64(challenge), s.ttl).Err()
	return errors.Wrap(err, "storing challenge")
}

func (s *RedisStore) Take(ctx context.Context, sessionID string) (uint32, bool, error) {
	val, err := s.client.GetDel(ctx, s.key(sessionID)).Uint64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "taking challenge")
	}
	if val > uint64(^uint32(0)) {
		return 0, false, errors.Errorf("stored challenge %d out of range", val)
	}
	return uint32(val), true, nil
}
