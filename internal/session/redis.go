package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"regen-insight/server/internal/errs"
)

// RedisStore keeps sessions in Redis so they survive restarts and are shared
// across replicas. Each session occupies two keys with the same TTL: the
// record under the token hash and a principal pointer used to evict the
// previous session on re-login.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(tokenHash string) string { return "session:" + tokenHash }

func sessionPrincipalKey(kind, principalID string) string {
	return fmt.Sprintf("session_principal:%s:%s", kind, principalID)
}

func (s *RedisStore) Put(ctx context.Context, tokenHash string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pk := sessionPrincipalKey(rec.Kind, rec.PrincipalID)
	old, err := s.rdb.Get(ctx, pk).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if old != "" {
		if err := s.rdb.Del(ctx, sessionKey(old)).Err(); err != nil {
			return err
		}
	}

	if err := s.rdb.Set(ctx, sessionKey(tokenHash), data, s.ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, pk, tokenHash, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, tokenHash string) (*Record, error) {
	data, err := s.rdb.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err == redis.Nil {
		return nil, errs.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	rec, err := s.Get(ctx, tokenHash)
	if err != nil {
		if err == errs.ErrSessionExpired {
			return nil
		}
		return err
	}
	if err := s.rdb.Del(ctx, sessionKey(tokenHash)).Err(); err != nil {
		return err
	}
	return s.rdb.Del(ctx, sessionPrincipalKey(rec.Kind, rec.PrincipalID)).Err()
}

func (s *RedisStore) DeleteByPrincipal(ctx context.Context, kind, principalID string) error {
	pk := sessionPrincipalKey(kind, principalID)
	hash, err := s.rdb.Get(ctx, pk).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, sessionKey(hash)).Err(); err != nil {
		return err
	}
	return s.rdb.Del(ctx, pk).Err()
}
