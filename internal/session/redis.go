package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

const (
	redisPrefix     = "fleetflow:session:"
	redisMaxRetries = 5
)

// RedisStore keeps each session as a JSON value whose TTL tracks the
// session expiry, so Redis evicts expired sessions itself.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) ttl(sess models.Session) time.Duration {
	if sess.Expiry.IsZero() {
		return 0
	}
	d := sess.Expiry.Sub(s.now())
	if d <= 0 {
		return time.Millisecond
	}
	return d
}

func (s *RedisStore) Create(ctx context.Context, sess models.Session) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, redisPrefix+id, data, s.ttl(sess)).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.Session, error) {
	data, err := s.client.Get(ctx, redisPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(s.now()) {
		return models.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	exp := s.ttl(sess)
	if exp == 0 {
		exp = redis.KeepTTL
	}
	ok, err := s.client.SetXX(ctx, redisPrefix+id, data, exp).Result()
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Update runs fn under WATCH and retries when another writer touched the
// key between the read and the write.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (models.Session, error) {
	key := redisPrefix + id
	var out models.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get session: %w", err)
		}
		var sess models.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		if sess.Expired(s.now()) {
			return ErrNotFound
		}
		if err := fn(&sess); err != nil {
			return err
		}
		if data, err = json.Marshal(sess); err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		exp := s.ttl(sess)
		if exp == 0 {
			exp = redis.KeepTTL
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, exp)
			return nil
		})
		if err == nil {
			out = sess
		}
		return err
	}
	for i := 0; i < redisMaxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return models.Session{}, err
		}
		return out, nil
	}
	return models.Session{}, fmt.Errorf("redis update session: %w", redis.TxFailedErr)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	iter := s.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id := key[len(redisPrefix):]
		sess, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, Session: sess})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan sessions: %w", err)
	}
	return out, nil
}
