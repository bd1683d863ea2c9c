package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON blobs under a TTL. Expiry is delegated
// to Redis itself, so Sweep is a no-op for this backend. Mutations are
// read-modify-write without a transaction; the kiosk is a single process
// and this store exists for deployments that want sessions off-heap, not
// for multi-process sharing.
type RedisStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *goredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "kiosk:session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(id), data, r.ttl).Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == goredis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) MarkFulfilled(ctx context.Context, id, code string) (string, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.Fulfilled {
		return s.ResolvedCode, nil
	}

	s.Fulfilled = true
	s.ResolvedCode = code
	s.NotReady = false

	if err := r.save(ctx, s); err != nil {
		return "", err
	}
	return code, nil
}

func (r *RedisStore) MarkNotReady(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Fulfilled {
		return nil
	}

	s.NotReady = true
	return r.save(ctx, s)
}

func (r *RedisStore) SetSelection(ctx context.Context, id string, selection json.RawMessage) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	s.Selection = selection
	return r.save(ctx, s)
}

// Sweep is a no-op: keys carry the TTL and Redis removes them itself.
func (r *RedisStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	return 0, nil
}

// save writes the session back without sliding its expiry.
func (r *RedisStore) save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.SetArgs(ctx, r.key(s.ID), data, goredis.SetArgs{
		KeepTTL: true,
	}).Err()
}
