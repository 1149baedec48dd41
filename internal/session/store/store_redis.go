package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"contacts/internal/session"
	"contacts/pkg/platform/sentinel"
)

var redisOpDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "contacts_session_redis_op_duration_ms",
	Help:    "Latency of redis session store operations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
}, []string{"op"})

// RedisStore keeps session entries in Redis so every instance behind the load
// balancer sees the same journeys. Entries expire through Redis TTLs.
type RedisStore struct {
	client *redis.Client
}

// redisEnvelope is the stored value: the version travels with the data so a
// single GET is enough to check it.
type redisEnvelope struct {
	Version int64  `json:"v"`
	Data    []byte `json:"d"`
}

// NewRedis constructs a Redis-backed session store. The client lifecycle is
// managed by the caller.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key session.Key) (session.Record, error) {
	defer observe("get", time.Now())

	raw, err := s.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Record{}, fmt.Errorf("get %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("get %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return decodeEnvelope(raw)
}

// Create uses SETNX so two racing creators cannot both succeed.
func (s *RedisStore) Create(ctx context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	defer observe("create", time.Now())

	value, err := encodeEnvelope(1, data)
	if err != nil {
		return session.Record{}, err
	}
	ok, err := s.client.SetNX(ctx, key.String(), value, ttl).Result()
	if err != nil {
		return session.Record{}, fmt.Errorf("create %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	if !ok {
		return session.Record{}, fmt.Errorf("create %s: %w", key, sentinel.ErrConflict)
	}
	return session.Record{Data: data, Version: 1}, nil
}

func (s *RedisStore) Replace(ctx context.Context, key session.Key, data []byte, ttl time.Duration) (session.Record, error) {
	defer observe("replace", time.Now())

	var rec session.Record
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		version := int64(1)
		raw, err := tx.Get(ctx, key.String()).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			current, err := decodeEnvelope(raw)
			if err != nil {
				return err
			}
			version = current.Version + 1
		}
		rec, err = s.set(ctx, tx, key, version, data, ttl)
		return err
	}, key.String())
	if err != nil {
		return session.Record{}, translateTxErr("replace", key, err)
	}
	return rec, nil
}

// Update is an optimistic compare-and-set: WATCH the key, check the stored
// version, then write inside MULTI. A concurrent writer aborts the EXEC.
func (s *RedisStore) Update(ctx context.Context, key session.Key, expected int64, data []byte, ttl time.Duration) (session.Record, error) {
	defer observe("update", time.Now())

	var rec session.Record
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key.String()).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeEnvelope(raw)
		if err != nil {
			return err
		}
		if current.Version != expected {
			return fmt.Errorf("stored version %d, expected %d: %w", current.Version, expected, sentinel.ErrConflict)
		}
		rec, err = s.set(ctx, tx, key, expected+1, data, ttl)
		return err
	}, key.String())
	if err != nil {
		return session.Record{}, translateTxErr("update", key, err)
	}
	return rec, nil
}

func (s *RedisStore) Take(ctx context.Context, key session.Key) (session.Record, error) {
	defer observe("take", time.Now())

	raw, err := s.client.GetDel(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Record{}, fmt.Errorf("take %s: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("take %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return decodeEnvelope(raw)
}

func (s *RedisStore) Delete(ctx context.Context, key session.Key) error {
	defer observe("delete", time.Now())

	if err := s.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("delete %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, tx *redis.Tx, key session.Key, version int64, data []byte, ttl time.Duration) (session.Record, error) {
	value, err := encodeEnvelope(version, data)
	if err != nil {
		return session.Record{}, err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key.String(), value, ttl)
		return nil
	})
	if err != nil {
		return session.Record{}, err
	}
	return session.Record{Data: data, Version: version}, nil
}

// translateTxErr maps an aborted EXEC to a version conflict; sentinel errors
// raised inside the transaction pass through.
func translateTxErr(op string, key session.Key, err error) error {
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%s %s: concurrent write: %w", op, key, sentinel.ErrConflict)
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrConflict):
		return fmt.Errorf("%s %s: %w", op, key, err)
	default:
		return fmt.Errorf("%s %s: %w: %w", op, key, sentinel.ErrUnavailable, err)
	}
}

func encodeEnvelope(version int64, data []byte) ([]byte, error) {
	value, err := json.Marshal(redisEnvelope{Version: version, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode session entry: %w", err)
	}
	return value, nil
}

func decodeEnvelope(raw []byte) (session.Record, error) {
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return session.Record{}, fmt.Errorf("decode session entry: %w", err)
	}
	return session.Record{Data: env.Data, Version: env.Version}, nil
}

func observe(op string, start time.Time) {
	redisOpDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
