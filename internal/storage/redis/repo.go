package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

const (
	backend    = "redis"
	maxRetries = 5
)

// Repo keeps each hotel as a JSON string under "<prefix>:doc:<id>" and the
// ids in a sorted set "<prefix>:ids" scored by insertion time.
type Repo struct {
	c      *redis.Client
	prefix string
}

func New(c *redis.Client, prefix string) *Repo {
	if prefix == "" {
		prefix = "hotels"
	}
	return &Repo{c: c, prefix: prefix}
}

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func (r *Repo) docKey(id string) string { return r.prefix + ":doc:" + id }
func (r *Repo) idsKey() string          { return r.prefix + ":ids" }

func (r *Repo) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (out domain.Hotel, err error) {
	defer observe("create", time.Now(), &err)

	h.ID = bson.NewObjectID().Hex()
	b, err := json.Marshal(h)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("encode hotel: %w", err)
	}
	_, err = r.c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(h.ID), b, 0)
		pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(time.Now().UnixNano()), Member: h.ID})
		return nil
	})
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("redis create: %w", err)
	}
	return h, nil
}

func (r *Repo) Find(ctx context.Context, f domain.Filter) (out []domain.Hotel, err error) {
	defer observe("find", time.Now(), &err)

	all, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]domain.Hotel, 0, len(all))
	for _, h := range all {
		if h.Matches(f) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *Repo) UpdateByID(ctx context.Context, id string, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_by_id", time.Now(), &err)
	return r.modify(ctx, id, domain.Filter{}, func(pipe redis.Pipeliner, cur domain.Hotel) (domain.Hotel, error) {
		next := cur.Merge(patch)
		b, err := json.Marshal(next)
		if err != nil {
			return domain.Hotel{}, fmt.Errorf("encode hotel: %w", err)
		}
		pipe.Set(ctx, r.docKey(id), b, 0)
		return next, nil
	})
}

func (r *Repo) UpdateOne(ctx context.Context, f domain.Filter, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_one", time.Now(), &err)

	id, err := r.firstMatch(ctx, f)
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.modify(ctx, id, f, func(pipe redis.Pipeliner, cur domain.Hotel) (domain.Hotel, error) {
		next := cur.Merge(patch)
		b, err := json.Marshal(next)
		if err != nil {
			return domain.Hotel{}, fmt.Errorf("encode hotel: %w", err)
		}
		pipe.Set(ctx, r.docKey(id), b, 0)
		return next, nil
	})
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer observe("delete_by_id", time.Now(), &err)
	return r.modify(ctx, id, domain.Filter{}, r.remove(ctx, id))
}

func (r *Repo) DeleteOne(ctx context.Context, f domain.Filter) (out domain.Hotel, err error) {
	defer observe("delete_one", time.Now(), &err)

	id, err := r.firstMatch(ctx, f)
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.modify(ctx, id, f, r.remove(ctx, id))
}

func (r *Repo) remove(ctx context.Context, id string) func(redis.Pipeliner, domain.Hotel) (domain.Hotel, error) {
	return func(pipe redis.Pipeliner, cur domain.Hotel) (domain.Hotel, error) {
		pipe.Del(ctx, r.docKey(id))
		pipe.ZRem(ctx, r.idsKey(), id)
		return cur, nil
	}
}

// modify runs fn against the current document under WATCH and commits the
// queued writes atomically. When the document changes concurrently the whole
// read-modify-write is retried. If f is non-zero the document must still
// match it at commit time.
func (r *Repo) modify(ctx context.Context, id string, f domain.Filter,
	fn func(redis.Pipeliner, domain.Hotel) (domain.Hotel, error)) (domain.Hotel, error) {

	key := r.docKey(id)
	var out domain.Hotel
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		var cur domain.Hotel
		if err := json.Unmarshal(b, &cur); err != nil {
			return fmt.Errorf("decode hotel %s: %w", id, err)
		}
		if !cur.Matches(f) {
			return domain.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			next, err := fn(pipe, cur)
			out = next
			return err
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := r.c.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.Hotel{}, fmt.Errorf("redis modify %s: %w", id, err)
		}
		return out, err
	}
	return domain.Hotel{}, fmt.Errorf("redis modify %s: too many concurrent writers", id)
}

func (r *Repo) firstMatch(ctx context.Context, f domain.Filter) (string, error) {
	all, err := r.scan(ctx)
	if err != nil {
		return "", err
	}
	for _, h := range all {
		if h.Matches(f) {
			return h.ID, nil
		}
	}
	return "", domain.ErrNotFound
}

// scan loads every hotel in insertion order. Ids whose document vanished
// between the two reads are skipped.
func (r *Repo) scan(ctx context.Context) ([]domain.Hotel, error) {
	ids, err := r.c.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}
	vals, err := r.c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load hotels: %w", err)
	}
	out := make([]domain.Hotel, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var h domain.Hotel
		if err := json.Unmarshal([]byte(s), &h); err != nil {
			return nil, fmt.Errorf("decode hotel %s: %w", ids[i], err)
		}
		out = append(out, h)
	}
	return out, nil
}

func observe(op string, start time.Time, err *error) {
	observability.ObserveStore(backend, op, *err, time.Since(start))
}
