package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

// RedisStore keeps each sheet in a string key <prefix><id>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.Redis, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := ping(ctx, func(ctx context.Context) error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "connect redis %s", cfg.Addr)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// scanPattern matches every key under prefix, with the glob metacharacters of
// prefix taken literally.
func scanPattern(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, backendErr("read", id, err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return backendErr("write", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return backendErr("remove", id, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, scanPattern(s.prefix), 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "scan %s*", s.prefix)
	}
	// SCAN may return a key more than once.
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
