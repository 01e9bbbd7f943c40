package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/pkg/config"
)

var _ ports.KVStore = (*RedisStore)(nil)

// appendRetries reintentos de AppendSeq cuando otro cliente modifica el contador.
const appendRetries = 16

// RedisStore implementación de ports.KVStore sobre Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore abre la conexión y verifica con PING.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Close cierra el pool de conexiones.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get lee una clave de texto.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set guarda una clave con TTL opcional.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete elimina una o varias claves.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Incr incrementa un contador.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return n, nil
}

// RPush agrega valores al final de una lista.
func (s *RedisStore) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := s.client.RPush(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("redis rpush %s: %w", key, err)
	}
	return nil
}

// LRange devuelve un rango de la lista.
func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	out, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", key, err)
	}
	return out, nil
}

// LTrim recorta la lista.
func (s *RedisStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	if err := s.client.LTrim(ctx, key, start, stop).Err(); err != nil {
		return fmt.Errorf("redis ltrim %s: %w", key, err)
	}
	return nil
}

// AppendSeq lee el contador bajo WATCH y confirma contador y lista en un MULTI.
// Si otro escritor cambia el contador entre medio la transacción se repite.
func (s *RedisStore) AppendSeq(ctx context.Context, counterKey, listKey string, keep int64, build func(int64) (string, error)) (int64, error) {
	var (
		seq      int64
		buildErr error
	)
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, counterKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		seq = cur + 1
		value, err := build(seq)
		if err != nil {
			buildErr = err
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, counterKey, seq, 0)
			pipe.RPush(ctx, listKey, value)
			if keep > 0 {
				pipe.LTrim(ctx, listKey, -keep, -1)
			}
			return nil
		})
		return err
	}

	for i := 0; i < appendRetries; i++ {
		err := s.client.Watch(ctx, txf, counterKey)
		switch {
		case err == nil:
			return seq, nil
		case buildErr != nil:
			return 0, buildErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return 0, fmt.Errorf("redis append %s: %w", listKey, err)
		}
	}
	return 0, fmt.Errorf("redis append %s: %w", listKey, redis.TxFailedErr)
}
