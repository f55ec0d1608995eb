package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"TradePilot/internal/domain/models"
)

// RedisSignalCache is a SignalCache backed by Redis. Signals are stored
// as JSON under "signal:<coin>".
type RedisSignalCache struct {
	cli *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisSignalCache(cfg RedisConfig) *RedisSignalCache {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisSignalCache{cli: rdb}
}

func signalKey(coin string) string { return "signal:" + coin }

func (r *RedisSignalCache) Get(ctx context.Context, coin string) (models.MasterSignal, bool, error) {
	b, err := r.cli.Get(ctx, signalKey(coin)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.MasterSignal{}, false, nil
		}
		return models.MasterSignal{}, false, err
	}
	var s models.MasterSignal
	if err := json.Unmarshal(b, &s); err != nil {
		return models.MasterSignal{}, false, err
	}
	return s, true, nil
}

func (r *RedisSignalCache) Set(ctx context.Context, coin string, s models.MasterSignal, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.cli.Set(ctx, signalKey(coin), b, ttl).Err()
}

func (r *RedisSignalCache) Close() error { return r.cli.Close() }
