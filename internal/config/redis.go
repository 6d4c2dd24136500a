package config

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis instance backing rate limiting and the
// response cache. REDIS_ADDR is used when REDIS_HOST/REDIS_PORT are unset.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	TLS      bool   `envconfig:"REDIS_TLS" default:"false"`
}

func (c RedisConfig) address() string {
	if c.Host != "" && c.Port != "" {
		return c.Host + ":" + c.Port
	}
	return c.Addr
}

// NewRedisClient connects to Redis and pings it with a short timeout.
// It returns nil when Redis is unavailable; callers degrade to pass-through
// middleware in that case.
func NewRedisClient(log *slog.Logger) *redis.Client {
	var cfg RedisConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Warn("redis disabled: invalid config", "error", err)
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.address(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable; rate limiting and caching disabled", "addr", cfg.address(), "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
