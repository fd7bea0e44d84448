package repository

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

// DefaultRedisAddr is used when no dial option is given
const DefaultRedisAddr = "localhost:6379"

type RedisPoolOption struct {
	f func(*redis.Pool)
}

func RedisPoolAddr(addr string) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.DialContext = func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialConnectTimeout(5*time.Second),
				redis.DialReadTimeout(5*time.Second),
				redis.DialWriteTimeout(5*time.Second))
		}
	}}
}

func RedisPoolIdleTimeout(timeout time.Duration) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.IdleTimeout = timeout
	}}
}

func RedisPoolMaxActive(i int) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.MaxActive = i
	}}
}

func RedisPoolMaxIdle(i int) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.MaxIdle = i
	}}
}

func RedisPoolTestOnBorrow(f func(c redis.Conn, t time.Time) error) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.TestOnBorrow = f
	}}
}

func RedisPoolWait(b bool) RedisPoolOption {
	return RedisPoolOption{func(do *redis.Pool) {
		do.Wait = b
	}}
}

// NewRedisPool builds a pool dialling DefaultRedisAddr unless overridden
func NewRedisPool(options ...RedisPoolOption) *redis.Pool {
	pool := &redis.Pool{
		MaxIdle:     2,
		IdleTimeout: 5 * time.Minute,
	}
	RedisPoolAddr(DefaultRedisAddr).f(pool)

	for _, option := range options {
		option.f(pool)
	}

	return pool
}

// PingOnBorrow checks idle connections before reuse
func PingOnBorrow(c redis.Conn, t time.Time) error {
	if time.Since(t) < time.Minute {
		return nil
	}
	_, err := c.Do("PING")
	return err
}
