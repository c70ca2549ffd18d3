package rdx

import (
	"os"
	"time"

	"regiobon/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}
