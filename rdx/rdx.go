package rdx

import (
	"time"

	"bazaar/globals"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client. Redis is a best-effort collaborator
// here: cache and event plumbing degrade gracefully when it is away.
var Conn = redis.NewClient(&redis.Options{
	Addr: globals.Cfg.RedisAddr,
})

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func SetWithExpiry(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

// PushCapped prepends value to a list and trims it to at most size
// entries, newest first.
func PushCapped(key, value string, size int64) error {
	if err := Conn.LPush(globals.Ctx, key, value).Err(); err != nil {
		return err
	}
	return Conn.LTrim(globals.Ctx, key, 0, size-1).Err()
}

func ListRange(key string, n int64) ([]string, error) {
	return Conn.LRange(globals.Ctx, key, 0, n-1).Result()
}
