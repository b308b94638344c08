package lock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`

// Locker serialises critical sections across processes sharing a redis server.
// A nil Locker, or one without a client, runs callbacks directly.
type Locker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// New builds a locker whose keys are namespaced by prefix.
func New(client *redis.Client, prefix string, ttl, retry time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "lock"
	}
	return &Locker{client: client, prefix: prefix, ttl: ttl, retry: retry}
}

// Key returns the redis key guarding name.
func (l *Locker) Key(name string) string {
	return l.prefix + ":" + name
}

// Do executes fn while holding the lock for name. The lock is released even if
// fn fails. Waiting ends with the context's error.
func (l *Locker) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	if l == nil || l.client == nil {
		return fn(ctx)
	}
	key := l.Key(name)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			defer l.release(key, token)
			return fn(ctx)
		}
		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unknown command") {
			_ = l.client.Del(ctx, key).Err()
		}
	}
}
