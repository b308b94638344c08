package health

import (
	"context"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// Status is the outcome of one probe; Detail is "ok" on success.
type Status struct {
	Name   string
	Detail string
	OK     bool
}

// Report runs the dependency probes in order.
type Report struct {
	Checker      Checker
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Run probes every dependency and reports whether all are healthy.
func (r Report) Run(ctx context.Context) ([]Status, bool) {
	if r.Checker == nil {
		return []Status{{Name: "dependencies", Detail: "unavailable"}}, false
	}
	statuses := []Status{
		probe("db", r.Checker.PingDB(ctx, r.dbTimeout())),
		probe("redis", r.Checker.PingRedis(ctx, r.redisTimeout())),
	}
	healthy := true
	for _, s := range statuses {
		healthy = healthy && s.OK
	}
	return statuses, healthy
}

func probe(name string, err error) Status {
	if err != nil {
		return Status{Name: name, Detail: err.Error()}
	}
	return Status{Name: name, Detail: "ok", OK: true}
}

func (r Report) dbTimeout() time.Duration {
	if r.DBTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return r.DBTimeout
}

func (r Report) redisTimeout() time.Duration {
	if r.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return r.RedisTimeout
}

// ContextChecker adapts context-scoped ping functions to Checker.
// A nil function reports healthy.
type ContextChecker struct {
	DB    func(ctx context.Context) error
	Redis func(ctx context.Context) error
}

// PingDB implements Checker.
func (c ContextChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	return ping(ctx, timeout, c.DB)
}

// PingRedis implements Checker.
func (c ContextChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	return ping(ctx, timeout, c.Redis)
}

func ping(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
