package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pos/internal/lock"
)

func newLocker(t *testing.T) (*miniredis.Miniredis, *lock.Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, lock.New(client, "pos:lock:", time.Second, 5*time.Millisecond)
}

func TestDoSerialisesHolders(t *testing.T) {
	_, locker := newLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var order []string
	var mu sync.Mutex
	firstDone := make(chan struct{})
	releaseFirst := make(chan struct{})
	errs := make(chan error, 2)

	go func() {
		errs <- locker.Do(ctx, "lot", func(context.Context) error {
			mu.Lock()
			order = append(order, "first")
			mu.Unlock()
			close(firstDone)
			<-releaseFirst
			return nil
		})
	}()

	<-firstDone

	go func() {
		errs <- locker.Do(ctx, "lot", func(context.Context) error {
			mu.Lock()
			order = append(order, "second")
			mu.Unlock()
			return nil
		})
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Equal(t, []string{"first"}, order, "second holder must wait")
	mu.Unlock()
	close(releaseFirst)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestDoReleasesOnError(t *testing.T) {
	mr, locker := newLocker(t)
	boom := errors.New("boom")

	err := locker.Do(context.Background(), "lot", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.False(t, mr.Exists(locker.Key("lot")))
	require.Equal(t, "pos:lock:lot", locker.Key("lot"))
}

func TestDoGivesUpWithContext(t *testing.T) {
	mr, locker := newLocker(t)
	require.NoError(t, mr.Set(locker.Key("lot"), "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	called := false
	err := locker.Do(ctx, "lot", func(context.Context) error { called = true; return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, called)
}

func TestNilLockerRunsDirectly(t *testing.T) {
	var locker *lock.Locker
	called := false
	require.NoError(t, locker.Do(context.Background(), "lot", func(context.Context) error { called = true; return nil }))
	require.True(t, called)
}
