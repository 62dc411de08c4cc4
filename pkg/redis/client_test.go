package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInit_PingFailureKeepsPreviousClient(t *testing.T) {
	prev := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	SetClient(prev)
	t.Cleanup(func() { _ = prev.Close() })

	orig := pingClient
	t.Cleanup(func() { pingClient = orig })
	pingClient = func(context.Context, *goredis.Client) error { return errors.New("unreachable") }

	require.EqualError(t, Init("redis://127.0.0.1:6379/0", "secret"), "unreachable")
	assert.Same(t, prev, GetClient())
}

func TestInit_WithMiniredis(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	require.NoError(t, Init("redis://"+srv.Addr()+"/0", ""))
	t.Cleanup(func() { _ = Close() })

	ctx := context.Background()
	require.NoError(t, Set(ctx, "k", "v", time.Minute))
	v, err := Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	ok, err := SetNX(ctx, "k", "other", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, Del(ctx, "k"))
	_, err = Get(ctx, "k")
	require.ErrorIs(t, err, Nil)
}

func TestSetClientAndBasicOpsWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0", // invalid/unreachable
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	assert.NotNil(t, GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, Del(ctx, "k"))
	_, err = SetNX(ctx, "k", "v", time.Second)
	assert.Error(t, err)
	assert.NoError(t, Close())
}

func TestClose_NilClient(t *testing.T) {
	SetClient(nil)
	assert.NoError(t, Close())
}

func TestOps_BeforeInit(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	assert.ErrorIs(t, Set(ctx, "idempotency:k", "v", time.Minute), ErrNotInitialized)
	_, err := Get(ctx, "idempotency:k")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, Del(ctx, "idempotency:k"), ErrNotInitialized)
	ok, err := SetNX(ctx, "idempotency:k", "v", time.Minute)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestPing(t *testing.T) {
	SetClient(nil)
	require.ErrorIs(t, Ping(context.Background()), ErrNotInitialized)

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)
	SetClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = Close() })
	require.NoError(t, Ping(context.Background()))

	srv.Close()
	assert.Error(t, Ping(context.Background()))
}

func TestPingClient_UnreachableEndpoint(t *testing.T) {
	c := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, pingClient(ctx, c))
}
