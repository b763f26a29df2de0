package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), srv
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_, found, err := c.Get(ctx, "car_detail_1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "car_detail_1", []byte(`{"id":1}`), time.Minute))
	require.NoError(t, c.Set(ctx, "car_list", []byte(`[]`), time.Minute))

	value, found, err := c.Get(ctx, "car_detail_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"id":1}`, string(value))

	require.NoError(t, c.Delete(ctx, "car_detail_1", "car_list"))
	for _, key := range []string{"car_detail_1", "car_list"} {
		_, found, err = c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
}

func TestRedisCache_TTLIsApplied(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "product_list", []byte(`[]`), 300*time.Second))
	assert.Equal(t, 300*time.Second, srv.TTL("product_list"))

	srv.FastForward(301 * time.Second)
	_, found, err := c.Get(ctx, "product_list")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_ServerDownIsAnError(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t)
	srv.Close()

	_, _, err := c.Get(ctx, "car_list")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "car_list", []byte(`[]`), time.Minute))
}

func TestRedisCache_DeleteNothing(t *testing.T) {
	c, _ := newTestRedis(t)
	assert.NoError(t, c.Delete(context.Background()))
}
