package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_NoAddrUsesMemory(t *testing.T) {
	s := NewStore(RedisConfig{})
	require.NotNil(t, s)

	require.NoError(t, s.Set("limiter:a", []byte("1"), time.Minute))
	got, err := s.Get("limiter:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}

func TestNewStore_WritesToSelectedRedisDB(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewStore(RedisConfig{Addr: mr.Addr(), DB: 2})
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("limiter:b", []byte("7"), time.Minute))

	mr.Select(2)
	v, err := mr.Get("limiter:b")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
	assert.True(t, mr.Exists("limiter:b"))
}

func TestNewStore_UnreachableRedisFallsBackToMemory(t *testing.T) {
	s := NewStore(RedisConfig{Addr: "127.0.0.1:1"})
	require.NotNil(t, s)

	require.NoError(t, s.Set("limiter:c", []byte("x"), time.Minute))
	got, err := s.Get("limiter:c")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
