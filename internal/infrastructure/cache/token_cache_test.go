//go:build unit
// +build unit

package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenCache(t *testing.T, size int, ttl time.Duration) (*lruTokenCache, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	c, err := NewTokenCache(config.CacheSettings{TTL: ttl, MaximumSize: size}, logger.NewWriterLogger(config.LogLevelDebug, &buf))
	require.NoError(t, err)

	return c.(*lruTokenCache), &buf
}

func TestNewTokenCache_InvalidSettings(t *testing.T) {
	log := logger.NewWriterLogger(config.LogLevelInfo, &bytes.Buffer{})

	_, err := NewTokenCache(config.CacheSettings{TTL: time.Minute, MaximumSize: 0}, log)
	assert.Error(t, err)

	_, err = NewTokenCache(config.CacheSettings{TTL: 0, MaximumSize: 10}, log)
	assert.Error(t, err)
}

func TestTokenCache_GetPutStats(t *testing.T) {
	c, _ := newTestTokenCache(t, 10, time.Minute)

	_, ok := c.Get("AAAA")
	assert.False(t, ok)

	c.Put("AAAA", "1111 2222 3333 4444")
	accountNumber, ok := c.Get("AAAA")
	require.True(t, ok)
	assert.Equal(t, "1111 2222 3333 4444", accountNumber)
	assert.Equal(t, 1, c.Len())

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 0, stats.Evictions)
}

func TestTokenCache_SizeEvictionIsLogged(t *testing.T) {
	c, buf := newTestTokenCache(t, 2, time.Minute)

	c.Put("first", "1111 2222 3333 4444")
	c.Put("second", "5555 6666 7777 8888")
	c.Put("third", "1234 5678 9012 3456")

	_, ok := c.Get("first")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.EqualValues(t, 1, c.Stats().Evictions)
	assert.Contains(t, buf.String(), "Key 'first' was evicted from tokenCache")
	assert.NotContains(t, buf.String(), "1111 2222 3333 4444")
}

func TestTokenCache_ExpiresAfterWrite(t *testing.T) {
	c, _ := newTestTokenCache(t, 10, 50*time.Millisecond)

	c.Put("AAAA", "1111 2222 3333 4444")
	_, ok := c.Get("AAAA")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("AAAA")
		return !ok
	}, time.Second, 20*time.Millisecond)
}

func TestTokenCache_ExplicitRemovalIsNotAnEviction(t *testing.T) {
	c, buf := newTestTokenCache(t, 10, time.Minute)

	c.Put("AAAA", "1111 2222 3333 4444")
	c.Put("BBBB", "5555 6666 7777 8888")

	c.Evict("AAAA")
	_, ok := c.Get("AAAA")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.EqualValues(t, 0, c.Stats().Evictions)
	assert.NotContains(t, buf.String(), "was evicted")
}
