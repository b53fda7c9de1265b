package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) GetFromCache(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memoryCache) SetCache(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = data
	return nil
}

type countingEnhancer struct {
	calls int
	err   error
}

func (e *countingEnhancer) Enhance(_ context.Context, _ *processor.Config, input, _, _ string) (string, string, error) {
	e.calls++
	if e.err != nil {
		return "", "", e.err
	}
	return "enhanced: " + input, "General", nil
}

func TestCachingEnhancerServesRepeats(t *testing.T) {
	next := &countingEnhancer{}
	cache := newMemoryCache()
	e := NewCachingEnhancer(next, cache, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		enhanced, tmpl, err := e.Enhance(ctx, nil, "hello", "default", "")
		require.NoError(t, err)
		assert.Equal(t, "enhanced: hello", enhanced)
		assert.Equal(t, "General", tmpl)
	}
	assert.Equal(t, 1, next.calls)

	_, _, err := e.Enhance(ctx, nil, "hello", "gpt4", "")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachingEnhancerDegradesOnCacheErrors(t *testing.T) {
	next := &countingEnhancer{}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	e := NewCachingEnhancer(next, cache, zap.NewNop())

	for i := 0; i < 2; i++ {
		enhanced, _, err := e.Enhance(context.Background(), nil, "hello", "default", "")
		require.NoError(t, err)
		assert.Equal(t, "enhanced: hello", enhanced)
	}
	assert.Equal(t, 2, next.calls)
}

func TestCachingEnhancerDoesNotCacheErrors(t *testing.T) {
	next := &countingEnhancer{err: processor.ErrConfiguration}
	cache := newMemoryCache()
	e := NewCachingEnhancer(next, cache, zap.NewNop())

	_, _, err := e.Enhance(context.Background(), nil, "hello", "default", "nope")
	assert.ErrorIs(t, err, processor.ErrConfiguration)
	assert.Empty(t, cache.data)
}

func TestCachingEnhancerIgnoresMalformedEntries(t *testing.T) {
	next := &countingEnhancer{}
	cache := newMemoryCache()
	cache.data[GenerateCacheKey("hello", "default", "")] = []byte("not json")
	e := NewCachingEnhancer(next, cache, zap.NewNop())

	enhanced, _, err := e.Enhance(context.Background(), nil, "hello", "default", "")
	require.NoError(t, err)
	assert.Equal(t, "enhanced: hello", enhanced)
	assert.Equal(t, 1, next.calls)
}
