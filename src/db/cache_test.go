package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageCacheLifecycle(t *testing.T) {
	InitCache()

	SetAverageCache("category_average_1", int64(1500))
	SetAverageCache("category_average_2", int64(900))
	Cache.Wait()

	v, found := Cache.Get("category_average_1")
	assert.True(t, found)
	assert.Equal(t, int64(1500), v)

	DelAverageCache("category_average_1")
	Cache.Wait()
	_, found = Cache.Get("category_average_1")
	assert.False(t, found)

	// Clearing drops every tracked key, not just the ones set since startup.
	SetAverageCache("category_average_3", int64(300))
	Cache.Wait()
	ClearAllAverageCaches()
	Cache.Wait()

	for _, key := range []string{"category_average_2", "category_average_3"} {
		_, found := Cache.Get(key)
		assert.False(t, found, key)
	}

	AverageCacheKeys.RLock()
	assert.Empty(t, AverageCacheKeys.m)
	AverageCacheKeys.RUnlock()
}

func TestPopularCacheRoundTrip(t *testing.T) {
	InitCache()

	SetPopularCache([]string{"food", "transport"})
	Cache.Wait()

	v, found := Cache.Get(PopularCategoriesCacheKey)
	assert.True(t, found)
	assert.Equal(t, []string{"food", "transport"}, v)

	DelPopularCache()
	Cache.Wait()
	_, found = Cache.Get(PopularCategoriesCacheKey)
	assert.False(t, found)
}
