package db

import (
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// Cache keys are tracked per concern so a whole group can be dropped when its
// underlying rows change (popular ranking on category creation, a category's
// average on any spending write touching it).
var (
	Cache            *ristretto.Cache
	AverageCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

const PopularCategoriesCacheKey = "popular_categories"

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache")
	}
}

func SetPopularCache(value interface{}) {
	Cache.Set(PopularCategoriesCacheKey, value, 1)
}

func DelPopularCache() {
	Cache.Del(PopularCategoriesCacheKey)
}

func SetAverageCache(cacheKey string, value interface{}) {
	AverageCacheKeys.Lock()
	AverageCacheKeys.m[cacheKey] = struct{}{}
	AverageCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelAverageCache(cacheKey string) {
	AverageCacheKeys.Lock()
	delete(AverageCacheKeys.m, cacheKey)
	AverageCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllAverageCaches() {
	AverageCacheKeys.Lock()
	for key := range AverageCacheKeys.m {
		Cache.Del(key)
	}
	AverageCacheKeys.m = make(map[string]struct{})
	AverageCacheKeys.Unlock()
}
