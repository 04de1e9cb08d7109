package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

const presignedURLExpiration = 15 * time.Minute

// slightly less than expiration
const cacheCleanupInterval = 12 * time.Minute

type URLCacheServiceProvider interface {
	GetReadURL(ctx context.Context, objectKeyOrURL string) (string, error)
}

// URLCacheService caches presigned R2 read URLs per object key.
type URLCacheService struct {
	cache *cache.LoadableCache[string]
}

func newRistrettoStore(maxCost int64) (*ristretto_store.RistrettoStore, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost / 100,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	return ristretto_store.NewRistretto(ristrettoCache), nil
}

func NewURLCacheService(storage AWSServiceProvider) (*URLCacheService, error) {
	ristrettoStore, err := newRistrettoStore(1 << 24)
	if err != nil {
		return nil, err
	}
	loadFunction := func(ctx context.Context, key any) (string, []store.Option, error) {
		objectKey, ok := key.(string)
		if !ok {
			return "", nil, fmt.Errorf("invalid key type provided to URL cache: expected string, got %T", key)
		}
		log.Printf("[URLCache] miss for %s, presigning", objectKey)
		url, err := storage.PresignRead(ctx, objectKey)
		return url, []store.Option{store.WithExpiration(cacheCleanupInterval), store.WithCost(1)}, err
	}
	return &URLCacheService{
		cache: cache.NewLoadable[string](loadFunction, cache.New[string](ristrettoStore)),
	}, nil
}

// GetReadURL passes absolute URLs through and presigns object keys.
func (s *URLCacheService) GetReadURL(ctx context.Context, objectKeyOrURL string) (string, error) {
	if objectKeyOrURL == "" || IsAbsoluteURL(objectKeyOrURL) {
		return objectKeyOrURL, nil
	}
	return s.cache.Get(ctx, objectKeyOrURL)
}

func IsAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "data:")
}
