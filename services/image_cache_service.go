package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
)

const (
	imageCacheTTL      = 30 * time.Minute
	maxImageDownload   = 20 << 20
	imageCacheMaxBytes = 256 << 20
)

// ImageCacheService downloads images over HTTP and keeps the bytes in
// memory, so repeated look generations for the same catalog do not refetch.
type ImageCacheService struct {
	cache      *cache.LoadableCache[[]byte]
	httpClient *http.Client
}

func NewImageCacheService() (*ImageCacheService, error) {
	ristrettoStore, err := newRistrettoStore(imageCacheMaxBytes)
	if err != nil {
		return nil, err
	}
	s := &ImageCacheService{httpClient: &http.Client{Timeout: 30 * time.Second}}
	loadFunction := func(ctx context.Context, key any) ([]byte, []store.Option, error) {
		url, ok := key.(string)
		if !ok {
			return nil, nil, fmt.Errorf("invalid key type provided to image cache: expected string, got %T", key)
		}
		data, err := s.download(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return data, []store.Option{store.WithExpiration(imageCacheTTL), store.WithCost(int64(len(data)))}, nil
	}
	s.cache = cache.NewLoadable[[]byte](loadFunction, cache.New[[]byte](ristrettoStore))
	return s, nil
}

// Fetch satisfies looks.ImageFetcher.
func (s *ImageCacheService) Fetch(ctx context.Context, url string) ([]byte, error) {
	return s.cache.Get(ctx, url)
}

func (s *ImageCacheService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", "fashionapi/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image, status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxImageDownload {
		return nil, fmt.Errorf("image at %s exceeds %d bytes", url, maxImageDownload)
	}
	log.Printf("[ImageCache] fetched %s (%d bytes)", url, len(data))
	return data, nil
}
