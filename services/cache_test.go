package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCacheFetch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	images, err := NewImageCacheService()
	require.NoError(t, err)

	data, err := images.Fetch(context.Background(), server.URL+"/shirt.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	data, err = images.Fetch(context.Background(), server.URL+"/shirt.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	_, err = images.Fetch(context.Background(), server.URL+"/missing.png")
	assert.Error(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&hits), int32(2))
}

type countingStorage struct {
	reads int32
}

func (s *countingStorage) PresignUpload(ctx context.Context, objectKey string) (string, error) {
	return "https://upload/" + objectKey, nil
}

func (s *countingStorage) PresignRead(ctx context.Context, objectKey string) (string, error) {
	atomic.AddInt32(&s.reads, 1)
	return "https://read/" + objectKey, nil
}

func (s *countingStorage) Upload(ctx context.Context, objectKey string, content []byte) error {
	return nil
}

func TestURLCachePresignsKeysOnly(t *testing.T) {
	storage := &countingStorage{}
	urls, err := NewURLCacheService(storage)
	require.NoError(t, err)

	url, err := urls.GetReadURL(context.Background(), "profiles/1/me.png")
	require.NoError(t, err)
	assert.Equal(t, "https://read/profiles/1/me.png", url)

	url, err = urls.GetReadURL(context.Background(), "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", url)

	url, err = urls.GetReadURL(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", url)
	assert.Equal(t, int32(1), atomic.LoadInt32(&storage.reads))
}
