package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fashionapi/looks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceReturnsImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stabilityai/sdxl", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG fake"))
	}))
	defer server.Close()

	client := NewHuggingFaceImageClient(server.URL, "hf_test")
	img, err := client.GenerateImage(context.Background(), "stabilityai/sdxl", "a navy suit")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, []byte("\x89PNG fake"), img.Data)
}

func TestHuggingFaceWarmingUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20.5}`))
	}))
	defer server.Close()

	_, err := NewHuggingFaceImageClient(server.URL, "hf_test").GenerateImage(context.Background(), "m", "p")
	var warming *looks.WarmingUpError
	require.True(t, errors.As(err, &warming))
	assert.Equal(t, 20500*time.Millisecond, warming.Wait)
	assert.Equal(t, "m", warming.Model)
}

func TestHuggingFaceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer server.Close()

	client := NewHuggingFaceImageClient(server.URL, "hf_test")
	_, err := client.GenerateImage(context.Background(), "down", "p")
	require.Error(t, err)
	var warming *looks.WarmingUpError
	assert.False(t, errors.As(err, &warming))

	_, err = client.GenerateImage(context.Background(), "json", "p")
	assert.Error(t, err)
}

func TestHuggingFaceAvailability(t *testing.T) {
	assert.False(t, NewHuggingFaceImageClient("", "").Available())
	assert.True(t, NewHuggingFaceImageClient("", "token").Available())
}
