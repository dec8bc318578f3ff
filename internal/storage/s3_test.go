package storage

import (
	"context"
	"strings"
	"testing"

	"couple-space-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoKey(t *testing.T) {
	assert.Equal(t, "photos/u-1/p-9", PhotoKey("u-1", "p-9"))
}

func TestS3StorePresignsWithStaticCredentials(t *testing.T) {
	store, err := NewS3Store(context.Background(), config.StorageConfig{
		Region:       "us-east-1",
		S3Bucket:     "couple-photos",
		AccessKey:    "AKIDEXAMPLE",
		SecretKey:    "secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
		URLTTLMin:    5,
	})
	require.NoError(t, err)

	url, err := store.URL(context.Background(), PhotoKey("u-1", "p-9"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/couple-photos/photos/u-1/p-9?"), url)
	assert.Contains(t, url, "X-Amz-Expires=300")
}
