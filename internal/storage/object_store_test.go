package storage

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase("https://cdn.example.com/", "s3.local", false, "media"))
	assert.Equal(t, "http://s3.local:9000/media", publicBase("", "s3.local:9000", false, "media"))
	assert.Equal(t, "https://s3.amazonaws.com/media", publicBase("", "s3.amazonaws.com", true, "media"))
}

func TestNewObjectStore_SchemeFromEndpoint(t *testing.T) {
	s, err := NewObjectStore(&config.Config{
		MediaEndpoint:  "http://localhost:9000",
		MediaAccessKey: "key",
		MediaSecretKey: "secret",
		MediaBucket:    "apporbit-media",
		MediaRegion:    "us-east-1",
		MediaUseSSL:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/apporbit-media/uploads/a.png", s.URL("uploads/a.png"))
}
