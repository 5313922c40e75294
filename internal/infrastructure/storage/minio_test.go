package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMinIOForResolve builds the store without touching the network; key
// resolution is pure URL parsing.
func newMinIOForResolve(t *testing.T) *MinIOStorage {
	t.Helper()

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	return &MinIOStorage{client: client, bucket: "libreria"}
}

func TestMinIOResolveKey(t *testing.T) {
	s := newMinIOForResolve(t)

	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{
			name:    "own object URL",
			locator: "http://localhost:9000/libreria/covers/abc-123.png",
			want:    "covers/abc-123.png",
		},
		{
			name:    "nested key",
			locator: "http://localhost:9000/libreria/covers/2024/cover.jpg",
			want:    "covers/2024/cover.jpg",
		},
		{
			name:    "foreign host",
			locator: "http://cdn.example.com/libreria/covers/abc.png",
			want:    "",
		},
		{
			name:    "foreign bucket",
			locator: "http://localhost:9000/other-bucket/covers/abc.png",
			want:    "",
		},
		{
			name:    "bare filename",
			locator: "cover-123.png",
			want:    "",
		},
		{
			name:    "empty",
			locator: "",
			want:    "",
		},
		{
			name:    "bucket root",
			locator: "http://localhost:9000/libreria/",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ResolveKey(tt.locator))
		})
	}
}

func TestMinIOObjectURLRoundTrip(t *testing.T) {
	s := newMinIOForResolve(t)

	url := s.objectURL("covers/abc.png")
	assert.Equal(t, "http://localhost:9000/libreria/covers/abc.png", url)
	assert.Equal(t, "covers/abc.png", s.ResolveKey(url))
}
