package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Apolones/estore/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers path-style S3 requests from memory
type fakeS3 struct {
	mu       sync.Mutex
	buckets  map[string]bool
	objects  map[string][]byte
	types    map[string]string
	requests []string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	isBucket := len(r.URL.Path) > 1 && !containsSlash(r.URL.Path[1:])
	switch {
	case r.Method == http.MethodHead && isBucket:
		if !f.buckets[r.URL.Path[1:]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && isBucket:
		f.buckets[r.URL.Path[1:]] = true
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
	case r.Method == http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func containsSlash(s string) bool {
	for _, c := range s {
		if c == '/' {
			return true
		}
	}
	return false
}

func newTestStorage(t *testing.T, endpoint, prefix string) *S3ArchiveStorage {
	t.Helper()
	s, err := NewS3ArchiveStorage(context.Background(), &config.StorageConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          "uploads",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
		KeyPrefix:       prefix,
	})
	require.NoError(t, err)
	return s
}

func TestNewS3ArchiveStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ArchiveStorage(ctx, nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3ArchiveStorage(ctx, &config.StorageConfig{})
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("half of a key pair", func(t *testing.T) {
		_, err := NewS3ArchiveStorage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		assert.ErrorContains(t, err, "must be set together")
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		s, err := NewS3ArchiveStorage(ctx, &config.StorageConfig{
			Bucket: "b", Endpoint: "minio:9000", AccessKeyID: "k", SecretAccessKey: "s",
		})
		require.NoError(t, err)
		assert.Equal(t, "b", s.Bucket())
	})
}

func TestS3ArchiveStorage_ObjectKey(t *testing.T) {
	s := newTestStorage(t, "http://localhost:9000", "/estore/")
	assert.Equal(t, "estore/imports/1/data.zip", s.ObjectKey("imports/1/data.zip"))

	bare := newTestStorage(t, "http://localhost:9000", "")
	assert.Equal(t, "imports/1/data.zip", bare.ObjectKey("imports/1/data.zip"))
}

func TestS3ArchiveStorage_SaveAndExists(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	s := newTestStorage(t, srv.URL, "estore")

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.buckets["uploads"])

	require.NoError(t, s.Save(ctx, "imports/42/data.zip", []byte("PK\x03\x04"), "application/zip"))
	assert.Equal(t, []byte("PK\x03\x04"), fake.objects["/uploads/estore/imports/42/data.zip"])
	assert.Equal(t, "application/zip", fake.types["/uploads/estore/imports/42/data.zip"])

	ok, err := s.Exists(ctx, "imports/42/data.zip")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "imports/43/data.zip")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, s.Save(ctx, "", nil, "text/csv"))
}

func TestS3ArchiveStorage_EnsureBucketIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	fake.buckets["uploads"] = true
	s := newTestStorage(t, srv.URL, "")

	require.NoError(t, s.EnsureBucket(ctx))
	assert.Equal(t, []string{"HEAD /uploads"}, fake.requests)
}
