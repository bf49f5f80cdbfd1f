package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the few calls the store makes with path-style addressing.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case r.Method == http.MethodHead && strings.Count(strings.Trim(r.URL.Path, "/"), "/") == 0:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestStore_Upload(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	endpoint := strings.TrimPrefix(srv.URL, "http://")
	s, err := New(ctx, endpoint, "us-east-1", "snapshots", "key", "secret", false)
	require.NoError(t, err)
	require.NoError(t, s.Check(ctx))

	url, err := s.Upload(ctx, "tvp plant/TN5_Data/20240501-083000.csv", []byte("TAG\n"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/snapshots/tvp plant/TN5_Data/20240501-083000.csv", url)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	// plain http uploads may arrive chunk-signed, so only look for the payload
	assert.Contains(t, fake.objects["/snapshots/tvp plant/TN5_Data/20240501-083000.csv"], "TAG")
	assert.Equal(t, "text/csv", fake.types["/snapshots/tvp plant/TN5_Data/20240501-083000.csv"])
}
