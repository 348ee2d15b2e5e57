package hub

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDownloadsAndCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/acme/genomic-tiny/resolve/main/checkpoint.json", r.URL.Path)
		w.Write([]byte(`{"version":1}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Resolve("acme/genomic-tiny", srv.URL, dir)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(body))

	// second resolve must hit the cache, not the server
	again, err := Resolve("acme/genomic-tiny", srv.URL, dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResolveRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Resolve("acme/missing", srv.URL, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestResolveEmptyID(t *testing.T) {
	_, err := Resolve("", "", t.TempDir())
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "acme_genomic-tiny_v1.0", sanitize("acme/genomic-tiny:v1.0"))
}
