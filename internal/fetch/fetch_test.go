package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var gotUA, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := New(WithRate(100, 100))
	body, err := c.Get(context.Background(), "site", srv.URL, map[string]string{"Cookie": "adc=1"})
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Equal(t, "adc=1", gotCookie)
}

func TestGetRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(WithRate(100, 100))
	_, err := c.Get(context.Background(), "site", srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetHonorsContextCancellation(t *testing.T) {
	c := New(WithRate(0.001, 1))
	ctx, cancel := context.WithCancel(context.Background())

	// Exhaust the burst so the next call blocks on the limiter.
	_, _ = c.Get(ctx, "site", "http://127.0.0.1:0/", nil)
	cancel()

	_, err := c.Get(ctx, "site", "http://127.0.0.1:0/", nil)
	assert.Error(t, err)
}

func TestPerSiteLimitersAreIndependent(t *testing.T) {
	c := New(WithRate(1, 1))
	assert.NotSame(t, c.limiter("a"), c.limiter("b"))
	assert.Same(t, c.limiter("a"), c.limiter("a"))
}
