package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/fetch"
)

func TestWebFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<html>hello</html>"))
	}))
	t.Cleanup(server.Close)

	f := fetch.NewWebFetcher(0)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "<html>hello</html>", body)
}

func TestWebFetcher_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	f := fetch.NewWebFetcher(0)
	_, err := f.Fetch(context.Background(), server.URL)

	var rle *fetch.RateLimitError
	require.ErrorAs(t, err, &rle)
	require.Equal(t, http.StatusTooManyRequests, rle.StatusCode)
	require.Equal(t, 30*time.Second, rle.RetryAfter)
}

func TestWebFetcher_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	f := fetch.NewWebFetcher(0)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var rle *fetch.RateLimitError
	require.False(t, errors.As(err, &rle))
}
