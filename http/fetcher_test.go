package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwalczyk/backstage"
	bshttp "github.com/mwalczyk/backstage/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>events</html>"))
		}))
		defer srv.Close()

		html, err := bshttp.NewFetcher().Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html>events</html>", html)
	})

	t.Run("ErrUnavailable on a non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := bshttp.NewFetcher().Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, backstage.EUNAVAILABLE, backstage.ErrorCode(err))
	})

	t.Run("routes through the relay with an escaped target", func(t *testing.T) {
		t.Parallel()

		var gotTarget string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTarget = r.URL.Query().Get("url")
			w.Write([]byte("relayed"))
		}))
		defer srv.Close()

		fetcher := bshttp.NewFetcher(bshttp.WithRelay(srv.URL + "/?url="))

		html, err := fetcher.Fetch(context.Background(), "https://www.studio338.co.uk/events?page=2")

		require.NoError(t, err)
		assert.Equal(t, "relayed", html)
		assert.Equal(t, "https://www.studio338.co.uk/events?page=2", gotTarget)
	})

	t.Run("canceled context aborts a rate-limited fetch", func(t *testing.T) {
		t.Parallel()

		fetcher := bshttp.NewFetcher(bshttp.WithRateLimit(0.001))
		ctx, cancel := context.WithCancel(context.Background())

		// Exhaust the burst so the next fetch must wait.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))
		defer srv.Close()
		_, err := fetcher.Fetch(ctx, srv.URL)
		require.NoError(t, err)

		cancel()
		_, err = fetcher.Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})
}
