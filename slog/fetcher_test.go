package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/mock"
	bsslog "github.com/mwalczyk/backstage/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("passes content through and logs the size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := bsslog.NewLoggingFetcher(&mock.HTMLFetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html/>", nil
			},
		}, bufferLogger(&buf))

		html, err := fetcher.Fetch(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<html/>", html)
		assert.Contains(t, buf.String(), "url=https://example.com")
		assert.Contains(t, buf.String(), "bytes=7")
	})

	t.Run("passes errors through and logs them", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := bsslog.NewLoggingFetcher(&mock.HTMLFetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", backstage.Errorf(backstage.EUNAVAILABLE, "events page unreachable")
			},
		}, bufferLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, backstage.EUNAVAILABLE, backstage.ErrorCode(err))
		assert.Contains(t, buf.String(), "fetch failed")
	})
}

func TestLoggingSpecSource(t *testing.T) {
	t.Parallel()

	t.Run("logs the catalog version", func(t *testing.T) {
		t.Parallel()

		ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		var buf bytes.Buffer
		source := bsslog.NewLoggingSpecSource(&mock.SpecSource{
			CatalogFn: func(ctx context.Context) (*backstage.SpecCatalog, time.Time, error) {
				return &backstage.SpecCatalog{
					Metadata: backstage.SpecMetadata{Version: "2.1", LastUpdated: ts},
				}, ts, nil
			},
		}, bufferLogger(&buf))

		catalog, gotTS, err := source.Catalog(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "2.1", catalog.Metadata.Version)
		assert.Equal(t, ts, gotTS)
		assert.Contains(t, buf.String(), "version=2.1")
	})

	t.Run("logs version check failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		source := bsslog.NewLoggingSpecSource(&mock.SpecSource{
			VersionFn: func(ctx context.Context) (time.Time, error) {
				return time.Time{}, backstage.Errorf(backstage.EUNAVAILABLE, "spec source unreachable")
			},
		}, bufferLogger(&buf))

		_, err := source.Version(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "spec version check failed")
	})
}
