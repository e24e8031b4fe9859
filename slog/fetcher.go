// Package slog provides logging decorators for backstage interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mwalczyk/backstage"
)

// Ensure LoggingFetcher implements backstage.HTMLFetcher at compile time.
var _ backstage.HTMLFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps an HTMLFetcher with structured logging.
type LoggingFetcher struct {
	next   backstage.HTMLFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next backstage.HTMLFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch failed",
			"url", url,
			"duration", time.Since(begin),
			"error", err,
		)
		return "", err
	}
	f.logger.Info("fetch",
		"url", url,
		"bytes", len(html),
		"duration", time.Since(begin),
	)
	return html, nil
}
