package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mwalczyk/backstage"
)

// Ensure LoggingSpecSource implements backstage.SpecSource at compile time.
var _ backstage.SpecSource = (*LoggingSpecSource)(nil)

// LoggingSpecSource wraps a SpecSource with structured logging.
type LoggingSpecSource struct {
	next   backstage.SpecSource
	logger *slog.Logger
}

// NewLoggingSpecSource creates a new LoggingSpecSource.
func NewLoggingSpecSource(next backstage.SpecSource, logger *slog.Logger) *LoggingSpecSource {
	return &LoggingSpecSource{next: next, logger: logger}
}

// Version delegates to the wrapped source and logs the outcome.
func (s *LoggingSpecSource) Version(ctx context.Context) (time.Time, error) {
	begin := time.Now()
	ts, err := s.next.Version(ctx)
	if err != nil {
		s.logger.Error("spec version check failed",
			"duration", time.Since(begin),
			"error", err,
		)
		return ts, err
	}
	s.logger.Info("spec version check",
		"version", ts,
		"duration", time.Since(begin),
	)
	return ts, nil
}

// Catalog delegates to the wrapped source and logs the outcome.
func (s *LoggingSpecSource) Catalog(ctx context.Context) (*backstage.SpecCatalog, time.Time, error) {
	begin := time.Now()
	catalog, ts, err := s.next.Catalog(ctx)
	if err != nil {
		s.logger.Error("spec catalog fetch failed",
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, ts, err
	}
	s.logger.Info("spec catalog fetch",
		"version", catalog.Metadata.Version,
		"duration", time.Since(begin),
	)
	return catalog, ts, nil
}
