package mock

import (
	"context"

	"github.com/mwalczyk/backstage"
)

// Compile-time interface verification.
var (
	_ backstage.HTMLFetcher  = (*HTMLFetcher)(nil)
	_ backstage.EventParser  = (*EventParser)(nil)
	_ backstage.EventService = (*EventService)(nil)
)

// HTMLFetcher is a mock implementation of backstage.HTMLFetcher.
type HTMLFetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *HTMLFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// EventParser is a mock implementation of backstage.EventParser.
type EventParser struct {
	ParseEventsFn func(html, sourceURL string) ([]backstage.CalendarEvent, error)
}

func (p *EventParser) ParseEvents(html, sourceURL string) ([]backstage.CalendarEvent, error) {
	return p.ParseEventsFn(html, sourceURL)
}

// EventService is a mock implementation of backstage.EventService.
type EventService struct {
	AllEventsFn    func(ctx context.Context) ([]backstage.CalendarEvent, error)
	EventForDateFn func(ctx context.Context, dateText string) (*backstage.EventMatch, error)
	RefreshFn      func(ctx context.Context) error
}

func (s *EventService) AllEvents(ctx context.Context) ([]backstage.CalendarEvent, error) {
	return s.AllEventsFn(ctx)
}

func (s *EventService) EventForDate(ctx context.Context, dateText string) (*backstage.EventMatch, error) {
	return s.EventForDateFn(ctx, dateText)
}

func (s *EventService) Refresh(ctx context.Context) error {
	return s.RefreshFn(ctx)
}
