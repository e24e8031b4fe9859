package backstage

import (
	"context"
	"time"
)

// CanonicalDateLayout is the canonical textual form of an event date:
// a calendar date with no time component.
const CanonicalDateLayout = "2006-01-02"

// CalendarEvent is a normalized event record scraped from the venue's
// events calendar. A fetch-and-parse cycle produces a new ordered sequence
// that fully replaces the cache; events are never mutated field-by-field.
type CalendarEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date"` // canonical YYYY-MM-DD, empty if unparseable
	RawDate     string `json:"rawDate,omitempty"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`
	HasTickets  bool   `json:"hasTickets"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// EventCacheEntry is the persisted form of a fetch cycle's result.
// Invalid or expired entries are discarded on read, not repaired.
type EventCacheEntry struct {
	Events    []CalendarEvent `json:"events"`
	FetchedAt time.Time       `json:"fetchedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Expired reports whether the entry is unusable at the given instant.
func (e *EventCacheEntry) Expired(now time.Time) bool {
	return e.ExpiresAt.IsZero() || !now.Before(e.ExpiresAt)
}

// MatchKind classifies the result of a date query against the calendar.
type MatchKind string

// Date match outcomes.
const (
	MatchExact   MatchKind = "exact"
	MatchNear    MatchKind = "near"
	MatchNone    MatchKind = "none"
	MatchInvalid MatchKind = "invalid"
)

// EventMatch is the result of looking up events for a date.
type EventMatch struct {
	Kind MatchKind `json:"kind"`

	// Date is the canonical form of the queried date. Empty when the
	// input could not be parsed (Kind == MatchInvalid).
	Date string `json:"date,omitempty"`

	// Events holds the exact match or the near-date candidates.
	Events []CalendarEvent `json:"events,omitempty"`

	// Message is a human-readable explanation for MatchNone and
	// MatchInvalid results.
	Message string `json:"message,omitempty"`
}

// EventService answers date queries against the events calendar.
type EventService interface {
	// AllEvents returns the current event sequence, sorted descending by
	// date. Fetch failures degrade to stale cache or generated fallback
	// data; the error is reserved for context cancellation.
	AllEvents(ctx context.Context) ([]CalendarEvent, error)

	// EventForDate resolves a free-form date and returns the matching
	// events. Parse and match failures are reported in the result, never
	// as an error.
	EventForDate(ctx context.Context, dateText string) (*EventMatch, error)

	// Refresh invalidates all cache layers and performs a full fetch cycle.
	Refresh(ctx context.Context) error
}

// HTMLFetcher retrieves raw HTML from a URL. Implementations hide
// transport details such as relay endpoints and rate limiting.
type HTMLFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// EventParser parses scraped calendar HTML into event records.
// Parsing is best-effort: missing fields default rather than fail, and
// events with unparseable dates are kept with an empty Date.
type EventParser interface {
	ParseEvents(html, sourceURL string) ([]CalendarEvent, error)
}
