package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mwalczyk/backstage"
)

// CacheKey is the durable cache key under which the event sequence and
// its timestamps are persisted.
const CacheKey = "calendar:events"

// Store defaults.
const (
	DefaultTTL           = time.Hour
	DefaultNearDayWindow = 3
	DefaultEventsURL     = "https://www.studio338.co.uk/events"
)

// Ensure Store implements backstage.EventService at compile time.
var _ backstage.EventService = (*Store)(nil)

// Store is the calendar event store. It consults the durable cache, then
// the in-session cache, then the network; fetch failures degrade to stale
// data or deterministically generated fallback events, never to an error.
type Store struct {
	cache   backstage.Cache
	fetcher backstage.HTMLFetcher
	parser  backstage.EventParser

	url    string
	ttl    time.Duration
	window int
	now    func() time.Time

	mu      sync.Mutex
	session *backstage.EventCacheEntry
}

// Option configures a Store.
type Option func(*Store)

// WithSourceURL sets the events page URL. Defaults to DefaultEventsURL.
func WithSourceURL(url string) Option {
	return func(s *Store) { s.url = url }
}

// WithTTL sets the cache entry lifetime. Defaults to DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithNearDayWindow sets the near-match window in days.
// Defaults to DefaultNearDayWindow.
func WithNearDayWindow(days int) Option {
	return func(s *Store) { s.window = days }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over the given cache, fetcher and parser.
func New(cache backstage.Cache, fetcher backstage.HTMLFetcher, parser backstage.EventParser, opts ...Option) *Store {
	s := &Store{
		cache:   cache,
		fetcher: fetcher,
		parser:  parser,
		url:     DefaultEventsURL,
		ttl:     DefaultTTL,
		window:  DefaultNearDayWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllEvents returns the current event sequence, sorted descending by date.
// Lookup order: durable cache, in-session cache, network fetch. The error
// return is reserved for context cancellation.
func (s *Store) AllEvents(ctx context.Context) ([]backstage.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if entry := s.readDurable(ctx, now); entry != nil {
		s.session = entry
		return entry.Events, nil
	}
	if s.session != nil && !s.session.Expired(now) {
		return s.session.Events, nil
	}
	return s.fetchLocked(ctx, now), nil
}

// EventForDate resolves free-form date text and matches it against the
// calendar: an exact match if any event falls on the date, otherwise all
// events within the near-day window, otherwise a not-found result. Parse
// and match failures are reported in the result, never as an error.
func (s *Store) EventForDate(ctx context.Context, dateText string) (*backstage.EventMatch, error) {
	target, err := NormalizeDate(dateText, s.now())
	if err != nil {
		return &backstage.EventMatch{
			Kind:    backstage.MatchInvalid,
			Message: backstage.ErrorMessage(err),
		}, nil
	}

	events, err := s.AllEvents(ctx)
	if err != nil {
		return nil, err
	}

	var exact []backstage.CalendarEvent
	for _, e := range events {
		if e.Date == target {
			exact = append(exact, e)
		}
	}
	if len(exact) > 0 {
		return &backstage.EventMatch{Kind: backstage.MatchExact, Date: target, Events: exact}, nil
	}

	targetDay, _ := time.Parse(backstage.CanonicalDateLayout, target)
	var near []backstage.CalendarEvent
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		day, err := time.Parse(backstage.CanonicalDateLayout, e.Date)
		if err != nil {
			continue
		}
		diff := day.Sub(targetDay) / (24 * time.Hour)
		if diff < 0 {
			diff = -diff
		}
		if int(diff) <= s.window {
			near = append(near, e)
		}
	}
	if len(near) > 0 {
		return &backstage.EventMatch{Kind: backstage.MatchNear, Date: target, Events: near}, nil
	}

	return &backstage.EventMatch{
		Kind:    backstage.MatchNone,
		Date:    target,
		Message: fmt.Sprintf("No events found on or within %d days of %s.", s.window, target),
	}, nil
}

// Refresh invalidates both cache layers unconditionally, then performs a
// full fetch cycle.
func (s *Store) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	_ = s.cache.Remove(ctx, CacheKey)
	s.fetchLocked(ctx, s.now())
	return nil
}

// fetchLocked performs one fetch-and-parse cycle. On fetch or parse
// failure it returns the stale session cache if present, else fallback
// data. A cycle that parses zero events is replaced wholesale by the
// fallback generator. Callers must hold s.mu.
func (s *Store) fetchLocked(ctx context.Context, now time.Time) []backstage.CalendarEvent {
	html, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return s.degradeLocked(now)
	}

	events, err := s.parser.ParseEvents(html, s.url)
	if err != nil {
		return s.degradeLocked(now)
	}
	if len(events) == 0 {
		return FallbackEvents(now)
	}

	sortEventsDesc(events)

	entry := &backstage.EventCacheEntry{
		Events:    events,
		FetchedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if blob, err := json.Marshal(entry); err == nil {
		// Best effort: a cache write failure must not fail the fetch.
		_ = s.cache.Set(ctx, CacheKey, string(blob))
	}
	s.session = entry

	return events
}

// degradeLocked returns the stale in-session cache unchanged if present,
// else generated fallback events. Callers must hold s.mu.
func (s *Store) degradeLocked(now time.Time) []backstage.CalendarEvent {
	if s.session != nil {
		return s.session.Events
	}
	return FallbackEvents(now)
}

// readDurable loads the persisted cache entry. Corrupt and expired
// entries are discarded on read, not repaired.
func (s *Store) readDurable(ctx context.Context, now time.Time) *backstage.EventCacheEntry {
	blob, err := s.cache.Get(ctx, CacheKey)
	if err != nil {
		return nil
	}

	var entry backstage.EventCacheEntry
	if err := json.Unmarshal([]byte(blob), &entry); err != nil || entry.Expired(now) {
		_ = s.cache.Remove(ctx, CacheKey)
		return nil
	}
	return &entry
}

// sortEventsDesc orders events newest-first; events without a parseable
// date sort last.
func sortEventsDesc(events []backstage.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
}
