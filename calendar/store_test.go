package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/calendar"
	"github.com/mwalczyk/backstage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFixture wires a Store over an in-memory cache with a controllable
// clock and counting fetcher.
type storeFixture struct {
	store   *calendar.Store
	cache   *mock.MemoryCache
	now     time.Time
	fetches int
}

func newStoreFixture(t *testing.T, events []backstage.CalendarEvent, fetchErr error) *storeFixture {
	t.Helper()

	f := &storeFixture{
		cache: mock.NewMemoryCache(),
		now:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	fetcher := &mock.HTMLFetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			f.fetches++
			if fetchErr != nil {
				return "", fetchErr
			}
			return "<html/>", nil
		},
	}
	parser := &mock.EventParser{
		ParseEventsFn: func(html, sourceURL string) ([]backstage.CalendarEvent, error) {
			return append([]backstage.CalendarEvent(nil), events...), nil
		},
	}
	f.store = calendar.New(f.cache, fetcher, parser,
		calendar.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func TestStore_AllEvents(t *testing.T) {
	t.Parallel()

	t.Run("fetches, sorts descending and persists on a cold start", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, []backstage.CalendarEvent{
			{Title: "Early", Date: "2024-06-10"},
			{Title: "Late", Date: "2024-06-15"},
		}, nil)

		events, err := f.store.AllEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "Late", events[0].Title)
		assert.Equal(t, "Early", events[1].Title)
		assert.Contains(t, f.cache.Values, calendar.CacheKey)
		assert.Equal(t, 1, f.fetches)
	})

	t.Run("a warm durable cache avoids the network", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, []backstage.CalendarEvent{{Title: "One", Date: "2024-06-10"}}, nil)

		_, err := f.store.AllEvents(context.Background())
		require.NoError(t, err)
		_, err = f.store.AllEvents(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, f.fetches)
	})

	t.Run("an expired entry is discarded and refetched", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, []backstage.CalendarEvent{{Title: "One", Date: "2024-06-10"}}, nil)

		_, err := f.store.AllEvents(context.Background())
		require.NoError(t, err)

		f.now = f.now.Add(calendar.DefaultTTL + time.Minute)
		_, err = f.store.AllEvents(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, f.fetches)
	})

	t.Run("a corrupt durable entry is discarded and refetched", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, []backstage.CalendarEvent{{Title: "One", Date: "2024-06-10"}}, nil)
		f.cache.Values[calendar.CacheKey] = "{not json"

		events, err := f.store.AllEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 1, f.fetches)
	})

	t.Run("fetch failure degrades to stale session data", func(t *testing.T) {
		t.Parallel()

		fetchErr := backstage.Errorf(backstage.EUNAVAILABLE, "events page unreachable")
		var failing bool
		f := &storeFixture{
			cache: mock.NewMemoryCache(),
			now:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}
		fetcher := &mock.HTMLFetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				f.fetches++
				if failing {
					return "", fetchErr
				}
				return "<html/>", nil
			},
		}
		parser := &mock.EventParser{
			ParseEventsFn: func(html, sourceURL string) ([]backstage.CalendarEvent, error) {
				return []backstage.CalendarEvent{{Title: "Stale but real", Date: "2024-06-10"}}, nil
			},
		}
		f.store = calendar.New(f.cache, fetcher, parser,
			calendar.WithClock(func() time.Time { return f.now }),
		)

		_, err := f.store.AllEvents(context.Background())
		require.NoError(t, err)

		// Expire both layers, then make the network fail.
		failing = true
		f.now = f.now.Add(calendar.DefaultTTL + time.Minute)
		delete(f.cache.Values, calendar.CacheKey)

		events, err := f.store.AllEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Stale but real", events[0].Title)
		assert.False(t, events[0].Fallback)
		assert.Equal(t, 2, f.fetches)
	})

	t.Run("fetch failure with no cached data yields fallback events", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, nil, backstage.Errorf(backstage.EUNAVAILABLE, "events page unreachable"))

		events, err := f.store.AllEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 10)
		for _, e := range events {
			assert.True(t, e.Fallback)
		}
	})

	t.Run("zero parsed events yield fallback and are not cached", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, nil, nil)

		events, err := f.store.AllEvents(context.Background())

		require.NoError(t, err)
		require.Len(t, events, 10)
		assert.True(t, events[0].Fallback)
		assert.NotContains(t, f.cache.Values, calendar.CacheKey)

		// Nothing was cached, so the next call fetches again.
		_, err = f.store.AllEvents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, f.fetches)
	})

	t.Run("canceled context is reported", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.store.AllEvents(ctx)

		assert.Error(t, err)
	})
}

func TestStore_EventForDate(t *testing.T) {
	t.Parallel()

	fixtureEvents := []backstage.CalendarEvent{
		{Title: "Garden Party", Date: "2024-06-15"},
		{Title: "Open Decks", Date: "2024-06-17"},
		{Title: "Album Launch", Date: "2024-06-25"},
	}

	t.Run("exact match", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, fixtureEvents, nil)

		match, err := f.store.EventForDate(context.Background(), "15/6/2024")

		require.NoError(t, err)
		assert.Equal(t, backstage.MatchExact, match.Kind)
		assert.Equal(t, "2024-06-15", match.Date)
		require.Len(t, match.Events, 1)
		assert.Equal(t, "Garden Party", match.Events[0].Title)
	})

	t.Run("near match within the day window", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, fixtureEvents, nil)

		match, err := f.store.EventForDate(context.Background(), "2024-06-18")

		require.NoError(t, err)
		assert.Equal(t, backstage.MatchNear, match.Kind)
		require.Len(t, match.Events, 2)
		assert.Equal(t, "Open Decks", match.Events[0].Title)
		assert.Equal(t, "Garden Party", match.Events[1].Title)
	})

	t.Run("no match outside the window", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, fixtureEvents, nil)

		match, err := f.store.EventForDate(context.Background(), "2024-06-05")

		require.NoError(t, err)
		assert.Equal(t, backstage.MatchNone, match.Kind)
		assert.Equal(t, "No events found on or within 3 days of 2024-06-05.", match.Message)
	})

	t.Run("unparseable date text", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, fixtureEvents, nil)

		match, err := f.store.EventForDate(context.Background(), "whenever the band plays")

		require.NoError(t, err)
		assert.Equal(t, backstage.MatchInvalid, match.Kind)
		assert.NotEmpty(t, match.Message)
		assert.Zero(t, f.fetches, "invalid dates never reach the network")
	})
}

func TestStore_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("invalidates both layers and refetches", func(t *testing.T) {
		t.Parallel()

		f := newStoreFixture(t, []backstage.CalendarEvent{{Title: "One", Date: "2024-06-10"}}, nil)

		_, err := f.store.AllEvents(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, f.fetches)

		require.NoError(t, f.store.Refresh(context.Background()))
		assert.Equal(t, 2, f.fetches)

		// The refreshed entry serves subsequent reads.
		_, err = f.store.AllEvents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, f.fetches)
	})
}
