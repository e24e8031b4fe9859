package calendar_test

import (
	"testing"
	"time"

	"github.com/mwalczyk/backstage/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackEvents(t *testing.T) {
	t.Parallel()

	t.Run("generates five weekend pairs from midweek", func(t *testing.T) {
		t.Parallel()

		// 2024-06-12 is a Wednesday; the first pair is the coming weekend.
		events := calendar.FallbackEvents(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC))

		require.Len(t, events, 10)
		assert.Equal(t, "Friday Club Night", events[0].Title)
		assert.Equal(t, "2024-06-14", events[0].Date)
		assert.Equal(t, "14 June 2024", events[0].RawDate)
		assert.Equal(t, "22:00 - 04:00", events[0].Time)
		assert.Equal(t, "Saturday Live Session", events[1].Title)
		assert.Equal(t, "2024-06-15", events[1].Date)
		assert.Equal(t, "21:00 - 03:00", events[1].Time)

		assert.Equal(t, "2024-07-12", events[8].Date)
		assert.Equal(t, "2024-07-13", events[9].Date)

		for _, e := range events {
			assert.True(t, e.Fallback)
			assert.NotEmpty(t, e.Description)
		}
	})

	t.Run("a Friday reference day starts that day", func(t *testing.T) {
		t.Parallel()

		events := calendar.FallbackEvents(time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC))

		require.NotEmpty(t, events)
		assert.Equal(t, "2024-06-14", events[0].Date)
	})

	t.Run("deterministic for a fixed reference day", func(t *testing.T) {
		t.Parallel()

		from := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, calendar.FallbackEvents(from), calendar.FallbackEvents(from))
	})
}
