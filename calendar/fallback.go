package calendar

import (
	"time"

	"github.com/mwalczyk/backstage"
)

// fallbackPairs is the number of Friday/Saturday weekend pairs generated.
const fallbackPairs = 5

const fallbackDescription = "Placeholder listing shown while the events calendar is unreachable."

// FallbackEvents deterministically generates placeholder events: the next
// five Friday/Saturday pairs from the given day, alternating a Friday club
// night and a Saturday live session. If the given day is a Friday the
// first pair starts that day. Generation never fails.
func FallbackEvents(from time.Time) []backstage.CalendarEvent {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	firstFriday := day.AddDate(0, 0, offset)

	events := make([]backstage.CalendarEvent, 0, fallbackPairs*2)
	for i := 0; i < fallbackPairs; i++ {
		friday := firstFriday.AddDate(0, 0, 7*i)
		saturday := friday.AddDate(0, 0, 1)

		events = append(events, backstage.CalendarEvent{
			Title:       "Friday Club Night",
			Date:        friday.Format(backstage.CanonicalDateLayout),
			RawDate:     friday.Format("2 January 2006"),
			Time:        "22:00 - 04:00",
			Description: fallbackDescription,
			Fallback:    true,
		})
		events = append(events, backstage.CalendarEvent{
			Title:       "Saturday Live Session",
			Date:        saturday.Format(backstage.CanonicalDateLayout),
			RawDate:     saturday.Format("2 January 2006"),
			Time:        "21:00 - 03:00",
			Description: fallbackDescription,
			Fallback:    true,
		})
	}
	return events
}
