// Package goquery provides goquery-based HTML parsing adapters.
// Extraction is best-effort pattern matching over event-like elements,
// not a general parser for arbitrary site structures.
package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/calendar"
)

// DefaultTitle is used when an event element carries no recognizable title.
const DefaultTitle = "Untitled Event"

// eventSelector matches the two interchangeable class markers the venue
// site uses for event listings.
const eventSelector = ".event-item, .event-card"

// Ensure EventParser implements backstage.EventParser at compile time.
var _ backstage.EventParser = (*EventParser)(nil)

// EventParser parses scraped calendar HTML into normalized event records.
type EventParser struct {
	now func() time.Time
}

// Option configures an EventParser.
type Option func(*EventParser)

// WithClock overrides the time source used to resolve year-less dates,
// for tests.
func WithClock(now func() time.Time) Option {
	return func(p *EventParser) { p.now = now }
}

// NewEventParser creates a new EventParser.
func NewEventParser(opts ...Option) *EventParser {
	p := &EventParser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseEvents extracts event records from the page HTML. Fields missing
// from an element default rather than fail, and events whose date text
// cannot be normalized are kept with an empty Date. Returns EINVALID only
// when the HTML itself cannot be read.
func (p *EventParser) ParseEvents(html, sourceURL string) ([]backstage.CalendarEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, backstage.Errorf(backstage.EINVALID, "failed to parse calendar HTML: %v", err)
	}

	base, _ := url.Parse(sourceURL)
	now := p.now()

	var events []backstage.CalendarEvent
	doc.Find(eventSelector).Each(func(_ int, sel *goquery.Selection) {
		title := firstText(sel, ".event-title, h3, h2")
		if title == "" {
			title = DefaultTitle
		}
		rawDate := firstText(sel, ".event-date, .date, time")
		timeText := firstText(sel, ".event-time, .time")
		description := firstText(sel, ".event-description, p")

		all := strings.ToLower(sel.Text())
		hasTickets := strings.Contains(all, "tickets") || strings.Contains(all, "book")

		// Unparseable dates yield an empty canonical date; the event is
		// still kept.
		date, err := calendar.NormalizeDate(rawDate, now)
		if err != nil {
			date = ""
		}

		events = append(events, backstage.CalendarEvent{
			Title:       title,
			Date:        date,
			RawDate:     rawDate,
			Time:        timeText,
			Description: description,
			HasTickets:  hasTickets,
			SourceURL:   eventURL(sel, base, sourceURL),
		})
	})

	return events, nil
}

// firstText returns the trimmed text of the first element matching the
// selector list, or "" if none matches.
func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// eventURL resolves the element's first link against the page URL,
// defaulting to the page URL itself.
func eventURL(sel *goquery.Selection, base *url.URL, sourceURL string) string {
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok || href == "" || base == nil {
		return sourceURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return sourceURL
	}
	return base.ResolveReference(ref).String()
}
