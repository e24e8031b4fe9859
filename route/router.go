// Package route implements the query router: the composition root that
// dispatches a free-text question to the calendar store, the document
// index and the specification registry, and merges whatever comes back
// into a single answer.
package route

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mwalczyk/backstage"
)

// blockSeparator joins the per-source answer blocks.
const blockSeparator = "\n\n---\n\n"

// maxKnowledgeHits caps how many document hits one answer quotes.
const maxKnowledgeHits = 5

// User-facing fallback messages.
const (
	notFoundMessage = "Sorry, I couldn't find anything about that. Try asking about equipment, pricing, restrictions, or upcoming events."
	setupMessage    = "I'm still getting set up. Please try again in a moment."
)

// Date-looking fragments extracted from questions, tried in order.
var dateREs = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(?:,?\s+\d{4})?`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`),
}

// Router answers free-text questions by consulting all three indices and
// concatenating whichever return non-empty results, formatted per source.
type Router struct {
	Events    backstage.EventService
	Knowledge backstage.KnowledgeService
	Specs     backstage.SpecService
	Logger    *slog.Logger
}

// Answer routes the question to the calendar (when it contains a
// date-looking fragment), the document index, and the specification
// catalog, and merges the non-empty results. When everything comes back
// empty it returns a fixed not-found message, or a still-getting-set-up
// message if the index has not been built yet.
func (r *Router) Answer(ctx context.Context, question string) string {
	var blocks []string
	settingUp := false

	if block := r.calendarBlock(ctx, question); block != "" {
		blocks = append(blocks, block)
	}

	block, ok := r.knowledgeBlock(question)
	if block != "" {
		blocks = append(blocks, block)
	}
	settingUp = settingUp || !ok

	if block := r.specBlock(question); block != "" {
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		if settingUp {
			return setupMessage
		}
		return notFoundMessage
	}
	return strings.Join(blocks, blockSeparator)
}

// calendarBlock extracts a date from the question and formats the match.
// Questions without a date-looking fragment, and dates with no events,
// contribute nothing.
func (r *Router) calendarBlock(ctx context.Context, question string) string {
	if r.Events == nil {
		return ""
	}
	dateText := ExtractDate(question)
	if dateText == "" {
		return ""
	}

	match, err := r.Events.EventForDate(ctx, dateText)
	if err != nil || match == nil {
		return ""
	}

	switch match.Kind {
	case backstage.MatchExact:
		return formatEvents(fmt.Sprintf("Events on %s:", match.Date), match.Events, false)
	case backstage.MatchNear:
		return formatEvents(fmt.Sprintf("No events exactly on %s, but close by:", match.Date), match.Events, true)
	default:
		return ""
	}
}

// knowledgeBlock searches the document index. The boolean reports whether
// the index was available.
func (r *Router) knowledgeBlock(question string) (string, bool) {
	if r.Knowledge == nil {
		return "", true
	}

	hits, err := r.Knowledge.Search(question)
	if err != nil {
		if backstage.ErrorCode(err) == backstage.EINVALID {
			return "", false
		}
		if r.Logger != nil {
			r.Logger.Error("document search failed", "error", err)
		}
		return "", true
	}
	if len(hits) == 0 {
		return "", true
	}

	var b strings.Builder
	b.WriteString("From the technical documentation:")
	for i, hit := range hits {
		if i == maxKnowledgeHits {
			break
		}
		b.WriteString("\n- ")
		b.WriteString(hit.Text)
		if hit.Page > 0 {
			fmt.Fprintf(&b, " (page %d)", hit.Page)
		}
	}
	return b.String(), true
}

// specBlock scans catalog items for ids or names mentioned in the question.
func (r *Router) specBlock(question string) string {
	if r.Specs == nil {
		return ""
	}

	q := strings.ToLower(question)
	var lines []string
	for _, item := range r.Specs.Items() {
		if !strings.Contains(q, strings.ToLower(item.Name)) && !strings.Contains(q, strings.ToLower(item.ID)) {
			continue
		}
		lines = append(lines, formatSpecItem(item))
	}
	if len(lines) == 0 {
		return ""
	}
	return "From the spec catalog:\n" + strings.Join(lines, "\n")
}

func formatSpecItem(item *backstage.SpecItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s", item.Name)
	if item.Quantity > 0 {
		fmt.Fprintf(&b, ": quantity %d", item.Quantity)
	}
	if item.Cost > 0 {
		currency := item.Currency
		if currency == "" {
			currency = "GBP"
		}
		fmt.Fprintf(&b, ", %.2f %s", item.Cost, currency)
	}
	if item.Notes != "" {
		fmt.Fprintf(&b, " (%s)", item.Notes)
	}
	return b.String()
}

func formatEvents(header string, events []backstage.CalendarEvent, withDates bool) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range events {
		b.WriteString("\n- ")
		b.WriteString(e.Title)
		if withDates && e.Date != "" {
			fmt.Fprintf(&b, " on %s", e.Date)
		}
		if e.Time != "" {
			fmt.Fprintf(&b, " at %s", e.Time)
		}
		if e.Description != "" {
			fmt.Fprintf(&b, ": %s", e.Description)
		}
		if e.HasTickets {
			b.WriteString(" Tickets are available.")
		}
	}
	return b.String()
}

// ExtractDate returns the first date-looking fragment of the question,
// or "" if none is present.
func ExtractDate(question string) string {
	for _, re := range dateREs {
		if m := re.FindString(question); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
