package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/fs"
	"github.com/mwalczyk/backstage/index"
	"github.com/mwalczyk/backstage/pdf"
	"github.com/mwalczyk/backstage/registry"
	"github.com/mwalczyk/backstage/route"
	"golang.org/x/sync/errgroup"
)

// CLI defines the command-line interface structure.
type CLI struct {
	Ask     AskCmd     `cmd:"" help:"Ask the venue assistant a question."`
	Events  EventsCmd  `cmd:"" help:"List calendar events or look up a date."`
	Sync    SyncCmd    `cmd:"" help:"Synchronize the specification catalog."`
	Index   IndexCmd   `cmd:"" help:"Build the knowledge index from a document."`
	History HistoryCmd `cmd:"" help:"Show a spec item's change history."`
	Recent  RecentCmd  `cmd:"" help:"Show recent spec catalog changes."`
}

// Dependencies holds the wired services passed to commands via Kong binding.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Cache    backstage.Cache
	Events   backstage.EventService
	Registry *registry.Registry
	Indexer  *index.Indexer
}

// AskCmd answers a free-text question from all three indices.
type AskCmd struct {
	Question []string `arg:"" help:"The question to ask."`
}

func (c *AskCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx

	// Warm the calendar cache and sync the catalog concurrently. These
	// touch distinct component instances, so the single-writer rule holds.
	var g errgroup.Group
	g.Go(func() error {
		deps.Registry.Initialize(ctx)
		return nil
	})
	g.Go(func() error {
		_, err := deps.Events.AllEvents(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	router := &route.Router{
		Events:    deps.Events,
		Knowledge: index.NewSearcher(deps.LoadIndex(ctx)),
		Specs:     deps.Registry,
		Logger:    deps.Logger,
	}

	fmt.Fprintln(deps.Stdout, router.Answer(ctx, strings.Join(c.Question, " ")))
	return nil
}

// EventsCmd lists events or looks up a specific date.
type EventsCmd struct {
	Date    string `help:"Look up events for a date (free-form)."`
	Refresh bool   `help:"Invalidate caches and refetch before answering."`
}

func (c *EventsCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx

	if c.Refresh {
		if err := deps.Events.Refresh(ctx); err != nil {
			return err
		}
	}

	if c.Date != "" {
		match, err := deps.Events.EventForDate(ctx, c.Date)
		if err != nil {
			return err
		}
		printMatch(deps.Stdout, match)
		return nil
	}

	events, err := deps.Events.AllEvents(ctx)
	if err != nil {
		return err
	}
	for _, e := range events {
		printEvent(deps.Stdout, e)
	}
	return nil
}

func printMatch(w io.Writer, match *backstage.EventMatch) {
	switch match.Kind {
	case backstage.MatchExact:
		fmt.Fprintf(w, "Events on %s:\n", match.Date)
	case backstage.MatchNear:
		fmt.Fprintf(w, "No exact match for %s; nearby events:\n", match.Date)
	default:
		fmt.Fprintln(w, match.Message)
		return
	}
	for _, e := range match.Events {
		printEvent(w, e)
	}
}

func printEvent(w io.Writer, e backstage.CalendarEvent) {
	line := fmt.Sprintf("%s  %s", e.Date, e.Title)
	if e.Date == "" {
		line = fmt.Sprintf("%s  %s", e.RawDate, e.Title)
	}
	if e.Time != "" {
		line += " (" + e.Time + ")"
	}
	if e.Fallback {
		line += " [placeholder]"
	}
	fmt.Fprintln(w, line)
}

// SyncCmd synchronizes the specification catalog.
type SyncCmd struct{}

func (c *SyncCmd) Run(deps *Dependencies) error {
	if deps.Registry.Initialize(deps.Ctx) {
		catalog := deps.Registry.Catalog()
		fmt.Fprintf(deps.Stdout, "Catalog updated to version %s.\n", catalog.Metadata.Version)
		return nil
	}
	if deps.Registry.Catalog() == nil {
		fmt.Fprintln(deps.Stdout, "No catalog available; sync failed and nothing was cached.")
		return nil
	}
	fmt.Fprintln(deps.Stdout, "Catalog already up to date.")
	return nil
}

// IndexCmd builds the knowledge index from a PDF or plain-text document.
type IndexCmd struct {
	Path string `arg:"" help:"Path to the document (.pdf or text)." type:"existingfile"`
}

func (c *IndexCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx

	var source backstage.DocumentSource
	if strings.EqualFold(filepath.Ext(c.Path), ".pdf") {
		source = pdf.NewSource()
	} else {
		source = fs.NewTextSource()
	}

	pages, err := source.Pages(ctx, c.Path)
	if err != nil {
		return err
	}

	idx := deps.Indexer.Extract(pages)
	if err := deps.SaveIndex(ctx, idx); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages: %d equipment facts, %d prices, %d restrictions, %d FAQ entries.\n",
		len(idx.RawPages), len(idx.Equipment), len(idx.Prices), len(idx.Restrictions), len(idx.FAQs))
	return nil
}

// HistoryCmd shows a spec item's change history.
type HistoryCmd struct {
	ID string `arg:"" help:"Spec item id."`
}

func (c *HistoryCmd) Run(deps *Dependencies) error {
	deps.Registry.Initialize(deps.Ctx)

	history, err := deps.Registry.ChangeHistory(c.ID)
	if err != nil {
		return fmt.Errorf("%s", backstage.ErrorMessage(err))
	}
	for _, record := range history {
		note := record.Note
		if note == "" {
			note = "(no note)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", record.LastUpdated.Format("2006-01-02"), note)
	}
	return nil
}

// RecentCmd shows recent catalog changes.
type RecentCmd struct {
	Days int `default:"30" help:"How many days back to look."`
}

func (c *RecentCmd) Run(deps *Dependencies) error {
	deps.Registry.Initialize(deps.Ctx)

	entries := deps.Registry.RecentChanges(c.Days)
	if len(entries) == 0 {
		fmt.Fprintf(deps.Stdout, "No catalog changes in the last %d days.\n", c.Days)
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(deps.Stdout, "%s  v%s (%s)\n", entry.Date.Format("2006-01-02"), entry.Version, entry.Author)
		for _, change := range entry.Changes {
			fmt.Fprintf(deps.Stdout, "  - %s\n", change)
		}
	}
	return nil
}
