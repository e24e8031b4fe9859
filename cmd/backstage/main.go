package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/calendar"
	"github.com/mwalczyk/backstage/fs"
	"github.com/mwalczyk/backstage/goquery"
	bshttp "github.com/mwalczyk/backstage/http"
	"github.com/mwalczyk/backstage/index"
	"github.com/mwalczyk/backstage/registry"
	bsslog "github.com/mwalczyk/backstage/slog"
	"github.com/mwalczyk/backstage/sqlite"
)

// indexCacheKey is the durable cache key for the serialized knowledge index.
const indexCacheKey = "knowledge:index"

// fetchRPS keeps repeated calendar refreshes polite to the venue site.
const fetchRPS = 1.0

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for the durable cache. Set before calling Run().
	DBPath string

	// Events page URL and optional relay endpoint.
	EventsURL string
	RelayURL  string

	// Remote spec catalog URL; when empty, the local snapshot is used.
	SpecURL      string
	SnapshotPath string

	// SQLite database backing the durable cache.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Cache    backstage.Cache
	Events   backstage.EventService
	Registry *registry.Registry
}

// NewMain returns a new instance of Main with defaults from the environment.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		EventsURL:    envOr("BACKSTAGE_EVENTS_URL", calendar.DefaultEventsURL),
		RelayURL:     os.Getenv("BACKSTAGE_RELAY_URL"),
		SpecURL:      os.Getenv("BACKSTAGE_SPEC_URL"),
		SnapshotPath: envOr("BACKSTAGE_SPEC_SNAPSHOT", "specs.json"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("backstage"),
		kong.Description("Offline knowledge assistant for the venue."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'backstage --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BACKSTAGE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Cache = sqlite.NewCache(m.DB)

	fetcherOpts := []bshttp.Option{bshttp.WithRateLimit(fetchRPS)}
	if m.RelayURL != "" {
		fetcherOpts = append(fetcherOpts, bshttp.WithRelay(m.RelayURL))
	}
	fetcher := bsslog.NewLoggingFetcher(bshttp.NewFetcher(fetcherOpts...), deps.Logger)

	m.Events = calendar.New(m.Cache, fetcher, goquery.NewEventParser(),
		calendar.WithSourceURL(m.EventsURL),
	)

	var source backstage.SpecSource
	if m.SpecURL != "" {
		source = bshttp.NewSpecClient(m.SpecURL)
	} else {
		source = fs.NewSnapshotSource(m.SnapshotPath)
	}
	m.Registry = registry.New(m.Cache, bsslog.NewLoggingSpecSource(source, deps.Logger))

	deps.Cache = m.Cache
	deps.Events = m.Events
	deps.Registry = m.Registry
	deps.Indexer = index.New()

	return kongCtx.Run(deps)
}

// LoadIndex reads the persisted knowledge index from the durable cache.
// Returns nil when no index has been built or the blob is corrupt.
func (d *Dependencies) LoadIndex(ctx context.Context) *backstage.KnowledgeIndex {
	blob, err := d.Cache.Get(ctx, indexCacheKey)
	if err != nil {
		return nil
	}
	var idx backstage.KnowledgeIndex
	if err := json.Unmarshal([]byte(blob), &idx); err != nil {
		return nil
	}
	return &idx
}

// SaveIndex persists the knowledge index to the durable cache.
func (d *Dependencies) SaveIndex(ctx context.Context, idx *backstage.KnowledgeIndex) error {
	blob, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return d.Cache.Set(ctx, indexCacheKey, string(blob))
}

func defaultDBPath() string {
	if path := os.Getenv("BACKSTAGE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "backstage.db"
	}
	dir := filepath.Join(home, ".backstage")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "backstage.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
