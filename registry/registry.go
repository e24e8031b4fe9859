// Package registry implements the specification registry: it loads a
// versioned catalog of inventory items, detects staleness against a
// remembered version timestamp, persists accepted updates, and
// reconstructs per-item change history.
package registry

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/mwalczyk/backstage"
)

// Durable cache keys for the held catalog and its version timestamp.
const (
	CatalogKey = "spec:catalog"
	VersionKey = "spec:version"
)

// currentVersionNote marks the synthesized record in change histories.
const currentVersionNote = "Current version"

// Ensure Registry implements backstage.SpecService at compile time.
var _ backstage.SpecService = (*Registry)(nil)

// Registry holds the active specification catalog. Callers must not issue
// concurrent Initialize/Sync calls against one instance; reads between
// syncs are safe because an accepted catalog is swapped in atomically.
type Registry struct {
	cache  backstage.Cache
	source backstage.SpecSource
	now    func() time.Time

	catalog *backstage.SpecCatalog
	version time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates a Registry over the given cache and catalog source.
func New(cache backstage.Cache, source backstage.SpecSource, opts ...Option) *Registry {
	r := &Registry{
		cache:  cache,
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize loads any previously persisted catalog and version timestamp
// (corrupt cache entries are discarded, not repaired), then runs one sync
// unconditionally. It reports whether the sync accepted an update;
// initialization failures degrade, they never propagate.
func (r *Registry) Initialize(ctx context.Context) bool {
	if blob, err := r.cache.Get(ctx, CatalogKey); err == nil {
		var catalog backstage.SpecCatalog
		if err := json.Unmarshal([]byte(blob), &catalog); err == nil {
			r.catalog = &catalog
		} else {
			_ = r.cache.Remove(ctx, CatalogKey)
		}
	}

	if blob, err := r.cache.Get(ctx, VersionKey); err == nil {
		if ts, err := time.Parse(time.RFC3339, blob); err == nil {
			r.version = ts
		} else {
			_ = r.cache.Remove(ctx, VersionKey)
		}
	}

	return r.Sync(ctx)
}

// Sync fetches a candidate catalog from the source and accepts it iff no
// catalog is currently held, no version timestamp is remembered, or the
// candidate is strictly newer. An accepted catalog atomically replaces
// the held one and is persisted durably. Any failure leaves the held
// catalog untouched and reports false; sync failure is never fatal.
func (r *Registry) Sync(ctx context.Context) bool {
	// Cheap pre-check to avoid downloading the full catalog. A pre-check
	// failure falls through to the full fetch.
	if r.catalog != nil && !r.version.IsZero() {
		if ts, err := r.source.Version(ctx); err == nil && !ts.After(r.version) {
			return false
		}
	}

	catalog, ts, err := r.source.Catalog(ctx)
	if err != nil || catalog == nil {
		return false
	}

	if r.catalog != nil && !r.version.IsZero() && !ts.After(r.version) {
		return false
	}

	r.catalog = catalog
	r.version = ts

	// Best effort: persistence failures leave the in-memory state
	// authoritative for this process.
	if blob, err := json.Marshal(catalog); err == nil {
		_ = r.cache.Set(ctx, CatalogKey, string(blob))
	}
	_ = r.cache.Set(ctx, VersionKey, ts.Format(time.RFC3339))

	return true
}

// Version returns the remembered catalog version timestamp, zero if none.
func (r *Registry) Version() time.Time {
	return r.version
}

// Catalog returns the held catalog, nil if none has been accepted yet.
func (r *Registry) Catalog() *backstage.SpecCatalog {
	return r.catalog
}

// ItemByID returns the first item with the given id, scanning categories
// and subcategories in sorted key order. Ids are assumed globally unique;
// with duplicates the first structural match wins.
// Returns ENOTFOUND if no item matches or no catalog is held.
func (r *Registry) ItemByID(id string) (*backstage.SpecItem, error) {
	for _, item := range r.Items() {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, backstage.Errorf(backstage.ENOTFOUND, "spec item %q not found", id)
}

// ItemsByCategory returns a category's items: the named subcategory array
// verbatim when a subcategory is given (empty if absent), otherwise the
// concatenation of all subcategory arrays in stored order.
func (r *Registry) ItemsByCategory(category, subcategory string) []*backstage.SpecItem {
	if r.catalog == nil {
		return nil
	}
	subcategories, ok := r.catalog.Categories[category]
	if !ok {
		return nil
	}
	if subcategory != "" {
		return subcategories[subcategory]
	}

	var items []*backstage.SpecItem
	for _, sub := range sortedKeys(subcategories) {
		items = append(items, subcategories[sub]...)
	}
	return items
}

// Items returns every catalog item, categories and subcategories in
// sorted key order for a deterministic scan.
func (r *Registry) Items() []*backstage.SpecItem {
	if r.catalog == nil {
		return nil
	}
	var items []*backstage.SpecItem
	for _, category := range sortedKeys(r.catalog.Categories) {
		items = append(items, r.ItemsByCategory(category, "")...)
	}
	return items
}

// ChangeHistory returns the item's previous versions plus one synthesized
// record for the present field-set (note "Current version"), sorted
// descending by last-updated time.
func (r *Registry) ChangeHistory(id string) ([]backstage.PreviousVersion, error) {
	item, err := r.ItemByID(id)
	if err != nil {
		return nil, err
	}

	history := make([]backstage.PreviousVersion, 0, len(item.PreviousVersions)+1)
	history = append(history, item.PreviousVersions...)
	history = append(history, backstage.PreviousVersion{
		Fields:      snapshotFields(item),
		LastUpdated: item.LastUpdated,
		Note:        currentVersionNote,
	})

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].LastUpdated.After(history[j].LastUpdated)
	})
	return history, nil
}

// RecentChanges returns change log entries dated within the last N days,
// sorted descending by date.
func (r *Registry) RecentChanges(days int) []backstage.ChangeLogEntry {
	if r.catalog == nil {
		return nil
	}
	cutoff := r.now().AddDate(0, 0, -days)

	var entries []backstage.ChangeLogEntry
	for _, entry := range r.catalog.ChangeLog {
		if !entry.Date.Before(cutoff) {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries
}

// snapshotFields captures an item's present field-set for the synthesized
// current-version record. Zero-valued fields are omitted, matching the
// partial field-sets stored for previous versions.
func snapshotFields(item *backstage.SpecItem) map[string]any {
	fields := map[string]any{"name": item.Name}
	if item.Quantity != 0 {
		fields["quantity"] = item.Quantity
	}
	if item.Cost != 0 {
		fields["cost"] = item.Cost
	}
	if item.Currency != "" {
		fields["currency"] = item.Currency
	}
	if item.Dimensions != "" {
		fields["dimensions"] = item.Dimensions
	}
	if item.Notes != "" {
		fields["notes"] = item.Notes
	}
	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
