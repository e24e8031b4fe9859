package backstage

import (
	"context"
	"time"
)

// SpecItem is one inventory item in the specification catalog. The id is
// the stable key across catalog versions; category and subcategory
// membership is positional within the catalog's nested mapping.
type SpecItem struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Quantity         int               `json:"quantity,omitempty"`
	Cost             float64           `json:"cost,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	Dimensions       string            `json:"dimensions,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	LastUpdated      time.Time         `json:"lastUpdated"`
	PreviousVersions []PreviousVersion `json:"previousVersions,omitempty"`
}

// Validate returns an error if the item contains invalid fields.
func (i *SpecItem) Validate() error {
	if i.ID == "" {
		return Errorf(EINVALID, "spec item id required")
	}
	if i.Name == "" {
		return Errorf(EINVALID, "spec item name required")
	}
	return nil
}

// PreviousVersion is a snapshot of an item at an earlier catalog version:
// a partial field-set, the time it was current, and a change note.
// ChangeHistory reuses this shape for the synthesized current record.
type PreviousVersion struct {
	Fields      map[string]any `json:"fields,omitempty"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Note        string         `json:"note,omitempty"`
}

// SpecMetadata describes a catalog version.
type SpecMetadata struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"lastUpdated"`
	BaseVersion string    `json:"baseVersion,omitempty"`
}

// ChangeLogEntry is one entry in the catalog's flat change log.
type ChangeLogEntry struct {
	Date    time.Time `json:"date"`
	Version string    `json:"version"`
	Author  string    `json:"author,omitempty"`
	Changes []string  `json:"changes"`
}

// SpecCatalog is a full versioned catalog. One catalog is active at a
// time; replacing it is atomic from the caller's perspective.
type SpecCatalog struct {
	Metadata   SpecMetadata                     `json:"metadata"`
	Categories map[string]map[string][]*SpecItem `json:"categories"`
	ChangeLog  []ChangeLogEntry                 `json:"changeLog"`
}

// SpecSource supplies candidate catalogs. A local snapshot file and a
// remote API are interchangeable behind this interface.
type SpecSource interface {
	// Version returns the source's current catalog timestamp. Remote
	// implementations answer from a cheap version-only endpoint; local
	// ones may need to read the whole snapshot.
	Version(ctx context.Context) (time.Time, error)

	// Catalog returns the full catalog together with its timestamp.
	Catalog(ctx context.Context) (*SpecCatalog, time.Time, error)
}

// SpecService answers identifier and category queries against the held
// specification catalog.
type SpecService interface {
	// ItemByID returns the first item with the given id in catalog order.
	// Returns ENOTFOUND if no item matches or no catalog is held.
	ItemByID(id string) (*SpecItem, error)

	// ItemsByCategory returns a category's items. With a subcategory it
	// returns that array verbatim; otherwise the concatenation of all
	// subcategory arrays in stored order.
	ItemsByCategory(category, subcategory string) []*SpecItem

	// Items returns every catalog item in catalog order.
	Items() []*SpecItem

	// ChangeHistory returns the item's previous versions plus a
	// synthesized "Current version" record, sorted newest-first.
	ChangeHistory(id string) ([]PreviousVersion, error)

	// RecentChanges returns change log entries from the last N days,
	// sorted descending by date.
	RecentChanges(days int) []ChangeLogEntry
}
