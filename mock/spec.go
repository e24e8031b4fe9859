package mock

import (
	"context"
	"time"

	"github.com/mwalczyk/backstage"
)

// Compile-time interface verification.
var (
	_ backstage.SpecSource  = (*SpecSource)(nil)
	_ backstage.SpecService = (*SpecService)(nil)
)

// SpecSource is a mock implementation of backstage.SpecSource.
type SpecSource struct {
	VersionFn func(ctx context.Context) (time.Time, error)
	CatalogFn func(ctx context.Context) (*backstage.SpecCatalog, time.Time, error)
}

func (s *SpecSource) Version(ctx context.Context) (time.Time, error) {
	return s.VersionFn(ctx)
}

func (s *SpecSource) Catalog(ctx context.Context) (*backstage.SpecCatalog, time.Time, error) {
	return s.CatalogFn(ctx)
}

// SpecService is a mock implementation of backstage.SpecService.
type SpecService struct {
	ItemByIDFn        func(id string) (*backstage.SpecItem, error)
	ItemsByCategoryFn func(category, subcategory string) []*backstage.SpecItem
	ItemsFn           func() []*backstage.SpecItem
	ChangeHistoryFn   func(id string) ([]backstage.PreviousVersion, error)
	RecentChangesFn   func(days int) []backstage.ChangeLogEntry
}

func (s *SpecService) ItemByID(id string) (*backstage.SpecItem, error) {
	return s.ItemByIDFn(id)
}

func (s *SpecService) ItemsByCategory(category, subcategory string) []*backstage.SpecItem {
	return s.ItemsByCategoryFn(category, subcategory)
}

func (s *SpecService) Items() []*backstage.SpecItem {
	return s.ItemsFn()
}

func (s *SpecService) ChangeHistory(id string) ([]backstage.PreviousVersion, error) {
	return s.ChangeHistoryFn(id)
}

func (s *SpecService) RecentChanges(days int) []backstage.ChangeLogEntry {
	return s.RecentChangesFn(days)
}
