package mock

import (
	"context"

	"github.com/mwalczyk/backstage"
)

// Compile-time interface verification.
var (
	_ backstage.KnowledgeService = (*KnowledgeService)(nil)
	_ backstage.DocumentSource   = (*DocumentSource)(nil)
)

// KnowledgeService is a mock implementation of backstage.KnowledgeService.
type KnowledgeService struct {
	SearchFn func(query string) ([]backstage.SearchHit, error)
}

func (s *KnowledgeService) Search(query string) ([]backstage.SearchHit, error) {
	return s.SearchFn(query)
}

// DocumentSource is a mock implementation of backstage.DocumentSource.
type DocumentSource struct {
	PagesFn func(ctx context.Context, path string) ([]string, error)
}

func (s *DocumentSource) Pages(ctx context.Context, path string) ([]string, error) {
	return s.PagesFn(ctx, path)
}
