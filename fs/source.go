// Package fs provides filesystem-based implementations of the backstage
// specification source and document source interfaces.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/mwalczyk/backstage"
)

// Ensure SnapshotSource implements backstage.SpecSource at compile time.
var _ backstage.SpecSource = (*SnapshotSource)(nil)

// SnapshotSource serves the specification catalog from a local JSON
// snapshot file. It is interchangeable with the remote client behind
// backstage.SpecSource; lacking a cheap version endpoint, Version reads
// the whole snapshot.
type SnapshotSource struct {
	path string
}

// NewSnapshotSource creates a SnapshotSource for the given file path.
func NewSnapshotSource(path string) *SnapshotSource {
	return &SnapshotSource{path: path}
}

// Version returns the snapshot's metadata timestamp.
func (s *SnapshotSource) Version(ctx context.Context) (time.Time, error) {
	_, ts, err := s.Catalog(ctx)
	return ts, err
}

// Catalog loads and decodes the snapshot file.
func (s *SnapshotSource) Catalog(ctx context.Context) (*backstage.SpecCatalog, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, time.Time{}, backstage.Errorf(backstage.EUNAVAILABLE, "cannot read spec snapshot %q: %v", s.path, err)
	}

	var catalog backstage.SpecCatalog
	if err := json.Unmarshal(blob, &catalog); err != nil {
		return nil, time.Time{}, backstage.Errorf(backstage.EINVALID, "malformed spec snapshot %q: %v", s.path, err)
	}
	return &catalog, catalog.Metadata.LastUpdated, nil
}
