package fs

import (
	"context"
	"os"
	"strings"

	"github.com/mwalczyk/backstage"
)

// Ensure TextSource implements backstage.DocumentSource at compile time.
var _ backstage.DocumentSource = (*TextSource)(nil)

// TextSource supplies document pages from a plain-text file. Pages are
// separated by form feeds when the file contains any, otherwise the whole
// file is a single page.
type TextSource struct{}

// NewTextSource creates a new TextSource.
func NewTextSource() *TextSource {
	return &TextSource{}
}

// Pages reads the file and splits it into ordered page texts.
func (s *TextSource) Pages(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, backstage.Errorf(backstage.EUNAVAILABLE, "cannot read document %q: %v", path, err)
	}

	text := string(blob)
	if !strings.Contains(text, "\f") {
		return []string{text}, nil
	}
	return strings.Split(text, "\f"), nil
}
