package backstage

import "context"

// DocumentSource supplies ordered page texts extracted from a reference
// document. Implementations hide the underlying format (PDF, plain text);
// the indexing core only requires the page sequence.
type DocumentSource interface {
	// Pages returns the document's pages in order. Page numbering used
	// elsewhere in the system is 1-based over this slice.
	Pages(ctx context.Context, path string) ([]string, error)
}
